package driven

import "context"

// Fetcher downloads a remote document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
