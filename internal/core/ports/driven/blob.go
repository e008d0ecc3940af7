package driven

import "context"

// BlobStore keeps original artifacts. The core never manages its
// credentials or the lifecycle of stored blobs.
type BlobStore interface {
	// Put stores buf under key and returns its URL.
	Put(ctx context.Context, key string, buf []byte) (string, error)

	// Get reads the blob stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
}
