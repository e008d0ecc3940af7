package domain

import (
	"strings"
	"time"
)

// IngestRequest is a document upload. Exactly one content source must be
// given: raw File bytes, a SourceURL to fetch, or a BlobURL to fetch.
type IngestRequest struct {
	Complex  Complex
	Zone     Zone
	Category Category

	Title   string
	DocDate *time.Time

	// File holds raw PDF bytes. FileName is used for the blob key.
	File     []byte
	FileName string

	// SourceURL is fetched when FetchSource is set, and otherwise only
	// recorded as a reference.
	SourceURL   string
	FetchSource bool

	// BlobURL is fetched when FetchBlob is set, and otherwise only recorded.
	BlobURL   string
	BlobKey   string
	FetchBlob bool
}

// ContentSource names where ingestion reads document bytes from.
type ContentSource string

const (
	ContentFromFile   ContentSource = "file"
	ContentFromSource ContentSource = "source_url"
	ContentFromBlob   ContentSource = "blob_url"
)

// Validate checks the hierarchy and the content source, returning the
// chosen source.
func (r *IngestRequest) Validate() (ContentSource, error) {
	if err := ValidateHierarchy(r.Complex, r.Zone, r.Category); err != nil {
		return "", err
	}

	var sources []ContentSource
	if len(r.File) > 0 {
		sources = append(sources, ContentFromFile)
	}
	if r.FetchSource {
		if strings.TrimSpace(r.SourceURL) == "" {
			return "", NewValidationError("sourceUrl", "is required when fetching from the source URL")
		}
		sources = append(sources, ContentFromSource)
	}
	if r.FetchBlob {
		if strings.TrimSpace(r.BlobURL) == "" {
			return "", NewValidationError("blobUrl", "is required when fetching from the blob URL")
		}
		sources = append(sources, ContentFromBlob)
	}

	switch len(sources) {
	case 0:
		return "", NewValidationError("file", "one of file, sourceUrl or blobUrl must be provided")
	case 1:
		return sources[0], nil
	default:
		return "", NewValidationError("file", "exactly one of file, sourceUrl or blobUrl may be provided")
	}
}
