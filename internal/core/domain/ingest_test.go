package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validIngest() IngestRequest {
	return IngestRequest{Complex: ComplexRohini, Zone: ZoneNorth, Category: CategoryJudgesList}
}

func TestIngestRequest_Validate(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		req := validIngest()
		req.File = []byte("%PDF-1.4")
		src, err := req.Validate()
		require.NoError(t, err)
		assert.Equal(t, ContentFromFile, src)
	})

	t.Run("source url", func(t *testing.T) {
		req := validIngest()
		req.SourceURL = "https://court.example/list.pdf"
		req.FetchSource = true
		src, err := req.Validate()
		require.NoError(t, err)
		assert.Equal(t, ContentFromSource, src)
	})

	t.Run("blob url", func(t *testing.T) {
		req := validIngest()
		req.BlobURL = "https://blobs.example/list.pdf"
		req.FetchBlob = true
		src, err := req.Validate()
		require.NoError(t, err)
		assert.Equal(t, ContentFromBlob, src)
	})

	t.Run("recorded urls without fetch need a file", func(t *testing.T) {
		req := validIngest()
		req.SourceURL = "https://court.example/list.pdf"
		_, err := req.Validate()
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("two sources", func(t *testing.T) {
		req := validIngest()
		req.File = []byte("%PDF-1.4")
		req.SourceURL = "https://court.example/list.pdf"
		req.FetchSource = true
		_, err := req.Validate()
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("fetch without url", func(t *testing.T) {
		req := validIngest()
		req.FetchBlob = true
		_, err := req.Validate()
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("invalid hierarchy", func(t *testing.T) {
		req := validIngest()
		req.Zone = ZoneCBI
		req.File = []byte("%PDF-1.4")
		_, err := req.Validate()
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
