// Package s3 stores uploaded roster PDFs in S3-compatible object storage.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Config holds object storage settings.
type Config struct {
	Bucket string
	Region string

	// Endpoint overrides the AWS endpoint for S3-compatible services such
	// as MinIO. Path-style addressing is used when it is set.
	Endpoint string

	// AccessKeyID and SecretAccessKey are optional. The default AWS
	// credential chain is used when they are empty.
	AccessKeyID     string
	SecretAccessKey string

	// PublicBaseURL, when set, is used to build blob URLs instead of the
	// s3:// form.
	PublicBaseURL string
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("s3: bucket is required")
	}
	if c.PublicBaseURL != "" {
		if _, err := url.ParseRequestURI(c.PublicBaseURL); err != nil {
			return fmt.Errorf("s3: invalid public base URL: %w", err)
		}
	}
	return nil
}

// Store is an S3 blob store.
type Store struct {
	s3     *s3.Client
	bucket string
	public string
}

// NewStore creates an S3 blob store.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{
		s3:     client,
		bucket: cfg.Bucket,
		public: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Put stores a PDF under key and returns its URL.
func (s *Store) Put(ctx context.Context, key string, buf []byte) (string, error) {
	_, err := s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object %s: %v", domain.ErrBlobStoreUnavailable, key, err)
	}
	return s.URL(key), nil
}

// Get reads the object stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, domain.NewNotFoundError("blob", key)
		}
		return nil, fmt.Errorf("%w: get object %s: %v", domain.ErrBlobStoreUnavailable, key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

// URL returns the blob URL recorded for key.
func (s *Store) URL(key string) string {
	return blobURL(s.public, s.bucket, key)
}

func blobURL(public, bucket, key string) string {
	key = strings.TrimLeft(key, "/")
	if public != "" {
		return public + "/" + key
	}
	return "s3://" + bucket + "/" + key
}

// KeyFromURL recovers the object key from a URL produced by this store.
// It reports false for URLs that point elsewhere.
func (s *Store) KeyFromURL(raw string) (string, bool) {
	return keyFromURL(s.public, s.bucket, raw)
}

func keyFromURL(public, bucket, raw string) (string, bool) {
	if public != "" && strings.HasPrefix(raw, public+"/") {
		return strings.TrimPrefix(raw, public+"/"), true
	}
	prefix := "s3://" + bucket + "/"
	if strings.HasPrefix(raw, prefix) {
		return strings.TrimPrefix(raw, prefix), true
	}
	return "", false
}
