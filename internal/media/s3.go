package media

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/erazemk/najdeno/internal/apperr"
)

// s3API is the subset of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps blobs in an S3 (or S3-compatible) bucket with public reads.
type S3Store struct {
	client  s3API
	Bucket  string
	BaseURL string
}

// S3Options configures NewS3Store.
type S3Options struct {
	Region string
	Bucket string
	// Endpoint overrides the AWS endpoint, e.g. for MinIO.
	Endpoint string
	// BaseURL is the public URL of the bucket. Derived when empty.
	BaseURL string
}

// NewS3Store loads the default AWS configuration and connects to the bucket.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = publicBucketURL(opts)
	}
	return &S3Store{client: client, Bucket: opts.Bucket, BaseURL: baseURL}, nil
}

func publicBucketURL(opts S3Options) string {
	if opts.Endpoint != "" {
		return Locator(opts.Endpoint, opts.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
}

// Upload puts data under a new key and returns its public locator.
func (s *S3Store) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	key := NewKey(filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		return "", &apperr.StorageError{Op: "upload", Err: err}
	}
	return Locator(s.BaseURL, key), nil
}

// Remove deletes the object a locator points to.
func (s *S3Store) Remove(ctx context.Context, locator string) error {
	key, err := ResolveKey(s.BaseURL, locator)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &apperr.StorageError{Op: "remove", Locator: locator, Err: err}
	}
	return nil
}

// Resolve returns the key behind a locator issued by this store.
func (s *S3Store) Resolve(locator string) (string, error) {
	return ResolveKey(s.BaseURL, locator)
}
