package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Source opens a billing export by location.
type Source interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// FileSource reads exports from the local filesystem.
type FileSource struct{}

// Open opens the file at location.
func (FileSource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", location, err)
	}
	return f, nil
}

// S3API is the minimal interface for reading objects from S3.
type S3API interface {
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads exports (for example Cost and Usage Report CSVs) from S3.
type S3Source struct {
	client S3API
}

// NewS3Source creates a source backed by the given client.
func NewS3Source(client S3API) *S3Source {
	return &S3Source{client: client}
}

// NewS3SourceFromProfile loads AWS configuration using the specified profile
// and region. Empty values fall back to the default credential chain and region.
func NewS3SourceFromProfile(ctx context.Context, profile, region string) (*S3Source, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewS3Source(s3.NewFromConfig(cfg)), nil
}

// Open fetches the object at an s3://bucket/key location.
func (s *S3Source) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URI(location)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// IsS3 reports whether location uses the s3:// scheme.
func IsS3(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

// ParseS3URI splits s3://bucket/key into its parts.
func ParseS3URI(location string) (bucket, key string, err error) {
	if !IsS3(location) {
		return "", "", fmt.Errorf("invalid S3 location %q: expected s3://bucket/key", location)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(location, "s3://"), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 location %q: expected s3://bucket/key", location)
	}
	return bucket, key, nil
}

// Router dispatches s3:// locations to S3 and everything else to the filesystem.
type Router struct {
	Files FileSource
	S3    Source
}

// Resolve selects the backing source for location.
func (r Router) Resolve(location string) (Source, error) {
	if !IsS3(location) {
		return r.Files, nil
	}
	if r.S3 == nil {
		return nil, fmt.Errorf("open %s: S3 source not configured", location)
	}
	return r.S3, nil
}

// Open opens location through the resolved source.
func (r Router) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	src, err := r.Resolve(location)
	if err != nil {
		return nil, err
	}
	return src.Open(ctx, location)
}
