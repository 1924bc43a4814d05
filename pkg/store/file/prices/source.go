package prices

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// Opener resolves a location into a readable stream.
type Opener interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

type localOpener struct{}

func (localOpener) Open(_ context.Context, uri string) (io.ReadCloser, error) {
	return os.Open(strings.TrimPrefix(uri, "file://"))
}

// ObjectGetter is the subset of the S3 client the file store needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type s3Opener struct {
	client ObjectGetter
}

func NewS3Opener(client ObjectGetter) Opener {
	return &s3Opener{client: client}
}

// NewDefaultS3Opener builds an S3 client from the default AWS credential chain.
// A non-empty region overrides the one found in the environment.
func NewDefaultS3Opener(ctx context.Context, region string) (Opener, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewS3Opener(s3.NewFromConfig(cfg)), nil
}

func (o *s3Opener) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3 object %s: %w", uri, err)
	}
	return out.Body, nil
}

// ParseS3URI splits s3://bucket/key into its bucket and key.
func ParseS3URI(uri string) (string, string, error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri must look like s3://bucket/key: %q", uri)
	}
	return bucket, key, nil
}

func IsS3URI(uri string) bool {
	return strings.HasPrefix(uri, s3Scheme)
}
