package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// UploadError reports a failed transfer to the object store: absent or
// invalid credentials, a missing bucket, or an interrupted upload. Uploads
// are never retried.
type UploadError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload s3://%s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// ObjectKey derives the remote key for an artifact. The key is a pure
// function of the environment tag and the local file name.
func ObjectKey(environment, filename string) string {
	return environment + "/outputs/" + filename
}

// putObjectAPI is the slice of the S3 client the publisher uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads local artifacts to an S3 bucket under an
// environment-scoped key prefix.
type Publisher struct {
	client      putObjectAPI
	bucket      string
	environment string
}

// NewPublisher creates a Publisher for the given region, bucket, and
// environment tag. Credentials come from the default AWS credential chain.
func NewPublisher(ctx context.Context, region, bucket, environment string) (*Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Publisher{client: s3.NewFromConfig(cfg), bucket: bucket, environment: environment}, nil
}

// Publish uploads the file at path under the environment-scoped key, setting
// the content type derived from the file extension. It returns the
// s3://bucket/key destination for the confirmation notice.
func (p *Publisher) Publish(ctx context.Context, path string) (string, error) {
	key := ObjectKey(p.environment, filepath.Base(path))
	f, err := os.Open(path)
	if err != nil {
		return "", &UploadError{Bucket: p.bucket, Key: key, Err: err}
	}
	defer func() { _ = f.Close() }()

	contentType := ContentTypeFor(filepath.Ext(path))
	log.Debug().Str("bucket", p.bucket).Str("key", key).Str("contentType", contentType).Msg("uploading artifact")
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", &UploadError{Bucket: p.bucket, Key: key, Err: err}
	}
	return fmt.Sprintf("s3://%s/%s", p.bucket, key), nil
}
