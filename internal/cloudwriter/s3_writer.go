package cloudwriter

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Writer buffers one export object in memory and uploads it on Close.
// Export objects are bounded by the size of one filtered relation table, so
// a single PutObject beats multipart plumbing here.
type S3Writer struct {
	client      *s3.Client
	bucket      string
	key         string
	contentType string
	buffer      bytes.Buffer
}

type S3WriterFactory struct {
	client *s3.Client
}

func NewS3WriterFactory(region string) (*S3WriterFactory, error) {
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &S3WriterFactory{client: s3.NewFromConfig(cfg)}, nil
}

// NewWriter prepares an upload for one export object. The object path is
// normalized to a forward-slash S3 key whatever the local separator was.
func (f *S3WriterFactory) NewWriter(bucket, objectPath string) (CloudWriter, error) {
	key := objectKey(objectPath)
	if key == "" || key == "." {
		return nil, fmt.Errorf("invalid object path %q", objectPath)
	}
	return &S3Writer{
		client:      f.client,
		bucket:      bucket,
		key:         key,
		contentType: contentTypeFor(key),
	}, nil
}

func (w *S3Writer) Write(data []byte) (int, error) {
	return w.buffer.Write(data)
}

func (w *S3Writer) Close() error {
	ctx := context.Background()
	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(w.key),
		Body:        bytes.NewReader(w.buffer.Bytes()),
		ContentType: aws.String(w.contentType),
	})
	if err != nil {
		return fmt.Errorf("unable to upload %s to S3: %w", w.key, err)
	}
	return nil
}

// objectKey turns a local-style path into an S3 object key: forward slashes,
// cleaned, no leading slash.
func objectKey(p string) string {
	k := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(k, "/")
}

// contentTypeFor maps the export formats to their media types so the objects
// download and preview correctly from the bucket.
func contentTypeFor(key string) string {
	switch path.Ext(key) {
	case ".parquet":
		return "application/vnd.apache.parquet"
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
