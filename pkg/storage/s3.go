package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/haivivi/streamio/pkg/stream"
)

// S3Client abstracts the S3 API operations used by [S3Store].
// The [s3.Client] type satisfies this interface.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Config holds the settings NewS3Client needs to talk to S3 or an
// S3-compatible service (MinIO, R2, etc.).
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PathStyle addresses buckets as endpoint/bucket instead of
	// bucket.endpoint. Most self-hosted services need it.
	PathStyle bool
}

// NewS3Client builds an [s3.Client] from static settings. With an empty
// AccessKey the client sends anonymous requests.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.PathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		creds := aws.Credentials{
			AccessKeyID:     cfg.AccessKey,
			SecretAccessKey: cfg.SecretKey,
			Source:          "streamio",
		}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	return s3.New(opts)
}

// S3Store implements FileStore backed by Amazon S3 or any S3-compatible
// object store.
//
// All storage paths are mapped to S3 keys under an optional prefix.
type S3Store struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3 creates an S3-backed FileStore.
//
// Any type satisfying [S3Client] is accepted; typically an [s3.Client].
// Prefix is prepended to all object keys; pass "" for no prefix.
func NewS3(client S3Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// key builds the full S3 object key for the given storage path.
func (s *S3Store) key(path string) string {
	if s.prefix == "" {
		return path
	}
	return s.prefix + "/" + path
}

// Open streams the named object via GetObject.
// Returns an error wrapping os.ErrNotExist if the key does not exist.
func (s *S3Store) Open(ctx context.Context, path string) (stream.Source, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("storage: open %s: %w", path, os.ErrNotExist)
		}
		return nil, err
	}
	// The body is a network stream: nothing is known to be readable without
	// blocking, so the adapter reports 0 available.
	return stream.AsSource(out.Body), nil
}

// Create returns a sink that stages the object in memory and uploads it with
// a single PutObject when closed, so the request carries an exact
// Content-Length. Close returns the upload error, if any. Aborting the sink
// drops the staged bytes without a request, leaving any existing object as
// it was.
func (s *S3Store) Create(ctx context.Context, path string) (stream.Sink, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	return &s3Sink{
		ctx:   ctx,
		store: s,
		path:  path,
		buf:   stream.NewArrayWriter(),
	}, nil
}

// Delete removes the named object via DeleteObject.
// S3 DeleteObject is already idempotent (returns success for missing keys).
func (s *S3Store) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	return err
}

// Exists checks whether the named object exists via HeadObject.
func (s *S3Store) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// s3Sink accumulates an object in an ArrayWriter until Close.
type s3Sink struct {
	ctx    context.Context
	store  *S3Store
	path   string
	buf    *stream.ArrayWriter
	closed bool
}

func (w *s3Sink) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.buf.Write(p)
}

// Flush does nothing: S3 objects are written whole.
func (w *s3Sink) Flush() error {
	if w.closed {
		return os.ErrClosed
	}
	return nil
}

func (w *s3Sink) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	// The SDK needs a seekable body to sign the payload.
	data := w.buf.Bytes()
	w.buf.Reset()
	_, err := w.store.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket:        aws.String(w.store.bucket),
		Key:           aws.String(w.store.key(w.path)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	return err
}

// Abort drops the staged object without uploading it.
func (w *s3Sink) Abort() error {
	w.closed = true
	w.buf.Reset()
	return nil
}

// isS3NotFound reports whether err indicates the S3 object does not exist.
func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

// Compile-time interface checks.
var (
	_ FileStore      = (*S3Store)(nil)
	_ stream.Aborter = (*s3Sink)(nil)
)
