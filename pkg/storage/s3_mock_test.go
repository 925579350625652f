package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ---------------------------------------------------------------------------
// mock S3 client
// ---------------------------------------------------------------------------

// apiError implements smithy.APIError for test assertions.
type apiError struct {
	code string
	msg  string
}

func (e *apiError) Error() string                 { return e.msg }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.msg }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

var (
	errNoSuchKey = &apiError{code: "NoSuchKey", msg: "no such key"}
	errNotFound  = &apiError{code: "NotFound", msg: "not found"}
)

// mockS3 is a thread-safe in-memory S3 backend for testing.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte

	// Optional hooks to inject errors.
	getErr    error
	putErr    error
	deleteErr error
	headErr   error

	puts       int
	lastLength int64
}

func newMockS3() *mockS3 {
	return &mockS3{objects: make(map[string][]byte)}
}

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, errNoSuchKey
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(data)),
	}, nil
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if in.ContentLength != nil {
		m.lastLength = *in.ContentLength
	}
	m.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (m *mockS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if m.headErr != nil {
		return nil, m.headErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[*in.Key]; !ok {
		return nil, errNotFound
	}
	return &s3.HeadObjectOutput{}, nil
}
