package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/haivivi/streamio/pkg/stream"
)

func newTestS3(t *testing.T) (*S3Store, *mockS3) {
	t.Helper()
	mock := newMockS3()
	return NewS3(mock, "test-bucket", ""), mock
}

func TestS3CreateUploadsOnClose(t *testing.T) {
	store, mock := newTestS3(t)
	ctx := context.Background()

	sink, err := store.Create(ctx, "obj.txt")
	if err != nil {
		t.Fatal(err)
	}
	w := stream.NewBufferedWriterSize(sink, 4)
	io.WriteString(w, "hello ")
	io.WriteString(w, "s3")
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if mock.puts != 0 {
		t.Fatalf("PutObject called %d times before Close, want 0", mock.puts)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if mock.puts != 1 {
		t.Fatalf("PutObject called %d times, want 1", mock.puts)
	}
	if mock.lastLength != 8 {
		t.Fatalf("ContentLength = %d, want 8", mock.lastLength)
	}
	if got := string(mock.objects["obj.txt"]); got != "hello s3" {
		t.Fatalf("stored %q, want %q", got, "hello s3")
	}
}

func TestS3OpenReportsNothingAvailable(t *testing.T) {
	store, mock := newTestS3(t)
	mock.objects["k"] = []byte("abc")

	src, err := store.Open(context.Background(), "k")
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	// Network bodies never claim availability, even when the mock's reader
	// could tell.
	if avail, _ := src.Available(); avail != 0 {
		t.Fatalf("Available() = %d, want 0", avail)
	}
	got, _ := io.ReadAll(src)
	if string(got) != "abc" {
		t.Fatalf("got %q", got)
	}
}

func TestS3OpenNotExist(t *testing.T) {
	store, _ := newTestS3(t)
	_, err := store.Open(context.Background(), "missing")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestS3OpenOtherError(t *testing.T) {
	mock := newMockS3()
	mock.getErr = errors.New("network timeout")
	store := NewS3(mock, "bucket", "pfx")

	_, err := store.Open(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, os.ErrNotExist) {
		t.Fatal("should not be ErrNotExist for generic errors")
	}
	if err.Error() != "network timeout" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestS3UploadError(t *testing.T) {
	mock := newMockS3()
	mock.putErr = errors.New("upload failed")
	store := NewS3(mock, "bucket", "")

	w, err := store.Create(context.Background(), "obj")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(w, "data")
	if err := w.Close(); err == nil || err.Error() != "upload failed" {
		t.Fatalf("Close = %v, want upload error", err)
	}
	if _, err := w.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("Write after Close = %v, want ErrClosed", err)
	}
}

func TestS3ExistsAndDelete(t *testing.T) {
	store, mock := newTestS3(t)
	ctx := context.Background()

	if ok, err := store.Exists(ctx, "tmp"); err != nil || ok {
		t.Fatalf("Exists(missing) = %v, %v", ok, err)
	}
	mock.objects["tmp"] = []byte("x")
	if ok, err := store.Exists(ctx, "tmp"); err != nil || !ok {
		t.Fatalf("Exists(present) = %v, %v", ok, err)
	}
	if err := store.Delete(ctx, "tmp"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "tmp"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}

	mock.headErr = errors.New("network failure")
	if _, err := store.Exists(ctx, "x"); err == nil || err.Error() != "network failure" {
		t.Fatalf("Exists = %v, want network failure", err)
	}
	mock.deleteErr = errors.New("access denied")
	if err := store.Delete(ctx, "x"); err == nil {
		t.Fatal("expected delete error")
	}
}

func TestS3KeyPrefix(t *testing.T) {
	mock := newMockS3()
	store := NewS3(mock, "bucket", "my/prefix")

	w, _ := store.Create(context.Background(), "file.bin")
	io.WriteString(w, "content")
	w.Close()

	if _, ok := mock.objects["my/prefix/file.bin"]; !ok {
		t.Fatal("expected key with prefix my/prefix/file.bin")
	}
	if got := NewS3(mock, "bucket", "").key("a/b"); got != "a/b" {
		t.Fatalf("key = %q, want %q", got, "a/b")
	}
}

func TestIsS3NotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"NoSuchKey", errNoSuchKey, true},
		{"NotFound", errNotFound, true},
		{"other api error", &apiError{code: "AccessDenied", msg: "denied"}, false},
		{"plain error", errors.New("timeout"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isS3NotFound(tt.err); got != tt.want {
				t.Fatalf("isS3NotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewS3Client(t *testing.T) {
	c := NewS3Client(S3Config{
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "AKID",
		SecretKey: "secret",
		PathStyle: true,
	})
	opts := c.Options()
	if opts.Region != "us-east-1" || !opts.UsePathStyle {
		t.Fatalf("unexpected options: region=%q pathStyle=%v", opts.Region, opts.UsePathStyle)
	}
	if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://127.0.0.1:9000" {
		t.Fatalf("BaseEndpoint = %v", opts.BaseEndpoint)
	}
	creds, err := opts.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessKeyID != "AKID" || creds.SecretAccessKey != "secret" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
	var _ S3Client = c
}

func TestS3AbortSkipsUpload(t *testing.T) {
	store, mock := newTestS3(t)
	mock.objects["obj"] = []byte("old")

	sink, err := store.Create(context.Background(), "obj")
	if err != nil {
		t.Fatal(err)
	}
	w := stream.NewBufferedWriterSize(sink, 4)
	io.WriteString(w, "partial data")
	if err := w.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if mock.puts != 0 {
		t.Fatalf("PutObject called %d times, want 0", mock.puts)
	}
	if got := string(mock.objects["obj"]); got != "old" {
		t.Fatalf("object = %q, want %q", got, "old")
	}
	if _, err := sink.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("Write after Abort = %v, want ErrClosed", err)
	}
}
