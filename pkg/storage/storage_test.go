package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/haivivi/streamio/pkg/blob"
	"github.com/haivivi/streamio/pkg/kv"
	"github.com/haivivi/streamio/pkg/stream"
)

func fileStores(t *testing.T) map[string]FileStore {
	t.Helper()
	return map[string]FileStore{
		"local": newTestLocal(t),
		"s3":    NewS3(newMockS3(), "bucket", "data"),
		"blob":  NewBlob(blob.New(kv.NewMemory(nil), kv.Key{"b"}, &blob.Options{ChunkSize: 7})),
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	payload := make([]byte, 1000)
	for i := range payload {
		payload[i] = byte(i * 7)
	}

	for name, fs := range fileStores(t) {
		t.Run(name, func(t *testing.T) {
			dst, err := fs.Create(ctx, "dir/obj")
			if err != nil {
				t.Fatal(err)
			}
			if _, err := stream.Copy(dst, stream.NewArrayReader(payload), 64); err != nil {
				t.Fatal(err)
			}
			if err := dst.Close(); err != nil {
				t.Fatal(err)
			}

			ok, err := fs.Exists(ctx, "dir/obj")
			if err != nil || !ok {
				t.Fatalf("Exists = %v, %v", ok, err)
			}

			src, err := fs.Open(ctx, "dir/obj")
			if err != nil {
				t.Fatal(err)
			}
			got, err := io.ReadAll(stream.NewBufferedReaderSize(src, 32))
			src.Close()
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != string(payload) {
				t.Fatalf("read %d bytes, want %d matching", len(got), len(payload))
			}

			if err := fs.Delete(ctx, "dir/obj"); err != nil {
				t.Fatal(err)
			}
			if _, err := fs.Open(ctx, "dir/obj"); !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("Open after Delete = %v, want ErrNotExist", err)
			}
			if err := fs.Delete(ctx, "dir/obj"); err != nil {
				t.Fatalf("second Delete = %v", err)
			}
		})
	}
}

func TestFileStoreEmptyPath(t *testing.T) {
	ctx := context.Background()
	for name, fs := range fileStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := fs.Open(ctx, ""); !errors.Is(err, ErrInvalidPath) {
				t.Fatalf("Open(\"\") = %v, want ErrInvalidPath", err)
			}
			if _, err := fs.Create(ctx, ""); !errors.Is(err, ErrInvalidPath) {
				t.Fatalf("Create(\"\") = %v, want ErrInvalidPath", err)
			}
		})
	}
}

func TestFileStoreAbortKeepsExisting(t *testing.T) {
	ctx := context.Background()
	for name, fs := range fileStores(t) {
		t.Run(name, func(t *testing.T) {
			for i, content := range []string{"kept content", "dropped content that is longer"} {
				dst, err := fs.Create(ctx, "obj")
				if err != nil {
					t.Fatal(err)
				}
				if _, err := stream.Copy(dst, stream.NewArrayReader([]byte(content)), 4); err != nil {
					t.Fatal(err)
				}
				if i == 0 {
					err = dst.Close()
				} else {
					err = stream.Abort(dst)
				}
				if err != nil {
					t.Fatal(err)
				}
			}

			src, err := fs.Open(ctx, "obj")
			if err != nil {
				t.Fatal(err)
			}
			defer src.Close()
			got, _ := io.ReadAll(src)
			if string(got) != "kept content" {
				t.Fatalf("got %q after abort, want %q", got, "kept content")
			}
		})
	}
}
