package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/haivivi/streamio/pkg/blob"
	"github.com/haivivi/streamio/pkg/stream"
)

// Blob implements FileStore on a blob.Store. Paths are used as blob names.
type Blob struct {
	store *blob.Store
}

// NewBlob wraps store as a FileStore.
func NewBlob(store *blob.Store) *Blob {
	return &Blob{store: store}
}

func (b *Blob) Open(ctx context.Context, path string) (stream.Source, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	return b.store.Open(ctx, path)
}

func (b *Blob) Create(ctx context.Context, path string) (stream.Sink, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	return b.store.Create(ctx, path)
}

func (b *Blob) Delete(ctx context.Context, path string) error {
	return b.store.Delete(ctx, path)
}

func (b *Blob) Exists(ctx context.Context, path string) (bool, error) {
	_, err := b.store.Stat(ctx, path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, blob.ErrNotFound) {
		return false, nil
	}
	return false, err
}

var _ FileStore = (*Blob)(nil)
