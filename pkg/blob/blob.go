// Package blob stores named byte streams as fixed-size chunks in a kv.Store.
//
// Key layout (relative to the store prefix):
//
//	{prefix}:meta:{name}              → msgpack-encoded Manifest
//	{prefix}:chunk:{id}:{%08d index}  → raw chunk bytes
//
// A blob becomes visible only when the writer returned by Create is closed,
// which writes the manifest. Replacing a blob writes the new chunks under a
// fresh ID before swapping the manifest, so readers of the old version keep
// a consistent view until its chunks are removed.
package blob

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/streamio/pkg/kv"
	"github.com/haivivi/streamio/pkg/stream"
)

// DefaultChunkSize is the chunk size used when Options.ChunkSize is zero.
const DefaultChunkSize = 64 << 10

var (
	// ErrNotFound is returned for names with no committed blob. It wraps
	// os.ErrNotExist.
	ErrNotFound = fmt.Errorf("blob: %w", os.ErrNotExist)

	// ErrInvalidName is returned for empty names.
	ErrInvalidName = errors.New("blob: invalid name")
)

// Manifest describes a committed blob.
type Manifest struct {
	ID        string    `msgpack:"id" json:"id" yaml:"id"`
	Name      string    `msgpack:"name" json:"name" yaml:"name"`
	Size      int64     `msgpack:"size" json:"size" yaml:"size"`
	Chunks    int       `msgpack:"chunks" json:"chunks" yaml:"chunks"`
	ChunkSize int       `msgpack:"chunk_size" json:"chunk_size" yaml:"chunk_size"`
	CreatedAt time.Time `msgpack:"created_at" json:"created_at" yaml:"created_at"`
}

// Options configures a Store.
type Options struct {
	// ChunkSize is the maximum size of one stored chunk and the capacity of
	// the write buffer returned by Create.
	ChunkSize int
}

// Store is a chunked blob store. It is safe for concurrent use to the extent
// the underlying kv.Store is; individual readers and writers are not.
type Store struct {
	kv        kv.Store
	prefix    kv.Key
	chunkSize int
}

// New returns a Store keeping its data under prefix in store.
func New(store kv.Store, prefix kv.Key, opts *Options) *Store {
	size := DefaultChunkSize
	if opts != nil && opts.ChunkSize > 0 {
		size = opts.ChunkSize
	}
	return &Store{kv: store, prefix: prefix, chunkSize: size}
}

func (s *Store) metaKey(name string) kv.Key {
	return s.prefix.Append("meta", name)
}

func (s *Store) metaPrefix() kv.Key {
	return s.prefix.Append("meta")
}

func (s *Store) chunkKey(id string, i int) kv.Key {
	return s.prefix.Append("chunk", id, fmt.Sprintf("%08d", i))
}

// ChunkSize returns the configured chunk size.
func (s *Store) ChunkSize() int {
	return s.chunkSize
}

// Create starts a new blob called name. Bytes written to the returned sink
// are buffered and stored in chunks of at most ChunkSize bytes. The blob is
// committed, replacing any previous blob of the same name, when the sink is
// closed. Aborting the sink with stream.Abort drops the new chunks and keeps
// the previous blob.
func (s *Store) Create(ctx context.Context, name string) (stream.Sink, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	// Stat rejects names the kv store cannot encode, and an unreachable
	// store, before any chunk is written.
	if _, err := s.Stat(ctx, name); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	w := &chunkWriter{
		ctx:   ctx,
		store: s,
		manifest: Manifest{
			ID:        uuid.NewString(),
			Name:      name,
			ChunkSize: s.chunkSize,
			CreatedAt: time.Now().UTC(),
		},
	}
	return stream.NewBufferedWriterSize(w, s.chunkSize), nil
}

// Open returns a source over the committed blob called name. Chunks are
// fetched one at a time as reading progresses.
func (s *Store) Open(ctx context.Context, name string) (stream.Source, error) {
	m, err := s.Stat(ctx, name)
	if err != nil {
		return nil, err
	}
	return &chunkReader{ctx: ctx, store: s, manifest: *m}, nil
}

// Stat returns the manifest of the committed blob called name.
func (s *Store) Stat(ctx context.Context, name string) (*Manifest, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	data, err := s.kv.Get(ctx, s.metaKey(name))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("blob: stat %s: %w", name, err)
	}
	var m Manifest
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("blob: decode manifest %s: %w", name, err)
	}
	return &m, nil
}

// Delete removes the blob called name together with its chunks. Deleting a
// missing blob is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	m, err := s.Stat(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, s.metaKey(name)); err != nil {
		return fmt.Errorf("blob: delete %s: %w", name, err)
	}
	return s.deleteChunks(ctx, m)
}

// List yields the manifests of all committed blobs ordered by name.
func (s *Store) List(ctx context.Context) iter.Seq2[*Manifest, error] {
	return func(yield func(*Manifest, error) bool) {
		for entry, err := range s.kv.List(ctx, s.metaPrefix()) {
			if err != nil {
				yield(nil, err)
				return
			}
			var m Manifest
			if err := msgpack.Unmarshal(entry.Value, &m); err != nil {
				if !yield(nil, fmt.Errorf("blob: decode manifest %s: %w", entry.Key, err)) {
					return
				}
				continue
			}
			if !yield(&m, nil) {
				return
			}
		}
	}
}

func (s *Store) deleteChunks(ctx context.Context, m *Manifest) error {
	if m.Chunks == 0 {
		return nil
	}
	keys := make([]kv.Key, m.Chunks)
	for i := range keys {
		keys[i] = s.chunkKey(m.ID, i)
	}
	if err := s.kv.BatchDelete(ctx, keys); err != nil {
		return fmt.Errorf("blob: delete chunks of %s: %w", m.Name, err)
	}
	return nil
}

// commit publishes m and drops the chunks of the blob it replaces. published
// reports whether m became visible, even when dropping the old chunks failed.
func (s *Store) commit(ctx context.Context, m *Manifest) (published bool, err error) {
	old, err := s.Stat(ctx, m.Name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, err
	}
	data, err := msgpack.Marshal(m)
	if err != nil {
		return false, fmt.Errorf("blob: encode manifest %s: %w", m.Name, err)
	}
	if err := s.kv.Set(ctx, s.metaKey(m.Name), data); err != nil {
		return false, fmt.Errorf("blob: commit %s: %w", m.Name, err)
	}
	if old != nil && old.ID != m.ID {
		return true, s.deleteChunks(ctx, old)
	}
	return true, nil
}
