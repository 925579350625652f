package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/haivivi/streamio/pkg/stream"
)

var errWriterClosed = errors.New("blob: write to closed blob")

// chunkWriter is the sink under the buffered writer returned by Create.
// Every Write stores its bytes as one or more chunks. After a failed Write
// the blob can no longer be committed.
type chunkWriter struct {
	ctx      context.Context
	store    *Store
	manifest Manifest
	err      error
	closed   bool
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errWriterClosed
	}
	n := 0
	for n < len(p) {
		end := min(len(p), n+w.store.chunkSize)
		key := w.store.chunkKey(w.manifest.ID, w.manifest.Chunks)
		if err := w.store.kv.Set(w.ctx, key, p[n:end]); err != nil {
			w.err = err
			return n, fmt.Errorf("blob: write chunk %d of %s: %w", w.manifest.Chunks, w.manifest.Name, err)
		}
		w.manifest.Chunks++
		w.manifest.Size += int64(end - n)
		n = end
	}
	return n, nil
}

// Flush does nothing: chunks are stored as they are written.
func (w *chunkWriter) Flush() error {
	return nil
}

// Close commits the manifest. If a Write failed, or the manifest cannot be
// stored, the chunks are dropped and the previous blob stays in place.
func (w *chunkWriter) Close() error {
	if w.closed {
		return nil
	}
	if w.err != nil {
		return errors.Join(
			fmt.Errorf("blob: %s not committed: %w", w.manifest.Name, w.err),
			w.Abort(),
		)
	}
	w.closed = true
	published, err := w.store.commit(w.ctx, &w.manifest)
	if err != nil && !published {
		return errors.Join(err, w.store.deleteChunks(w.ctx, &w.manifest))
	}
	return err
}

// Abort drops the chunks written so far without touching the committed blob.
func (w *chunkWriter) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	m := w.manifest
	if w.err != nil {
		// The chunk of the failed Set may still have been stored.
		m.Chunks++
	}
	return w.store.deleteChunks(w.ctx, &m)
}

// chunkReader reads a committed blob chunk by chunk.
type chunkReader struct {
	ctx      context.Context
	store    *Store
	manifest Manifest
	next     int
	cur      *stream.ArrayReader
	closed   bool
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, os.ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	for r.cur == nil || r.cur.Len() == 0 {
		if r.next >= r.manifest.Chunks {
			return 0, io.EOF
		}
		data, err := r.store.kv.Get(r.ctx, r.store.chunkKey(r.manifest.ID, r.next))
		if err != nil {
			return 0, fmt.Errorf("blob: read chunk %d of %s: %w", r.next, r.manifest.Name, err)
		}
		r.cur = stream.NewArrayReader(data)
		r.next++
	}
	return r.cur.Read(p)
}

// Available reports the unread bytes of the chunk already fetched. The next
// chunk needs a store round trip and is not counted.
func (r *chunkReader) Available() (int, error) {
	if r.closed {
		return 0, os.ErrClosed
	}
	if r.cur == nil {
		return 0, nil
	}
	return r.cur.Len(), nil
}

func (r *chunkReader) Close() error {
	r.closed = true
	r.cur = nil
	return nil
}
