package stream

import "io"

// BufferedReader adds a fixed-size read-ahead buffer in front of a Source.
//
// Single-byte and small reads are served from the buffer, which is refilled
// with one source read when it runs dry. Bulk reads first drain what is
// already buffered and then read straight into the caller's slice, so large
// requests are never copied through the internal buffer.
//
// The buffer is owned by the reader. It always holds 0 <= pos <= limit <=
// len(buf).
type BufferedReader struct {
	src    Source
	buf    []byte
	pos    int
	limit  int
	err    error
	closed bool
}

// NewBufferedReader returns a reader over src with DefaultBufferSize bytes
// of buffering.
func NewBufferedReader(src Source) *BufferedReader {
	return NewBufferedReaderSize(src, DefaultBufferSize)
}

// NewBufferedReaderSize returns a reader over src with size bytes of
// buffering. Non-positive sizes fall back to DefaultBufferSize.
func NewBufferedReaderSize(src Source, size int) *BufferedReader {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &BufferedReader{
		src: src,
		buf: make([]byte, size),
	}
}

// fill resets the buffer and issues exactly one read on the source. If the
// source returns data together with an error, the data is kept and the error
// is held for the next call that runs out of buffered bytes.
func (b *BufferedReader) fill() error {
	b.pos = 0
	b.limit = 0
	n, err := b.src.Read(b.buf)
	if n < 0 {
		return errNegativeRead
	}
	b.limit = n
	if err != nil {
		if n > 0 {
			b.err = err
			return nil
		}
		return err
	}
	return nil
}

func (b *BufferedReader) readErr() error {
	err := b.err
	b.err = nil
	return err
}

// ReadByte returns the next byte, refilling the buffer when it is empty.
// Returns io.EOF once the source is exhausted, on every later call too.
func (b *BufferedReader) ReadByte() (byte, error) {
	for i := 0; b.pos >= b.limit; i++ {
		if b.err != nil {
			return 0, b.readErr()
		}
		if i >= maxConsecutiveEmptyReads {
			return 0, io.ErrNoProgress
		}
		if err := b.fill(); err != nil {
			return 0, err
		}
	}
	c := b.buf[b.pos]
	b.pos++
	return c, nil
}

// Read reads up to len(p) bytes into p.
//
// Buffered bytes are copied first without touching the source. While more
// bytes are wanted, Read then reads directly from the source into p. It
// stops as soon as the source reports nothing more available without
// blocking, so a partial result is returned rather than waiting for the
// rest. io.EOF is returned only when no bytes were delivered.
func (b *BufferedReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := 0
	if b.pos < b.limit {
		n = copy(p, b.buf[b.pos:b.limit])
		b.pos += n
		if n == len(p) {
			return n, nil
		}
	}

	if b.err != nil {
		if n > 0 {
			return n, nil
		}
		return 0, b.readErr()
	}
	if n > 0 && !b.sourceReady() {
		return n, nil
	}

	for empty := 0; n < len(p); {
		m, err := b.src.Read(p[n:])
		if m < 0 {
			return n, errNegativeRead
		}
		n += m
		if err != nil {
			if n > 0 {
				b.err = err
				return n, nil
			}
			return 0, err
		}
		if m == 0 {
			if n > 0 {
				break
			}
			if empty++; empty >= maxConsecutiveEmptyReads {
				return 0, io.ErrNoProgress
			}
			continue
		}
		if !b.sourceReady() {
			break
		}
	}
	return n, nil
}

// sourceReady reports whether the source claims more bytes can be read
// without blocking. A failing Available counts as not ready; the failure
// itself surfaces on the next read.
func (b *BufferedReader) sourceReady() bool {
	avail, err := b.src.Available()
	return err == nil && avail > 0
}

// ReadRange reads up to n bytes into buf[off:off+n].
//
// Returns an error wrapping ErrInvalidArgument if buf is nil or the range
// does not fit in buf.
func (b *BufferedReader) ReadRange(buf []byte, off, n int) (int, error) {
	if err := checkRange(buf, off, n); err != nil {
		return 0, err
	}
	return b.Read(buf[off : off+n])
}

// Available returns the number of bytes that can be read without blocking:
// the source's own availability plus the bytes already buffered.
func (b *BufferedReader) Available() (int, error) {
	avail, err := b.src.Available()
	if err != nil {
		return 0, err
	}
	return avail + b.Buffered(), nil
}

// Buffered returns the number of bytes that can be read from the buffer
// without touching the source.
func (b *BufferedReader) Buffered() int {
	return b.limit - b.pos
}

// Size returns the capacity of the internal buffer.
func (b *BufferedReader) Size() int {
	return len(b.buf)
}

// Close closes the source. Only the first call reaches the source; later
// calls return nil.
func (b *BufferedReader) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.src.Close()
}
