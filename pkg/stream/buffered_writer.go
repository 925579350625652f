package stream

import (
	"errors"
	"io"
)

// BufferedWriter adds a fixed-size write-behind buffer in front of a Sink.
//
// Writes that fit in the free space of the buffer are staged. A write that
// does not fit drains the staged bytes and then goes to the sink directly in
// one call. Staged bytes reach the sink on Flush and Close; callers that
// neither flush nor close lose them.
type BufferedWriter struct {
	dst    Sink
	buf    []byte
	pos    int
	closed bool
}

// NewBufferedWriter returns a writer over dst with DefaultBufferSize bytes
// of staging.
func NewBufferedWriter(dst Sink) *BufferedWriter {
	return NewBufferedWriterSize(dst, DefaultBufferSize)
}

// NewBufferedWriterSize returns a writer over dst with size bytes of
// staging. Non-positive sizes fall back to DefaultBufferSize.
func NewBufferedWriterSize(dst Sink, size int) *BufferedWriter {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &BufferedWriter{
		dst: dst,
		buf: make([]byte, size),
	}
}

// drain writes the staged bytes to the sink in one call. On failure the
// bytes the sink did not accept stay staged.
func (b *BufferedWriter) drain() error {
	if b.pos == 0 {
		return nil
	}
	n, err := b.dst.Write(b.buf[:b.pos])
	if err == nil && n < b.pos {
		err = io.ErrShortWrite
	}
	if err != nil {
		if n > 0 && n < b.pos {
			copy(b.buf, b.buf[n:b.pos])
			b.pos -= n
		}
		return err
	}
	b.pos = 0
	return nil
}

// WriteByte stages c, draining first when the buffer is full.
func (b *BufferedWriter) WriteByte(c byte) error {
	if b.pos >= len(b.buf) {
		if err := b.drain(); err != nil {
			return err
		}
	}
	b.buf[b.pos] = c
	b.pos++
	return nil
}

// Write stages p, or, if p is larger than the free space, drains and writes
// p to the sink directly.
func (b *BufferedWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(p) > len(b.buf)-b.pos {
		if err := b.drain(); err != nil {
			return 0, err
		}
		n, err := b.dst.Write(p)
		if err == nil && n < len(p) {
			err = io.ErrShortWrite
		}
		return n, err
	}
	n := copy(b.buf[b.pos:], p)
	b.pos += n
	return n, nil
}

// WriteRange writes buf[off:off+n].
//
// Returns an error wrapping ErrInvalidArgument if buf is nil or the range
// does not fit in buf; nothing is staged in that case.
func (b *BufferedWriter) WriteRange(buf []byte, off, n int) error {
	if err := checkRange(buf, off, n); err != nil {
		return err
	}
	_, err := b.Write(buf[off : off+n])
	return err
}

// Flush drains the staged bytes and flushes the sink.
func (b *BufferedWriter) Flush() error {
	if err := b.drain(); err != nil {
		return err
	}
	return b.dst.Flush()
}

// Close flushes and then closes the sink. The sink is closed even when the
// flush fails; both errors are returned. Only the first call reaches the
// sink.
func (b *BufferedWriter) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	flushErr := b.Flush()
	closeErr := b.dst.Close()
	if flushErr != nil || closeErr != nil {
		return errors.Join(flushErr, closeErr)
	}
	return nil
}

// Abort drops the staged bytes and aborts the sink, or closes it when the
// sink cannot abort. Like Close, only the first call reaches the sink.
func (b *BufferedWriter) Abort() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.pos = 0
	return Abort(b.dst)
}

// Buffered returns the number of staged bytes.
func (b *BufferedWriter) Buffered() int {
	return b.pos
}

// Free returns the number of bytes that can be staged before the next
// drain.
func (b *BufferedWriter) Free() int {
	return len(b.buf) - b.pos
}

// Size returns the capacity of the staging buffer.
func (b *BufferedWriter) Size() int {
	return len(b.buf)
}
