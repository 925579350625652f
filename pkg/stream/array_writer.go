package stream

import "io"

// scratchSize is the initial capacity of an ArrayWriter.
const scratchSize = 32

// ArrayWriter accumulates an unbounded byte sequence in memory.
//
// Bytes are kept in one contiguous slice that doubles its capacity when it
// runs out of room, so appends are amortized O(1). Bytes returns a copy of
// everything written since construction or the last Reset, in write order.
type ArrayWriter struct {
	buf []byte
}

// NewArrayWriter returns an empty writer.
func NewArrayWriter() *ArrayWriter {
	return NewArrayWriterSize(scratchSize)
}

// NewArrayWriterSize returns an empty writer with capacity for n bytes.
// Non-positive sizes fall back to the default.
func NewArrayWriterSize(n int) *ArrayWriter {
	if n <= 0 {
		n = scratchSize
	}
	return &ArrayWriter{buf: make([]byte, 0, n)}
}

// grow makes room for n more bytes.
func (w *ArrayWriter) grow(n int) {
	need := len(w.buf) + n
	if need <= cap(w.buf) {
		return
	}
	c := 2 * cap(w.buf)
	if c < scratchSize {
		c = scratchSize
	}
	for c < need {
		c *= 2
	}
	nb := make([]byte, len(w.buf), c)
	copy(nb, w.buf)
	w.buf = nb
}

// WriteByte appends c. It never fails.
func (w *ArrayWriter) WriteByte(c byte) error {
	w.grow(1)
	w.buf = append(w.buf, c)
	return nil
}

// Write appends p. It never fails.
func (w *ArrayWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	w.grow(len(p))
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// WriteRange appends buf[off:off+n].
//
// A nil buf or a range outside buf returns an error wrapping
// ErrInvalidArgument and leaves the writer unchanged. n == 0 is a no-op.
func (w *ArrayWriter) WriteRange(buf []byte, off, n int) error {
	if err := checkRange(buf, off, n); err != nil {
		return err
	}
	_, err := w.Write(buf[off : off+n])
	return err
}

// Bytes returns a copy of all bytes written so far.
func (w *ArrayWriter) Bytes() []byte {
	out := make([]byte, len(w.buf))
	copy(out, w.buf)
	return out
}

// String returns the written bytes as a string.
func (w *ArrayWriter) String() string {
	return string(w.buf)
}

// Len returns the total number of bytes written.
func (w *ArrayWriter) Len() int {
	return len(w.buf)
}

// Reset discards all written bytes. The writer behaves like a new one
// afterwards; capacity is kept.
func (w *ArrayWriter) Reset() {
	w.buf = w.buf[:0]
}

// WriteTo writes the accumulated bytes to dst without consuming them.
func (w *ArrayWriter) WriteTo(dst io.Writer) (int64, error) {
	n, err := dst.Write(w.buf)
	if err == nil && n < len(w.buf) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// Flush does nothing.
func (w *ArrayWriter) Flush() error { return nil }

// Close does nothing. The written bytes stay readable.
func (w *ArrayWriter) Close() error { return nil }
