package stream

import "io"

// ArrayReader reads from a fixed window of a byte slice. The slice is not
// copied; callers must not modify it while the reader is in use.
//
// The read position only moves forward and never passes the end of the
// window.
type ArrayReader struct {
	buf   []byte
	pos   int
	limit int
}

// NewArrayReader returns a reader over all of buf.
func NewArrayReader(buf []byte) *ArrayReader {
	return &ArrayReader{buf: buf, limit: len(buf)}
}

// NewArrayReaderRange returns a reader over buf[off:off+n].
//
// Returns an error wrapping ErrInvalidArgument if buf is nil or the range
// does not fit in buf.
func NewArrayReaderRange(buf []byte, off, n int) (*ArrayReader, error) {
	if err := checkRange(buf, off, n); err != nil {
		return nil, err
	}
	return &ArrayReader{buf: buf, pos: off, limit: off + n}, nil
}

// ReadByte returns the next byte, or io.EOF at the end of the window.
func (r *ArrayReader) ReadByte() (byte, error) {
	if r.pos >= r.limit {
		return 0, io.EOF
	}
	c := r.buf[r.pos]
	r.pos++
	return c, nil
}

// Read copies up to len(p) bytes from the window into p.
//
// A zero-length p returns 0 and a nil error even at the end of the window.
func (r *ArrayReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.pos >= r.limit {
		return 0, io.EOF
	}
	n := copy(p, r.buf[r.pos:r.limit])
	r.pos += n
	return n, nil
}

// ReadRange reads up to n bytes into buf[off:off+n].
func (r *ArrayReader) ReadRange(buf []byte, off, n int) (int, error) {
	if err := checkRange(buf, off, n); err != nil {
		return 0, err
	}
	return r.Read(buf[off : off+n])
}

// Available returns the number of unread bytes in the window.
func (r *ArrayReader) Available() (int, error) {
	return r.limit - r.pos, nil
}

// Len returns the number of unread bytes in the window.
func (r *ArrayReader) Len() int {
	return r.limit - r.pos
}

// Close does nothing. The backing slice is owned by the caller.
func (r *ArrayReader) Close() error {
	return nil
}
