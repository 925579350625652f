package stream

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a buffer or (offset, length) pair
// passed to a range operation is invalid. Nothing is read or written when it
// is returned.
var ErrInvalidArgument = errors.New("stream: invalid argument")

// errNegativeRead is returned when a wrapped source reports a negative count.
var errNegativeRead = errors.New("stream: source returned negative count")

// maxConsecutiveEmptyReads bounds how often fill retries a source that
// returns no data and no error.
const maxConsecutiveEmptyReads = 100

// checkRange validates buf[off:off+n]. A nil buffer is rejected even for
// zero-length requests.
func checkRange(buf []byte, off, n int) error {
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidArgument)
	}
	if off < 0 || n < 0 || off > len(buf)-n {
		return fmt.Errorf("%w: range [%d, %d+%d) outside buffer of length %d",
			ErrInvalidArgument, off, off, n, len(buf))
	}
	return nil
}
