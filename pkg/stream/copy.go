package stream

import (
	"errors"
	"io"
)

// Copy reads src until end of data and writes everything to dst through a
// BufferedReader and BufferedWriter of the given size, then flushes dst.
// Neither side is closed.
//
// Returns the number of bytes written to dst. A nil error means src reached
// io.EOF and every byte was flushed.
func Copy(dst Sink, src Source, size int) (int64, error) {
	r := NewBufferedReaderSize(src, size)
	w := NewBufferedWriterSize(dst, size)
	chunk := make([]byte, r.Size())

	var total int64
	for {
		n, rerr := r.Read(chunk)
		if n > 0 {
			m, werr := w.Write(chunk[:n])
			total += int64(m)
			if werr != nil {
				return total, werr
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return total, rerr
		}
	}
	return total, w.Flush()
}
