package stream

import (
	"bytes"
	"errors"
	"io"
)

// seq returns [start, start+1, ..., start+n-1] truncated to bytes.
func seq(start, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(start + i)
	}
	return b
}

// chunkSource serves data at most chunk bytes per Read. Available reports
// the bytes left unless hideAvailable is set.
type chunkSource struct {
	data          []byte
	chunk         int
	hideAvailable bool
	reads         int
	closes        int
	eofWithData   bool
}

func newChunkSource(data []byte, chunk int) *chunkSource {
	return &chunkSource{data: data, chunk: chunk}
}

func (s *chunkSource) Read(p []byte) (int, error) {
	s.reads++
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	n := min(len(p), s.chunk, len(s.data))
	copy(p, s.data[:n])
	s.data = s.data[n:]
	if s.eofWithData && len(s.data) == 0 {
		return n, io.EOF
	}
	return n, nil
}

func (s *chunkSource) Available() (int, error) {
	if s.hideAvailable {
		return 0, nil
	}
	return len(s.data), nil
}

func (s *chunkSource) Close() error {
	s.closes++
	return nil
}

// failingSource returns err on every call after the first n bytes.
type failingSource struct {
	data []byte
	err  error
}

func (s *failingSource) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, s.err
	}
	n := copy(p, s.data)
	s.data = s.data[n:]
	return n, nil
}

func (s *failingSource) Available() (int, error) { return len(s.data), nil }
func (s *failingSource) Close() error            { return nil }

// recordSink keeps every byte written and every call made.
type recordSink struct {
	buf     bytes.Buffer
	writes  [][]byte
	flushes int
	closes  int

	// limit, if positive, makes Write accept at most limit bytes.
	limit    int
	writeErr error
	closeErr error
}

func (s *recordSink) Write(p []byte) (int, error) {
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	n := len(p)
	if s.limit > 0 && n > s.limit {
		n = s.limit
	}
	s.writes = append(s.writes, append([]byte(nil), p[:n]...))
	s.buf.Write(p[:n])
	return n, nil
}

func (s *recordSink) Flush() error {
	s.flushes++
	return nil
}

func (s *recordSink) Close() error {
	s.closes++
	return s.closeErr
}

var errBroken = errors.New("broken transport")

// abortSink is a recordSink that can discard its contents.
type abortSink struct {
	recordSink
	aborts int
}

func (s *abortSink) Abort() error {
	s.aborts++
	s.buf.Reset()
	return nil
}
