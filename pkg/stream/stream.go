package stream

import (
	"io"
)

// DefaultBufferSize is the capacity used by NewBufferedReader and
// NewBufferedWriter.
const DefaultBufferSize = 4096

// Source is a readable byte stream.
//
// Read follows the io.Reader contract and returns io.EOF at end of data.
// Available reports how many bytes can be read right now without blocking.
// It is a hint: a Source that cannot tell returns 0.
type Source interface {
	io.Reader
	io.Closer
	Available() (int, error)
}

// Sink is a writable byte stream.
//
// Flush pushes any bytes the sink stages internally to their destination.
type Sink interface {
	io.Writer
	io.Closer
	Flush() error
}

// Aborter is implemented by sinks that can discard what was written to them
// instead of committing it. An aborted sink is closed.
type Aborter interface {
	Abort() error
}

// Abort discards s when it is an Aborter and closes it otherwise.
func Abort(s Sink) error {
	if a, ok := s.(Aborter); ok {
		return a.Abort()
	}
	return s.Close()
}

var (
	_ Source = (*ArrayReader)(nil)
	_ Source = (*BufferedReader)(nil)
	_ Sink   = (*ArrayWriter)(nil)
	_ Sink   = (*BufferedWriter)(nil)

	_ Aborter = (*BufferedWriter)(nil)
)

// AsSource adapts r to a Source. If r already is a Source it is returned
// unchanged.
//
// Availability is taken from r when it exposes one of
// Available() (int, error), Buffered() int or Len() int (bufio.Reader,
// bytes.Reader and strings.Reader all qualify). Otherwise Available reports 0.
// Close forwards to r when r is an io.Closer and is a no-op otherwise.
func AsSource(r io.Reader) Source {
	if s, ok := r.(Source); ok {
		return s
	}
	return &readerSource{r: r}
}

// AsSink adapts w to a Sink. If w already is a Sink it is returned unchanged.
//
// Flush forwards to w when it has a Flush() error method (bufio.Writer
// qualifies). Close forwards to w when w is an io.Closer.
func AsSink(w io.Writer) Sink {
	if s, ok := w.(Sink); ok {
		return s
	}
	return &writerSink{w: w}
}

type readerSource struct {
	r io.Reader
}

func (s *readerSource) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

func (s *readerSource) Available() (int, error) {
	switch r := s.r.(type) {
	case interface{ Available() (int, error) }:
		return r.Available()
	case interface{ Buffered() int }:
		return r.Buffered(), nil
	case interface{ Len() int }:
		return r.Len(), nil
	}
	return 0, nil
}

func (s *readerSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type writerSink struct {
	w io.Writer
}

func (s *writerSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *writerSink) Flush() error {
	if f, ok := s.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (s *writerSink) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
