package stream

// Stats counts calls made on a wrapped source or sink and the bytes they
// moved.
type Stats struct {
	Calls int64 `json:"calls" yaml:"calls"`
	Bytes int64 `json:"bytes" yaml:"bytes"`
}

// CountingSource records every Read issued on the wrapped Source.
type CountingSource struct {
	src   Source
	stats Stats
}

// Counted wraps src so that Read calls and bytes are counted.
func Counted(src Source) *CountingSource {
	return &CountingSource{src: src}
}

func (c *CountingSource) Read(p []byte) (int, error) {
	n, err := c.src.Read(p)
	c.stats.Calls++
	if n > 0 {
		c.stats.Bytes += int64(n)
	}
	return n, err
}

func (c *CountingSource) Available() (int, error) { return c.src.Available() }
func (c *CountingSource) Close() error            { return c.src.Close() }

// Stats returns a snapshot of the counters.
func (c *CountingSource) Stats() Stats { return c.stats }

// CountingSink records every Write issued on the wrapped Sink.
type CountingSink struct {
	dst   Sink
	stats Stats
}

// CountedSink wraps dst so that Write calls and bytes are counted.
func CountedSink(dst Sink) *CountingSink {
	return &CountingSink{dst: dst}
}

func (c *CountingSink) Write(p []byte) (int, error) {
	n, err := c.dst.Write(p)
	c.stats.Calls++
	if n > 0 {
		c.stats.Bytes += int64(n)
	}
	return n, err
}

func (c *CountingSink) Flush() error { return c.dst.Flush() }
func (c *CountingSink) Close() error { return c.dst.Close() }

// Stats returns a snapshot of the counters.
func (c *CountingSink) Stats() Stats { return c.stats }
