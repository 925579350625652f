// Package stream provides the buffered and in-memory byte stream layer used
// by the storage, blob and websocket packages.
//
// The package offers four stream types plus the two capabilities they are
// built on:
//
//   - Source: a byte source that can read into a caller slice and report how
//     many bytes are available without blocking.
//
//   - Sink: a byte sink that accepts writes and can flush internal staging.
//
//   - ArrayReader: a fixed window over a caller-supplied slice. Reads never
//     copy the backing array and never fail.
//
//   - ArrayWriter: an unbounded in-memory sink with amortized O(1) append.
//
//   - BufferedReader: a read-ahead buffer in front of a Source. Small reads
//     are served from the buffer; large reads go straight to the source.
//
//   - BufferedWriter: a write-behind buffer in front of a Sink. Small writes
//     are staged; writes that do not fit are forwarded directly.
//
// End of data is reported with io.EOF, which is distinct from a zero-length
// request (which returns 0 and a nil error) and from transport failures of
// the wrapped source or sink (which are returned unchanged).
//
// None of the types are safe for concurrent use. Every operation either
// completes from memory or makes one blocking call on the wrapped value.
//
// Example usage:
//
//	src := stream.AsSource(file)
//	r := stream.NewBufferedReaderSize(src, 8192)
//	defer r.Close()
//
//	c, err := r.ReadByte()
//	n, err := r.Read(buf)
package stream
