// Package wsstream carries a byte stream over a WebSocket connection.
//
// Each Write is sent as one binary message. Reads concatenate the payloads
// of incoming messages, so message boundaries are not preserved. A normal
// close frame from the peer ends the stream with io.EOF.
package wsstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/haivivi/streamio/pkg/stream"
)

// closeTimeout bounds how long Close waits to send the close frame.
const closeTimeout = 5 * time.Second

// abortReason is the close text Abort sends.
const abortReason = "stream aborted"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Conn is a stream.Source and stream.Sink over a WebSocket connection.
//
// Read and Write may be used from different goroutines. Concurrent Reads
// are not supported.
type Conn struct {
	ws  *websocket.Conn
	cur *stream.ArrayReader
	eof bool

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

var (
	_ stream.Source  = (*Conn)(nil)
	_ stream.Sink    = (*Conn)(nil)
	_ stream.Aborter = (*Conn)(nil)
)

// New wraps an established WebSocket connection.
func New(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// Dial connects to a ws:// or wss:// URL.
func Dial(ctx context.Context, url string, header http.Header) (*Conn, error) {
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return New(ws), nil
}

// Upgrade upgrades an HTTP request to a WebSocket connection. On failure
// the upgrader has already replied to the client.
func Upgrade(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return New(ws), nil
}

// Read reads payload bytes, receiving the next message when the current one
// is used up. Empty messages are skipped.
func (c *Conn) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for c.cur == nil || c.cur.Len() == 0 {
		if c.eof {
			return 0, io.EOF
		}
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.eof = true
				return 0, io.EOF
			}
			return 0, err
		}
		c.cur = stream.NewArrayReader(data)
	}
	return c.cur.Read(p)
}

// Available reports the unread bytes of the message already received.
func (c *Conn) Available() (int, error) {
	if c.cur == nil {
		return 0, nil
	}
	return c.cur.Len(), nil
}

// Write sends p as one binary message.
func (c *Conn) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return 0, os.ErrClosed
		}
		return 0, err
	}
	return len(p), nil
}

// Flush does nothing: every Write is sent immediately.
func (c *Conn) Flush() error {
	return nil
}

// Close sends a normal close frame and closes the connection. Only the first
// call has an effect.
func (c *Conn) Close() error {
	return c.closeWith(websocket.CloseNormalClosure, "")
}

// CloseWithError closes the connection with an internal-error close frame
// carrying msg. The peer's Read returns a non-EOF error.
func (c *Conn) CloseWithError(msg string) error {
	return c.closeWith(websocket.CloseInternalServerErr, msg)
}

// Abort closes the connection with an error frame, so the peer does not
// take the bytes sent so far for a complete stream.
func (c *Conn) Abort() error {
	return c.CloseWithError(abortReason)
}

func (c *Conn) closeWith(code int, text string) error {
	c.closeOnce.Do(func() {
		frame := websocket.FormatCloseMessage(code, text)
		c.writeMu.Lock()
		err := c.ws.WriteControl(websocket.CloseMessage, frame, time.Now().Add(closeTimeout))
		c.writeMu.Unlock()
		if errors.Is(err, websocket.ErrCloseSent) {
			err = nil
		}
		c.closeErr = errors.Join(err, c.ws.Close())
	})
	return c.closeErr
}
