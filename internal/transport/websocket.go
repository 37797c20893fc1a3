// Package transport provides the WebSocket connection to the SmartLink
// module's display stream.
package transport

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/finack/acc-smartlink/internal/session"
)

const (
	dialTimeout = 10 * time.Second
	maxMsgSize  = 1 << 12 // 4 KB; dsp payloads are tiny
)

// WebSocket is a single-use session.Transport over gorilla/websocket. One
// read pump feeds the event channel, so delivery order matches arrival
// order. Reconnect policy lives with the scheduler: a transport that drops
// is not redialed, the next session gets a fresh one.
type WebSocket struct {
	url    string
	dialer *websocket.Dialer

	events chan session.Event
	done   chan struct{}

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

var _ session.Transport = (*WebSocket)(nil)

// NewWebSocket returns an unconnected transport for the module URL,
// e.g. "ws://spa.local:1234/".
func NewWebSocket(url string) *WebSocket {
	return &WebSocket{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: dialTimeout,
		},
		events: make(chan session.Event, 16),
		done:   make(chan struct{}),
	}
}

// Connect dials the module and starts the read pump. The opened event is
// queued as soon as the handshake completes.
func (w *WebSocket) Connect(ctx context.Context) error {
	if w.isClosed() {
		return errors.New("transport: already closed")
	}
	conn, _, err := w.dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return err
	}
	conn.SetReadLimit(maxMsgSize)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		_ = conn.Close()
		return errors.New("transport: already closed")
	}
	w.conn = conn
	w.mu.Unlock()

	w.send(session.Event{Kind: session.EventOpened})
	go w.readPump(conn)
	return nil
}

// Events returns the notification channel. It is closed once the read pump
// exits.
func (w *WebSocket) Events() <-chan session.Event {
	return w.events
}

// Close tears down the connection. Safe to call more than once and before
// Connect.
func (w *WebSocket) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	if w.conn == nil {
		return nil
	}
	return w.conn.Close()
}

// readPump forwards inbound messages as frame events until the connection
// ends, then reports how it ended and closes the event channel.
func (w *WebSocket) readPump(conn *websocket.Conn) {
	defer close(w.events)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			switch {
			case errors.As(err, &closeErr):
				w.send(session.Event{
					Kind:   session.EventClosed,
					Code:   closeErr.Code,
					Reason: closeErr.Text,
				})
			case w.isClosed():
				// Local Close during session finalize; not an error.
				w.send(session.Event{Kind: session.EventClosed})
			default:
				w.send(session.Event{Kind: session.EventError, Err: err})
			}
			return
		}
		if !w.send(session.Event{Kind: session.EventFrame, Payload: payload}) {
			return
		}
	}
}

// send queues an event unless the transport was closed; the session stops
// draining events once it finalizes, so sends must never block past Close.
func (w *WebSocket) send(ev session.Event) bool {
	select {
	case w.events <- ev:
		return true
	case <-w.done:
		return false
	}
}

func (w *WebSocket) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
