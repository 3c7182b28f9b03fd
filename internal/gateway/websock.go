// Package gateway is the Realtime Gateway (§4.6): the bidirectional
// per-client duplex channel, the wire message envelope (§6), and room-scoped
// broadcast. It owns no domain logic — every inbound frame is dispatched to
// Game Logic, and every outbound broadcast originates there or in the
// Simulation Loop.
//
// The per-connection read/write-serialization wrapper below is carried over
// nearly verbatim from the teacher's server/fastview/client.go websock
// type: a websocket connection only tolerates one concurrent reader and one
// concurrent writer, and channel-based semaphores (rather than a
// sync.Mutex) make that explicit and composable with select/ctx.Done().
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait        = 1 * time.Second
	maxMessageSize    = 16384
	pingResolution   = 2 * time.Second
	pongWait         = pingResolution * 4
	readDeadline     = time.Second
	writeDeadline    = time.Second
	closeGracePeriod = 2 * time.Second
)

// ErrSockCongestion indicates there are too many waiters on the socket for
// a given op.
var ErrSockCongestion = errors.New("sock op failed due to congestion")

// ErrPongDeadlineExceeded signals the client hasn't answered pings in time.
var ErrPongDeadlineExceeded = errors.New("client disconnect, pong deadline exceeded")

func isError(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

// websock serializes reads and writes to the underlying connection, whose
// requirement is that there be only one concurrent reader and writer.
type websock struct {
	readSem  chan struct{}
	writeSem chan struct{}
	ws       *websocket.Conn
}

func newWebSocket(ws *websocket.Conn) *websock {
	ws.SetReadLimit(maxMessageSize)
	return &websock{
		readSem:  make(chan struct{}, 1),
		writeSem: make(chan struct{}, 1),
		ws:       ws,
	}
}

func (sock *websock) Conn() *websocket.Conn {
	return sock.ws
}

func (sock *websock) Close() {
	sock.readSem <- struct{}{}
	sock.writeSem <- struct{}{}
	_ = sock.ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = sock.ws.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGracePeriod)
	sock.ws.Close()
}

func (sock *websock) Read(ctx context.Context, readFn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.readSem <- struct{}{}:
		defer func() { <-sock.readSem }()
		return readFn(sock.ws)
	case <-time.After(readDeadline):
		return ErrSockCongestion
	}
}

func (sock *websock) Write(ctx context.Context, writeFn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.writeSem <- struct{}{}:
		defer func() { <-sock.writeSem }()
		return writeFn(sock.ws)
	case <-time.After(writeDeadline):
		return ErrSockCongestion
	}
}
