package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"temserver/internal/gamelogic"
	"temserver/internal/room"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TTSSubmitter accepts a synthesis request for the TTS Fan-out (§4.5); the
// concrete worker pool lives in internal/tts and is injected so this
// package doesn't need to know about HTTP synthesis clients.
type TTSSubmitter interface {
	Submit(roomID, text, messageID string, sentenceIndex, totalSentences int)
}

// Callbacks lets the process wiring (cmd/server) react to room-lifecycle
// events the Gateway observes but doesn't own: spawning an AI Agent when a
// room goes single-player, and launching the Simulation Loop on the
// phase1->phase2 transition.
type Callbacks struct {
	OnNeedsAI     func(roomID string, aiRole room.Role, aiName string)
	OnPhase2Start func(roomID string)
}

// Client is one websocket connection's bidirectional duplex channel. It
// generalizes the teacher's unidirectional client[T] into a full
// request/response participant: it reads inbound frames and dispatches them
// to Game Logic, and it drains an outbound queue fed by the Hub's
// broadcasts. The serialized websock wrapper, ping/pong liveness check, and
// errgroup-based run loop are carried over from that type directly.
type Client struct {
	handle string
	ws     *websock
	hub    *Hub
	gl     *gamelogic.GameLogic
	tts    TTSSubmitter
	cb     Callbacks

	send chan Envelope

	roomID   string
	username string
	role     room.Role
}

// Upgrade promotes an HTTP request to a websocket connection and returns a
// not-yet-joined Client ready for Run.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub, gl *gamelogic.GameLogic, tts TTSSubmitter, cb Callbacks) (*Client, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		handle: uuid.NewString(),
		ws:     newWebSocket(conn),
		hub:    hub,
		gl:     gl,
		tts:    tts,
		cb:     cb,
		send:   make(chan Envelope, 64),
	}, nil
}

// Run drives the connection until it closes or the context is cancelled,
// running the read loop, the ping/pong liveness check, and the write pump
// concurrently via errgroup, exactly the teacher's Sync() shape.
func (c *Client) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error { return c.readLoop(groupCtx) })
	group.Go(func() error { return c.pingPong(groupCtx) })
	group.Go(func() error { return c.writePump(groupCtx) })

	err := group.Wait()
	c.disconnect()
	c.ws.Close()
	return err
}

func (c *Client) disconnect() {
	if c.roomID != "" {
		c.hub.remove(c.roomID, c.handle)
		c.gl.Leave(c.roomID, c.handle)
	}
}

func (c *Client) enqueue(msgType, roomID string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("type", msgType).Msg("gateway: marshal outbound payload failed")
		return
	}
	select {
	case c.send <- Envelope{Type: msgType, Room: roomID, Payload: raw}:
	default:
		log.Warn().Str("handle", c.handle).Str("type", msgType).Msg("gateway: send buffer full, dropping message")
	}
}

func (c *Client) writePump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case env, ok := <-c.send:
			if !ok {
				return nil
			}
			err := c.ws.Write(ctx, func(ws *websocket.Conn) error {
				if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return err
				}
				if err := ws.WriteJSON(env); err != nil && isError(err) {
					return fmt.Errorf("write failed: %w", err)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
	}
}

func (c *Client) pingPong(ctx context.Context) error {
	pong := make(chan struct{})
	defer close(pong)
	c.ws.Conn().SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		case <-ctx.Done():
		}
		return nil
	})

	ticker := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}
			if err := c.ws.Write(ctx, func(ws *websocket.Conn) error {
				return ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			}); err != nil {
				return err
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func (c *Client) readLoop(ctx context.Context) error {
	for {
		var env Envelope
		err := c.ws.Read(ctx, func(ws *websocket.Conn) error {
			return ws.ReadJSON(&env)
		})
		if err != nil {
			if isClosure(err) || errors.Is(err, websocket.ErrCloseSent) {
				return nil
			}
			return err
		}
		c.dispatch(env)
	}
}

func (c *Client) actor() room.Actor {
	return room.Actor{Name: c.username, Role: c.role, Handle: c.handle}
}

func (c *Client) sendError(roomID, msg string) {
	c.enqueue("error_msg", roomID, map[string]any{"msg": msg})
}
