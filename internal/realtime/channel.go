package realtime

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// State is the lifecycle position of a channel.
type State int32

// Channel lifecycle: Connecting -> Authenticated -> Active -> Closed.
const (
	StateConnecting State = iota
	StateAuthenticated
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ChannelOptions tunes the WebSocket transport.
type ChannelOptions struct {
	SendBuffer      int
	WriteWait       time.Duration
	PongWait        time.Duration
	MaxMessageBytes int64
}

func (o ChannelOptions) withDefaults() ChannelOptions {
	if o.SendBuffer <= 0 {
		o.SendBuffer = 256
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.MaxMessageBytes <= 0 {
		o.MaxMessageBytes = 64 * 1024
	}
	return o
}

// pingPeriod must be shorter than PongWait.
func (o ChannelOptions) pingPeriod() time.Duration {
	return o.PongWait * 9 / 10
}

// wsChannel is a Channel over a gorilla/websocket connection. Frames are
// queued by Send and written by a single writePump goroutine; readPump
// delivers inbound frames one at a time.
type wsChannel struct {
	id     string
	userID uuid.UUID
	conn   *websocket.Conn
	opts   ChannelOptions
	logger *slog.Logger

	state     atomic.Int32
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

var _ Channel = (*wsChannel)(nil)

func newWSChannel(conn *websocket.Conn, userID uuid.UUID, opts ChannelOptions, logger *slog.Logger) *wsChannel {
	opts = opts.withDefaults()
	id := uuid.New().String()
	return &wsChannel{
		id:     id,
		userID: userID,
		conn:   conn,
		opts:   opts,
		logger: logger.With(slog.String("channel_id", id), slog.String("user_id", userID.String())),
		send:   make(chan []byte, opts.SendBuffer),
		done:   make(chan struct{}),
	}
}

func (c *wsChannel) ID() string        { return c.id }
func (c *wsChannel) UserID() uuid.UUID { return c.userID }

// State returns the current lifecycle state.
func (c *wsChannel) State() State { return State(c.state.Load()) }

// advance moves the channel forward; a closed channel never reopens.
func (c *wsChannel) advance(to State) bool {
	for {
		cur := c.state.Load()
		if State(cur) == StateClosed || State(cur) >= to {
			return false
		}
		if c.state.CompareAndSwap(cur, int32(to)) {
			return true
		}
	}
}

func (c *wsChannel) Send(event string, data any) error {
	if c.State() == StateClosed {
		return ErrChannelClosed
	}
	frame, err := encodeFrame(event, data)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrChannelClosed
	default:
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close stops the writer, which sends a close frame and closes the connection.
func (c *wsChannel) Close() error {
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosed))
		close(c.done)
	})
	return nil
}

// writePump drains the send queue and keeps the connection alive with pings.
func (c *wsChannel) writePump() {
	ticker := time.NewTicker(c.opts.pingPeriod())
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("write failed", slog.String("error", err.Error()))
				_ = c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("ping failed", slog.String("error", err.Error()))
				_ = c.Close()
				return
			}
		case <-c.done:
			c.flush()
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.opts.WriteWait))
			return
		}
	}
}

// flush writes whatever is still queued when the channel closes.
func (c *wsChannel) flush() {
	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		default:
			return
		}
	}
}

// readPump reads frames until the connection fails and hands each one to
// handle before reading the next.
func (c *wsChannel) readPump(handle func(frame []byte)) {
	c.conn.SetReadLimit(c.opts.MaxMessageBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	for {
		msgType, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				c.logger.Debug("connection closed unexpectedly", slog.String("error", err.Error()))
			}
			return
		}
		if c.State() != StateActive {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		handle(frame)
	}
}
