package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/msalah0e/filemap/internal/session"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Ping period, must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024

	sendBufferSize = 64
)

// client is one websocket connection. Replies to its own messages go
// through send; scene broadcasts come from the session subscription.
type client struct {
	id   string
	conn *websocket.Conn
	sess *session.Session
	send chan session.Frame
	log  *zap.Logger
}

func newClient(conn *websocket.Conn, sess *session.Session, log *zap.Logger) *client {
	id := uuid.New().String()
	return &client{
		id:   id,
		conn: conn,
		sess: sess,
		send: make(chan session.Frame, sendBufferSize),
		log:  log.With(zap.String("client", id)),
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the peer.
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := newClient(conn, s.session, s.log)
	c.log.Info("client connected")
	c.run(r.Context())
	c.log.Info("client disconnected")
}

// run blocks until the peer goes away or ctx is done.
func (c *client) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames, unsubscribe := c.sess.Subscribe(c.id)
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		c.writePump(ctx, frames)
	}()

	c.reply(ctx, session.Message{Type: session.TypeSnapshot})
	c.readPump(ctx)
	cancel()
	<-done
}

func (c *client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Unblock ReadMessage when the server shuts down.
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				c.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		if kind != websocket.TextMessage {
			c.queue(ctx, session.Frame{Type: session.FrameError, Message: "binary frames are not supported"})
			continue
		}
		var msg session.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.queue(ctx, session.ErrorFrame(err))
			continue
		}
		c.reply(ctx, msg)
	}
}

// reply submits msg and queues the frames addressed to this client.
func (c *client) reply(ctx context.Context, msg session.Message) {
	frames, err := c.sess.Submit(ctx, msg)
	if err != nil {
		c.log.Debug("message rejected", zap.String("type", msg.Type), zap.Error(err))
		c.queue(ctx, session.ErrorFrame(err))
		return
	}
	for _, f := range frames {
		c.queue(ctx, f)
	}
}

func (c *client) queue(ctx context.Context, f session.Frame) {
	select {
	case c.send <- f:
	case <-ctx.Done():
	}
}

func (c *client) writePump(ctx context.Context, broadcasts <-chan session.Frame) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case f := <-c.send:
			if !c.write(f) {
				return
			}
		case f, ok := <-broadcasts:
			if !ok {
				return
			}
			if !c.write(f) {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Warn("ping failed", zap.Error(err))
				return
			}
		}
	}
}

func (c *client) write(f session.Frame) bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(f); err != nil {
		c.log.Warn("websocket write failed", zap.Error(err))
		return false
	}
	return true
}
