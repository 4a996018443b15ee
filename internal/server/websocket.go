package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/uistudio/internal/preview"
	"github.com/conneroisu/uistudio/internal/studio"
	"github.com/conneroisu/uistudio/internal/validation"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 64 << 10

	// Buffered outgoing events per client. A client that falls this far
	// behind is disconnected.
	sendBuffer = 256
)

// Client is one websocket connection bound to a session.
type Client struct {
	conn        *websocket.Conn
	send        chan []byte
	session     *studio.Session
	server      *Server
	unsubscribe func()
	closeOnce   sync.Once
	done        chan struct{}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request, sess *studio.Session) {
	origin := r.Header.Get("Origin")
	if err := validation.ValidateOrigin(origin, s.config.Server.AllowedOrigins); err != nil {
		s.logger.Warn(r.Context(), err, "websocket origin rejected", "origin", origin)
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}
	originURL, _ := url.Parse(origin)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{originURL.Host},
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	client := &Client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		session: sess,
		server:  s,
		done:    make(chan struct{}),
	}
	client.unsubscribe = sess.Watch(client.enqueue)

	s.clientsMutex.Lock()
	s.clients[client] = struct{}{}
	count := len(s.clients)
	s.clientsMutex.Unlock()
	s.logger.Info(r.Context(), "websocket client connected", "session", sess.ID(), "clients", count)

	go client.writePump()
	client.readPump()
}

// enqueue queues ev without blocking. Session observers must not block, so
// a full buffer closes the client instead.
func (c *Client) enqueue(ev studio.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		c.server.logger.Error(context.Background(), err, "failed to encode session event", "type", ev.Type)
		return
	}
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.server.logger.Warn(context.Background(), nil, "websocket client too slow, disconnecting", "session", c.session.ID())
		go c.close()
	}
}

// readPump delivers preview messages from the peer to the session until
// the connection closes.
func (c *Client) readPump() {
	defer c.close()

	ctx := context.Background()
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && status != -1 {
				c.server.logger.Warn(ctx, err, "websocket read failed", "session", c.session.ID())
			}
			return
		}

		msg, err := preview.DecodeMessage(data)
		if err != nil {
			c.session.Report(preview.SeverityError, err.Error())
			continue
		}
		c.session.Publish(msg)
	}
}

// writePump writes queued events and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	ctx := context.Background()
	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.server.logger.Debug(ctx, "websocket write failed", "session", c.session.ID(), "error", err.Error())
				c.close()
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				c.close()
				return
			}
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		c.conn.Close(websocket.StatusNormalClosure, "")

		c.server.clientsMutex.Lock()
		delete(c.server.clients, c)
		c.server.clientsMutex.Unlock()
	})
}
