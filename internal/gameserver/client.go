package gameserver

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/db"
	"github.com/veydras/realmd/internal/instance"
	"github.com/veydras/realmd/internal/model"
	"github.com/veydras/realmd/internal/protocol"
)

// WebSocket timing knobs.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendQueueSize  = 256
)

// Client is one WebSocket connection and its session state.
type Client struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}

	mu          sync.Mutex
	account     *db.Account
	token       string
	characterID int64
	player      *model.Player
	inst        *instance.Instance
	vaultOpen   bool

	// Input burst limiter: messages closer together than the gap grow the
	// burst; a long enough gap resets it.
	lastMsgAt time.Time
	burst     int

	// Auth attempt limiter.
	authTimes []time.Time

	closeOnce sync.Once
}

func newClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		server: s,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// Account returns the authenticated account, or nil.
func (c *Client) Account() *db.Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.account
}

// Player returns the resident player entity, or nil.
func (c *Client) Player() *model.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player
}

// Instance returns the instance the session's player resides in, or nil.
func (c *Client) Instance() *instance.Instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inst
}

func (c *Client) setResident(p *model.Player, inst *instance.Instance) {
	c.mu.Lock()
	c.player = p
	c.inst = inst
	c.mu.Unlock()
}

// SendMessage encodes and queues one outbound frame. A saturated queue or
// a closed session drops the frame; snapshots are regenerated every 100 ms
// anyway.
func (c *Client) SendMessage(msgType string, data any) {
	raw, err := protocol.Encode(msgType, data)
	if err != nil {
		slog.Error("encoding outbound frame", "type", msgType, "error", err)
		return
	}
	select {
	case <-c.done:
	case c.send <- raw:
	default:
		slog.Warn("send queue full, dropping frame", "type", msgType)
	}
}

// close signals the write pump to exit. The send channel itself stays
// open so late tick-side sends never panic.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		if c.done != nil {
			close(c.done)
		}
	})
}

// readPump consumes inbound frames until the connection dies, then runs
// the disconnect flow.
func (c *Client) readPump() {
	defer func() {
		c.server.handleDisconnect(c)
		if err := c.conn.Close(); err != nil {
			slog.Debug("closing websocket", "error", err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		slog.Warn("setting read deadline", "error", err)
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read", "error", err)
			}
			return
		}

		if c.rateLimited() {
			c.SendMessage(protocol.MsgError, protocol.ErrorEvent{Message: "rate-limited"})
			continue
		}

		var frame *protocol.Frame
		switch msgType {
		case websocket.BinaryMessage:
			frame, err = protocol.DecodeBinary(raw)
		case websocket.TextMessage:
			frame, err = protocol.DecodeJSON(raw)
		default:
			continue
		}
		if err != nil {
			// Protocol violations drop silently; the connection survives.
			slog.Debug("dropping inbound frame", "error", err)
			continue
		}

		c.handle(frame)
	}
}

// rateLimited implements the burst limiter: pairs of messages closer than
// the gap grow a burst counter, a calm message resets it, and a burst past
// the limit trips.
func (c *Client) rateLimited() bool {
	now := time.Now()
	if !c.lastMsgAt.IsZero() && now.Sub(c.lastMsgAt) < constants.InputBurstGap {
		c.burst++
	} else {
		c.burst = 0
	}
	c.lastMsgAt = now
	return c.burst > constants.InputBurstLimit
}

// authAllowed implements the auth attempt limiter (5 per 60 s).
func (c *Client) authAllowed() bool {
	now := time.Now()
	kept := c.authTimes[:0]
	for _, ts := range c.authTimes {
		if now.Sub(ts) < constants.AuthAttemptWindow {
			kept = append(kept, ts)
		}
	}
	c.authTimes = kept
	if len(c.authTimes) >= constants.AuthAttemptLimit {
		return false
	}
	c.authTimes = append(c.authTimes, now)
	return true
}

// writePump flushes the send queue and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		case raw := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
