package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/seenimoa/stocksentiment/internal/logging"
	"github.com/seenimoa/stocksentiment/pkg/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS already gates the HTTP API
	},
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 256
)

// WSMessage is a message exchanged over the WebSocket.
type WSMessage struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// ticker returns the message's ticker, if any.
func (m WSMessage) ticker() string {
	t, _ := m.Data["ticker"].(string)
	return t
}

// WSClient is one connected WebSocket peer. A client with a non-empty
// subscription set only receives messages for those tickers.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage

	mu      sync.RWMutex
	tickers map[string]bool
	closed  bool
}

// trySend queues msg without blocking. It reports false when the queue
// is full or the client is closed.
func (c *WSClient) trySend(msg WSMessage) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *WSClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func newWSClient(hub *WSHub) *WSClient {
	return &WSClient{
		hub:     hub,
		send:    make(chan WSMessage, sendBuffer),
		tickers: make(map[string]bool),
	}
}

func (c *WSClient) subscribe(tickers []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tickers {
		if t = utils.NormalizeTicker(t); utils.ValidTicker(t) {
			c.tickers[t] = true
		}
	}
	out := make([]string, 0, len(c.tickers))
	for t := range c.tickers {
		out = append(out, t)
	}
	return out
}

func (c *WSClient) wants(msg WSMessage) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.tickers) == 0 {
		return true
	}
	t := msg.ticker()
	return t == "" || c.tickers[t]
}

// WSHub fans messages out to connected clients.
type WSHub struct {
	register   chan *WSClient
	unregister chan *WSClient
	broadcast  chan WSMessage
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*WSClient]bool
}

// NewWSHub creates a hub. Call Run to start it.
func NewWSHub() *WSHub {
	return &WSHub{
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		broadcast:  make(chan WSMessage, sendBuffer),
		done:       make(chan struct{}),
		clients:    make(map[*WSClient]bool),
	}
}

// Run processes registrations and broadcasts until ctx is canceled.
func (h *WSHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				c.close()
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				c.close()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				if c.wants(msg) {
					// Slow readers miss messages rather than block the hub.
					c.trySend(msg)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub. A stopped hub closes the client's
// send channel instead.
func (h *WSHub) Register(c *WSClient) {
	select {
	case h.register <- c:
	case <-h.done:
		c.close()
	}
}

// Unregister removes a client and closes its send channel.
func (h *WSHub) Unregister(c *WSClient) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues msg for all interested clients. It never blocks; when
// the queue is full the message is dropped.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// wsReporter streams analysis progress for one request to the hub.
type wsReporter struct {
	hub       *WSHub
	requestID string
	ticker    string
}

func newWSReporter(hub *WSHub, requestID, ticker string) *wsReporter {
	return &wsReporter{hub: hub, requestID: requestID, ticker: ticker}
}

func (r *wsReporter) data() map[string]interface{} {
	return map[string]interface{}{
		"request_id": r.requestID,
		"ticker":     r.ticker,
	}
}

func (r *wsReporter) Status(msg string) {
	d := r.data()
	d["message"] = msg
	r.hub.Broadcast(WSMessage{Type: "progress", Data: d})
}

func (r *wsReporter) Progress(fraction float64) {
	d := r.data()
	d["fraction"] = fraction
	r.hub.Broadcast(WSMessage{Type: "progress", Data: d})
}

func (r *wsReporter) Warn(msg string) {
	d := r.data()
	d["message"] = msg
	r.hub.Broadcast(WSMessage{Type: "warning", Data: d})
}

// handleWebSocket upgrades the connection and streams analysis progress.
// Clients may send {"type":"subscribe","data":{"tickers":["AAPL"]}} to
// filter messages, and {"type":"ping"} to get a pong.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", logging.Error(err))
		return
	}

	client := newWSClient(s.wsHub)
	s.wsHub.Register(client)

	go s.wsWritePump(conn, client)
	go s.wsReadPump(conn, client)
}

// wsReadPump handles client messages until the connection closes.
func (s *Server) wsReadPump(conn *websocket.Conn, client *WSClient) {
	defer func() {
		client.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("WebSocket read error", logging.Error(err))
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		var reply WSMessage
		switch strings.ToLower(msg.Type) {
		case "subscribe":
			reply = WSMessage{
				Type: "subscribed",
				Data: map[string]interface{}{"tickers": client.subscribe(tickerList(msg.Data["tickers"]))},
			}
		case "ping":
			reply = WSMessage{Type: "pong"}
		default:
			continue
		}

		client.trySend(reply)
	}
}

// wsWritePump writes queued messages and keepalive pings to the peer.
func (s *Server) wsWritePump(conn *websocket.Conn, client *WSClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func tickerList(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, x := range raw {
		if s, ok := x.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
