package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rustyeddy/terminal/feed"
	"github.com/rustyeddy/terminal/market"
)

// wsMessage is one push-channel frame.
type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const clientBuffer = 64

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan wsMessage
}

// Hub fans feed events out to connected websocket clients. A client
// whose send buffer is full is dropped; the hub never blocks on a
// slow reader.
type Hub struct {
	paperMode bool
	log       *zap.Logger
	upgrader  websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*wsClient
}

func NewHub(paperMode bool, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		paperMode: paperMode,
		log:       log,
		upgrader: websocket.Upgrader{
			// The terminal serves one trusted UI.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[string]*wsClient),
	}
}

// Serve upgrades the request and pumps broadcasts to the client until
// it disconnects. The first frame is always the connection status.
func (h *Hub) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade", zap.Error(err))
		return
	}

	client := &wsClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan wsMessage, clientBuffer),
	}
	client.send <- wsMessage{
		Type: "connection_status",
		Data: feed.ConnectionStatus{Connected: true, PaperMode: h.paperMode},
	}

	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()
	h.log.Info("ws client connected", zap.String("id", client.id))

	go h.writeLoop(client)
	h.readLoop(client)
}

// writeLoop drains the client's send channel onto the socket.
func (h *Hub) writeLoop(c *wsClient) {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			h.drop(c.id, "write failed")
			return
		}
	}
}

// readLoop discards inbound frames and detects disconnects.
func (h *Hub) readLoop(c *wsClient) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c.id, "closed")
			return
		}
	}
}

// drop removes a client and releases its socket. Safe to call twice.
func (h *Hub) drop(id, reason string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	close(c.send)
	c.conn.Close()
	h.log.Info("ws client dropped", zap.String("id", id), zap.String("reason", reason))
}

// Broadcast queues a message for every client, dropping any client
// that cannot keep up.
func (h *Hub) Broadcast(msgType string, data any) {
	msg := wsMessage{Type: msgType, Data: data}

	h.mu.Lock()
	var slow []string
	for id, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.Unlock()

	for _, id := range slow {
		h.drop(id, "slow consumer")
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// --- feed.Sink ---

func (h *Hub) OnPrice(q market.Quote) { h.Broadcast("price_update", q) }

func (h *Hub) OnDepth(d market.Depth) { h.Broadcast("depth_update", d) }

func (h *Hub) OnOrder(o feed.OrderUpdate) { h.Broadcast("order_update", o) }

func (h *Hub) OnConnection(st feed.ConnectionStatus) {
	h.Broadcast("connection_status", st)
}
