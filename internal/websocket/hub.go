package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pejman93/echopulse/internal/metrics"
)

const (
	defaultMaxConnections = 1000
	clientSendBuffer      = 16
	writeDeadline         = 5 * time.Second
)

// FeedEvent is one message pushed to every feed client.
type FeedEvent struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	conn  *websocket.Conn
	errCh chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	conn *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdBroadcast struct {
	data []byte
}

func (cmdBroadcast) hubCmd() {}

type cmdClientCount struct {
	replyCh chan int
}

func (cmdClientCount) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// --- Per-connection writer ---

type clientWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, clientSendBuffer),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	for {
		select {
		case msg, ok := <-cw.sendCh:
			if !ok {
				return
			}
			cw.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	close(cw.done)
	cw.conn.Close()
}

// --- Hub ---

// Hub owns the global feed client set. All state is confined to the run
// goroutine.
type Hub struct {
	cmdCh   chan hubCmd
	clients map[*websocket.Conn]*clientWriter
	maxConn int
}

// NewHub starts the hub goroutine. maxConnections <= 0 selects the default.
func NewHub(maxConnections int) *Hub {
	if maxConnections <= 0 {
		maxConnections = defaultMaxConnections
	}
	hub := &Hub{
		cmdCh:   make(chan hubCmd, 256),
		clients: make(map[*websocket.Conn]*clientWriter),
		maxConn: maxConnections,
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			h.handleRegister(c)
		case cmdUnregister:
			h.handleUnregister(c.conn)
		case cmdBroadcast:
			h.handleBroadcast(c.data)
		case cmdClientCount:
			c.replyCh <- len(h.clients)
		case cmdStop:
			h.handleStop()
			return
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) {
	if len(h.clients) >= h.maxConn {
		slog.Warn("Rejecting feed client: max connections reached", "max", h.maxConn)
		metrics.FeedConnectionsTotal.WithLabelValues("rejected").Inc()
		c.conn.Close()
		c.errCh <- fmt.Errorf("max feed connections (%d) reached", h.maxConn)
		return
	}

	h.clients[c.conn] = newClientWriter(c.conn)
	metrics.FeedConnectionsTotal.WithLabelValues("success").Inc()
	metrics.FeedConnectedClients.Set(float64(len(h.clients)))
	slog.Debug("Feed client registered", "total_clients", len(h.clients))
	c.errCh <- nil
}

func (h *Hub) handleUnregister(conn *websocket.Conn) {
	cw, exists := h.clients[conn]
	if !exists {
		return
	}

	cw.stop()
	delete(h.clients, conn)
	metrics.FeedConnectedClients.Set(float64(len(h.clients)))
	slog.Debug("Feed client unregistered", "remaining_clients", len(h.clients))
}

func (h *Hub) handleBroadcast(data []byte) {
	var slow []*websocket.Conn
	for conn, cw := range h.clients {
		select {
		case cw.sendCh <- data:
			// sent successfully
		default:
			// client is slow, mark for removal
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		slog.Warn("Disconnecting slow feed client")
		metrics.FeedSlowClientsEvicted.Inc()
		h.handleUnregister(conn)
	}

	metrics.FeedBroadcastsTotal.Inc()
}

func (h *Hub) handleStop() {
	for conn, cw := range h.clients {
		cw.stop()
		delete(h.clients, conn)
	}
	metrics.FeedConnectedClients.Set(0)
}

// --- Public API ---

// Register adds a connection to the feed. On error the connection is already
// closed.
func (h *Hub) Register(conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- cmdRegister{conn: conn, errCh: errCh}
	return <-errCh
}

// Unregister removes a connection and stops its writer.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.cmdCh <- cmdUnregister{conn: conn}
}

// Broadcast fans an event out to every connected client. Slow clients are
// evicted, never waited on.
func (h *Hub) Broadcast(event FeedEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal feed event", "error", err)
		return
	}
	h.cmdCh <- cmdBroadcast{data: data}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdClientCount{replyCh: replyCh}
	return <-replyCh
}

// Stop disconnects all clients and terminates the hub goroutine.
func (h *Hub) Stop() {
	h.cmdCh <- cmdStop{}
}
