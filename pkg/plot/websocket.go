package plot

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raykavin/tutor/pkg/chart"
	"github.com/raykavin/tutor/pkg/logger"
)

const (
	messageInitialData = "initialData"
	messageChartUpdate = "chartUpdate"

	writeWait = 10 * time.Second
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// wsClient serializes writes to one connection
type wsClient struct {
	sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) writeJSON(msg WebSocketMessage) error {
	c.Lock()
	defer c.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

// WebSocketManager pushes chart redraws to connected browsers.
// It implements chart.Renderer.
type WebSocketManager struct {
	sync.RWMutex
	clients       map[*websocket.Conn]*wsClient
	upgrader      websocket.Upgrader
	broadcastChan chan WebSocketMessage
	done          chan struct{}
	closeOnce     sync.Once
	log           logger.Logger
	snapshots     func() []chart.Snapshot
	lastUpdate    time.Time
}

// NewWebSocketManager creates a new WebSocket manager
func NewWebSocketManager(log logger.Logger) *WebSocketManager {
	manager := &WebSocketManager{
		clients: make(map[*websocket.Conn]*wsClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		broadcastChan: make(chan WebSocketMessage, 100),
		done:          make(chan struct{}),
		log:           log,
		snapshots:     func() []chart.Snapshot { return nil },
	}

	go manager.handleBroadcasts()

	return manager
}

// SetSnapshotSource sets where new clients get their initial chart data from
func (m *WebSocketManager) SetSnapshotSource(source func() []chart.Snapshot) {
	m.Lock()
	defer m.Unlock()
	m.snapshots = source
}

// Redraw implements chart.Renderer by broadcasting the chart snapshot
func (m *WebSocketManager) Redraw(c *chart.Chart) {
	m.Lock()
	m.lastUpdate = time.Now()
	m.Unlock()

	msg := WebSocketMessage{Type: messageChartUpdate, Payload: c.Snapshot()}

	select {
	case m.broadcastChan <- msg:
	case <-m.done:
	}
}

// LastUpdate returns when a chart was last redrawn
func (m *WebSocketManager) LastUpdate() time.Time {
	m.RLock()
	defer m.RUnlock()
	return m.lastUpdate
}

// ClientCount returns the number of connected clients
func (m *WebSocketManager) ClientCount() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.clients)
}

// Close stops broadcasting and disconnects every client
func (m *WebSocketManager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)

		m.Lock()
		for conn := range m.clients {
			conn.Close()
		}
		m.Unlock()
	})
}

// handleBroadcasts processes messages from the broadcast channel
func (m *WebSocketManager) handleBroadcasts() {
	for {
		select {
		case <-m.done:
			return
		case msg := <-m.broadcastChan:
			m.RLock()
			clients := make([]*wsClient, 0, len(m.clients))
			for _, client := range m.clients {
				clients = append(clients, client)
			}
			m.RUnlock()

			for _, client := range clients {
				if err := client.writeJSON(msg); err != nil {
					m.log.Error("Error sending WebSocket message: ", err)
					// the read loop notices the closed connection and unregisters it
					client.conn.Close()
				}
			}
		}
	}
}

// HandleWebSocket handles WebSocket connections
func (m *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Error("Failed to upgrade connection to WebSocket: ", err)
		return
	}

	client := &wsClient{conn: conn}

	m.Lock()
	m.clients[conn] = client
	clientCount := len(m.clients)
	snapshots := m.snapshots
	m.Unlock()

	m.log.Info("New WebSocket client connected, total: ", clientCount)

	if err := client.writeJSON(WebSocketMessage{Type: messageInitialData, Payload: snapshots()}); err != nil {
		m.log.Error("Error sending initial data: ", err)
	}

	go m.handleClient(client)
}

// handleClient reads until the client goes away, then unregisters it
func (m *WebSocketManager) handleClient(client *wsClient) {
	conn := client.conn
	defer func() {
		m.Lock()
		delete(m.clients, conn)
		remaining := len(m.clients)
		m.Unlock()

		m.log.Info("WebSocket client disconnected, remaining: ", remaining)
		conn.Close()
	}()

	conn.SetPingHandler(func(appData string) error {
		client.Lock()
		defer client.Unlock()
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.log.Error("WebSocket read error: ", err)
			}
			return
		}
	}
}
