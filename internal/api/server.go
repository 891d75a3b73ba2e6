package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Rishabhjain2003/CollaborativeCanvas/internal/models"
	roomsync "github.com/Rishabhjain2003/CollaborativeCanvas/internal/sync"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Server owns the websocket side of the protocol: one Client per
// connection, each with a buffered send channel drained by its own write
// pump. It implements sync.Transport for the coordinator.
type Server struct {
	coordinator *roomsync.Coordinator
	clients     map[string]*Client
	clientsMux  sync.RWMutex
}

// NewServer creates an API server. SetCoordinator must be called before any
// connection is accepted.
func NewServer() *Server {
	return &Server{
		clients: make(map[string]*Client),
	}
}

// SetCoordinator attaches the coordinator the server feeds events into.
func (s *Server) SetCoordinator(c *roomsync.Coordinator) {
	s.coordinator = c
}

// Send implements sync.Transport. A client whose send buffer is full is
// disconnected rather than allowed to stall the event loop.
func (s *Server) Send(sessionID string, msg models.Message) {
	s.clientsMux.RLock()
	client, ok := s.clients[sessionID]
	s.clientsMux.RUnlock()
	if !ok {
		return
	}
	select {
	case client.send <- msg:
	default:
		log.Printf("Send buffer full for session %s, dropping connection", sessionID)
		client.conn.Close()
	}
}

// HandleWebSocket upgrades the connection and registers a new session. A
// user_id query parameter binds the session to an existing identity, so a
// reconnecting client can keep ownership of its earlier operations;
// otherwise a fresh identity is minted.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = uuid.New().String()
	}

	client := &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		conn:   conn,
		send:   make(chan models.Message, 256),
		server: s,
	}

	s.clientsMux.Lock()
	s.clients[client.ID] = client
	s.clientsMux.Unlock()

	s.coordinator.Connect(client.ID, client.UserID)

	go client.writePump()
	go client.readPump()

	log.Printf("Client connected: %s", client.ID)
}

// HandleRooms lists every room holding operations, with operation and
// member counts.
func (s *Server) HandleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.coordinator.ListRooms())
}

// remove drops a client from the connection table.
func (s *Server) remove(sessionID string) {
	s.clientsMux.Lock()
	delete(s.clients, sessionID)
	s.clientsMux.Unlock()
}

// EnableCORS adds CORS headers to responses
func EnableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}
