package api

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"

	"github.com/Rishabhjain2003/CollaborativeCanvas/internal/models"
)

// Client represents a connected WebSocket session.
type Client struct {
	ID     string
	UserID string
	conn   *websocket.Conn
	send   chan models.Message
	server *Server
}

// readPump reads messages from the WebSocket until the connection drops,
// then reports the disconnect to the coordinator.
func (c *Client) readPump() {
	defer func() {
		c.server.remove(c.ID)
		c.server.coordinator.Disconnect(c.ID)
		c.conn.Close()
		log.Printf("Client disconnected: %s", c.ID)
	}()

	for {
		var msg models.ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		c.dispatch(msg)
	}
}

// writePump writes queued messages to the WebSocket.
func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("Write error for session %s: %v", c.ID, err)
			return
		}
	}
}

// dispatch decodes one inbound envelope and forwards it to the
// coordinator. Client input is advisory: anything malformed is dropped
// here, never appended to a room log.
func (c *Client) dispatch(msg models.ClientMessage) {
	switch msg.Type {
	case models.TypeJoin:
		var p models.JoinPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.RoomID == "" {
			log.Printf("Dropping malformed join from session %s", c.ID)
			return
		}
		c.server.coordinator.Join(c.ID, p.RoomID)

	case models.TypeDraw:
		var p models.DrawPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Printf("Dropping malformed draw from session %s: %v", c.ID, err)
			return
		}
		g, ok := p.Geometry()
		if !ok {
			log.Printf("Dropping draw with missing coordinates from session %s", c.ID)
			return
		}
		c.server.coordinator.Draw(c.ID, g, p.ClientID)

	case models.TypeUndo:
		c.server.coordinator.Undo(c.ID)

	case models.TypeRedo:
		c.server.coordinator.Redo(c.ID)

	case models.TypeClear:
		c.server.coordinator.Clear(c.ID)

	case models.TypeCursor:
		var p models.CursorPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		c.server.coordinator.CursorMove(c.ID, p)

	default:
		log.Printf("Unknown message type: %s", msg.Type)
	}
}
