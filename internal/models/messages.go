package models

import "encoding/json"

// Client → server message types.
const (
	TypeJoin   = "join"
	TypeDraw   = "draw"
	TypeUndo   = "undo"
	TypeRedo   = "redo"
	TypeClear  = "clear"
	TypeCursor = "cursor"
)

// Server → client message types.
const (
	TypeHistory           = "history"
	TypeOperationApplied  = "operation_applied"
	TypeOperationUndone   = "operation_undone"
	TypeOperationRedone   = "operation_redone"
	TypeOperationsCleared = "operations_cleared"
	TypePresenceUpdate    = "presence_update"
	TypeCursorUpdate      = "cursor_update"
	TypeCursorRemove      = "cursor_remove"
)

// Message is the wire envelope for everything sent to a client.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ClientMessage is the envelope for everything received from a client. The
// payload stays raw until the type is known.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload asks to join (and implicitly create) a room.
type JoinPayload struct {
	RoomID string `json:"roomId"`
}

// DrawPayload carries one line segment from a client. Coordinates are
// pointers so a missing field is distinguishable from zero; a draw without
// all four coordinates is dropped, never appended.
type DrawPayload struct {
	PrevX    *float64 `json:"prevX"`
	PrevY    *float64 `json:"prevY"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Color    string   `json:"color"`
	Size     float64  `json:"size"`
	Tool     string   `json:"tool"`
	ClientID string   `json:"clientId"`
}

// Geometry validates the payload and converts it to an immutable Geometry.
func (p *DrawPayload) Geometry() (Geometry, bool) {
	if p.PrevX == nil || p.PrevY == nil || p.X == nil || p.Y == nil {
		return Geometry{}, false
	}
	return Geometry{
		PrevX: *p.PrevX,
		PrevY: *p.PrevY,
		X:     *p.X,
		Y:     *p.Y,
		Color: p.Color,
		Size:  p.Size,
		Tool:  p.Tool,
	}, true
}

// CursorPayload is a client's cursor position; relayed, never stored.
type CursorPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// HistoryPayload is sent once to a joining session: the room's full
// operation log (active and inactive, in append order) plus the current
// presence list.
type HistoryPayload struct {
	RoomID     string      `json:"roomId"`
	Operations []Operation `json:"operations"`
	Sessions   []string    `json:"sessions"`
}

// ToggledPayload reports a single operation flipped by undo or redo.
type ToggledPayload struct {
	OpID   int64  `json:"opId"`
	UserID string `json:"userId"`
}

// ClearedPayload lists every operation deactivated by a clear, ascending.
// An empty list is a valid broadcast.
type ClearedPayload struct {
	OpIDs  []int64 `json:"opIds"`
	UserID string  `json:"userId"`
}

// PresencePayload is the set of sessions currently in a room.
type PresencePayload struct {
	Sessions []string `json:"sessions"`
}

// CursorUpdatePayload is a relayed cursor position tagged with its sender.
type CursorUpdatePayload struct {
	SessionID string  `json:"sessionId"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Color     string  `json:"color"`
}

// CursorRemovePayload tells clients to drop a departed session's cursor.
type CursorRemovePayload struct {
	SessionID string `json:"sessionId"`
}
