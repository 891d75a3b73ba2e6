package models

// Geometry is the immutable drawing payload of an operation: a single line
// segment plus the brush settings used to draw it.
type Geometry struct {
	PrevX float64 `json:"prevX"`
	PrevY float64 `json:"prevY"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	Size  float64 `json:"size"`
	Tool  string  `json:"tool"`
}

// Operation is one recorded drawing action in a room's log. RoomID, OpID,
// UserID and Geometry are fixed at append time; Active is the only mutable
// field and tracks whether the mark is currently visible or has been
// undone/cleared by its author.
type Operation struct {
	RoomID   string   `json:"roomId"`
	OpID     int64    `json:"opId"`
	UserID   string   `json:"userId"`
	Geometry Geometry `json:"geometry"`
	Active   bool     `json:"active"`
	ClientID string   `json:"clientId,omitempty"`
}
