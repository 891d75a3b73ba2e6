package sync

import (
	"context"
	"log"

	"github.com/Rishabhjain2003/CollaborativeCanvas/internal/models"
	"github.com/Rishabhjain2003/CollaborativeCanvas/internal/store"
)

// Transport delivers a message to a single connected session. Delivery is
// expected to be reliable and in order within one connection; the history
// exchange on join is the recovery path across reconnects.
type Transport interface {
	Send(sessionID string, msg models.Message)
}

// Archiver receives room snapshots during an archive flush. Snapshots are
// its only view of the store.
type Archiver interface {
	SaveSnapshot(roomID string, ops []models.Operation) error
}

// session is the coordinator's view of one connection: its bound user
// identity and, once joined, its current room.
type session struct {
	userID string
	roomID string
}

type eventKind int

const (
	evConnect eventKind = iota
	evJoin
	evDraw
	evUndo
	evRedo
	evClear
	evCursor
	evDisconnect
	evArchive
	evListRooms
)

type event struct {
	kind      eventKind
	sessionID string
	userID    string
	roomID    string
	geometry  models.Geometry
	clientID  string
	cursor    models.CursorPayload
	rooms     chan []RoomInfo
}

// RoomInfo summarizes one room for the HTTP listing endpoint.
type RoomInfo struct {
	RoomID     string `json:"roomId"`
	Operations int    `json:"operations"`
	Members    int    `json:"members"`
}

// Coordinator mediates between session requests and the operation store and
// room registry. Every request is funneled through one goroutine and
// handled to completion before the next, so appends and visibility flips
// never interleave and the store needs no locks. Handlers are non-blocking
// and bounded; the undo/redo scans are linear in one room's log length.
type Coordinator struct {
	ops       *store.OperationStore
	registry  *store.RoomRegistry
	transport Transport
	archiver  Archiver
	sessions  map[string]*session
	events    chan event
	done      chan struct{}
}

// NewCoordinator creates a coordinator over its own store and registry
// instances. Nothing is shared process-wide; independent coordinators can
// coexist.
func NewCoordinator(ops *store.OperationStore, registry *store.RoomRegistry, transport Transport) *Coordinator {
	return &Coordinator{
		ops:       ops,
		registry:  registry,
		transport: transport,
		sessions:  make(map[string]*session),
		events:    make(chan event, 256),
		done:      make(chan struct{}),
	}
}

// SetArchiver attaches an optional snapshot sink. Must be called before Run.
func (c *Coordinator) SetArchiver(a Archiver) {
	c.archiver = a
}

// Run processes events until the context is canceled. Requests enqueued
// after Run returns are dropped.
func (c *Coordinator) Run(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.events:
			c.handle(ev)
		}
	}
}

func (c *Coordinator) enqueue(ev event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// Connect registers a new session bound to userID.
func (c *Coordinator) Connect(sessionID, userID string) {
	c.enqueue(event{kind: evConnect, sessionID: sessionID, userID: userID})
}

// Join requests membership in a room, leaving any current room first.
func (c *Coordinator) Join(sessionID, roomID string) {
	c.enqueue(event{kind: evJoin, sessionID: sessionID, roomID: roomID})
}

// Draw submits one line segment.
func (c *Coordinator) Draw(sessionID string, g models.Geometry, clientID string) {
	c.enqueue(event{kind: evDraw, sessionID: sessionID, geometry: g, clientID: clientID})
}

// Undo hides the session's most recent visible operation, if any.
func (c *Coordinator) Undo(sessionID string) {
	c.enqueue(event{kind: evUndo, sessionID: sessionID})
}

// Redo restores the session's oldest hidden operation, if any.
func (c *Coordinator) Redo(sessionID string) {
	c.enqueue(event{kind: evRedo, sessionID: sessionID})
}

// Clear hides every visible operation owned by the session's user.
func (c *Coordinator) Clear(sessionID string) {
	c.enqueue(event{kind: evClear, sessionID: sessionID})
}

// CursorMove relays a cursor position to the rest of the room.
func (c *Coordinator) CursorMove(sessionID string, pos models.CursorPayload) {
	c.enqueue(event{kind: evCursor, sessionID: sessionID, cursor: pos})
}

// Disconnect removes the session; its operations stay in the log.
func (c *Coordinator) Disconnect(sessionID string) {
	c.enqueue(event{kind: evDisconnect, sessionID: sessionID})
}

// FlushArchive asks the event loop to snapshot every room into the
// archiver. A no-op when no archiver is attached.
func (c *Coordinator) FlushArchive() {
	c.enqueue(event{kind: evArchive})
}

// ListRooms returns a summary of every room holding operations. The query
// runs on the event loop like any other request; nil is returned if the
// coordinator has stopped.
func (c *Coordinator) ListRooms() []RoomInfo {
	reply := make(chan []RoomInfo, 1)
	c.enqueue(event{kind: evListRooms, rooms: reply})
	select {
	case infos := <-reply:
		return infos
	case <-c.done:
		return nil
	}
}

func (c *Coordinator) handle(ev event) {
	switch ev.kind {
	case evConnect:
		c.onConnect(ev.sessionID, ev.userID)
	case evJoin:
		c.onJoin(ev.sessionID, ev.roomID)
	case evDraw:
		c.onDraw(ev.sessionID, ev.geometry, ev.clientID)
	case evUndo:
		c.onUndo(ev.sessionID)
	case evRedo:
		c.onRedo(ev.sessionID)
	case evClear:
		c.onClear(ev.sessionID)
	case evCursor:
		c.onCursorMove(ev.sessionID, ev.cursor)
	case evDisconnect:
		c.onDisconnect(ev.sessionID)
	case evArchive:
		c.onArchive()
	case evListRooms:
		ev.rooms <- c.onListRooms()
	}
}

func (c *Coordinator) onListRooms() []RoomInfo {
	roomIDs := c.ops.Rooms()
	infos := make([]RoomInfo, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		infos = append(infos, RoomInfo{
			RoomID:     roomID,
			Operations: len(c.ops.Snapshot(roomID)),
			Members:    len(c.registry.Members(roomID)),
		})
	}
	return infos
}

func (c *Coordinator) onConnect(sessionID, userID string) {
	c.sessions[sessionID] = &session{userID: userID}
	log.Printf("Session connected: %s (user %s)", sessionID, userID)
}

func (c *Coordinator) onJoin(sessionID, roomID string) {
	s, ok := c.sessions[sessionID]
	if !ok {
		log.Printf("Dropping join from unknown session %s", sessionID)
		return
	}
	if s.roomID == roomID {
		// Re-join of the current room: resend history and presence so a
		// client that lost local state can resync.
		c.transport.Send(sessionID, models.Message{
			Type: models.TypeHistory,
			Payload: models.HistoryPayload{
				RoomID:     roomID,
				Operations: c.ops.Snapshot(roomID),
				Sessions:   c.registry.Members(roomID),
			},
		})
		c.broadcastPresence(roomID)
		return
	}
	if s.roomID != "" {
		prev := s.roomID
		c.registry.Leave(prev, sessionID)
		c.broadcastPresence(prev)
		c.broadcast(prev, models.Message{
			Type:    models.TypeCursorRemove,
			Payload: models.CursorRemovePayload{SessionID: sessionID},
		}, "")
	}
	c.registry.Join(roomID, sessionID)
	s.roomID = roomID
	log.Printf("Session %s joined room %s", sessionID, roomID)

	c.transport.Send(sessionID, models.Message{
		Type: models.TypeHistory,
		Payload: models.HistoryPayload{
			RoomID:     roomID,
			Operations: c.ops.Snapshot(roomID),
			Sessions:   c.registry.Members(roomID),
		},
	})
	c.broadcastPresence(roomID)
}

func (c *Coordinator) onDraw(sessionID string, g models.Geometry, clientID string) {
	s, ok := c.sessions[sessionID]
	if !ok || s.roomID == "" {
		// Draw outside a room can happen on a disconnect race; drop it.
		log.Printf("Dropping draw from session %s: not in a room", sessionID)
		return
	}
	op := c.ops.Append(s.roomID, s.userID, g, clientID)
	c.broadcast(s.roomID, models.Message{
		Type:    models.TypeOperationApplied,
		Payload: op,
	}, "")
}

func (c *Coordinator) onUndo(sessionID string) {
	s, ok := c.sessions[sessionID]
	if !ok || s.roomID == "" {
		log.Printf("Dropping undo from session %s: not in a room", sessionID)
		return
	}
	op, ok := c.ops.UndoLast(s.roomID, s.userID)
	if !ok {
		return
	}
	c.broadcast(s.roomID, models.Message{
		Type:    models.TypeOperationUndone,
		Payload: models.ToggledPayload{OpID: op.OpID, UserID: op.UserID},
	}, "")
}

func (c *Coordinator) onRedo(sessionID string) {
	s, ok := c.sessions[sessionID]
	if !ok || s.roomID == "" {
		log.Printf("Dropping redo from session %s: not in a room", sessionID)
		return
	}
	op, ok := c.ops.RedoFirst(s.roomID, s.userID)
	if !ok {
		return
	}
	c.broadcast(s.roomID, models.Message{
		Type:    models.TypeOperationRedone,
		Payload: models.ToggledPayload{OpID: op.OpID, UserID: op.UserID},
	}, "")
}

func (c *Coordinator) onClear(sessionID string) {
	s, ok := c.sessions[sessionID]
	if !ok || s.roomID == "" {
		log.Printf("Dropping clear from session %s: not in a room", sessionID)
		return
	}
	cleared := c.ops.ClearUser(s.roomID, s.userID)
	c.broadcast(s.roomID, models.Message{
		Type:    models.TypeOperationsCleared,
		Payload: models.ClearedPayload{OpIDs: cleared, UserID: s.userID},
	}, "")
}

func (c *Coordinator) onCursorMove(sessionID string, pos models.CursorPayload) {
	s, ok := c.sessions[sessionID]
	if !ok || s.roomID == "" {
		return
	}
	c.broadcast(s.roomID, models.Message{
		Type: models.TypeCursorUpdate,
		Payload: models.CursorUpdatePayload{
			SessionID: sessionID,
			X:         pos.X,
			Y:         pos.Y,
			Color:     pos.Color,
		},
	}, sessionID)
}

func (c *Coordinator) onDisconnect(sessionID string) {
	s, ok := c.sessions[sessionID]
	if !ok {
		return
	}
	if s.roomID != "" {
		roomID := s.roomID
		c.registry.Leave(roomID, sessionID)
		c.broadcastPresence(roomID)
		c.broadcast(roomID, models.Message{
			Type:    models.TypeCursorRemove,
			Payload: models.CursorRemovePayload{SessionID: sessionID},
		}, "")
	}
	delete(c.sessions, sessionID)
	log.Printf("Session disconnected: %s", sessionID)
}

func (c *Coordinator) onArchive() {
	if c.archiver == nil {
		return
	}
	for _, roomID := range c.ops.Rooms() {
		if err := c.archiver.SaveSnapshot(roomID, c.ops.Snapshot(roomID)); err != nil {
			log.Printf("Archive flush failed for room %s: %v", roomID, err)
		}
	}
}

// broadcast sends a message to every member of the room, skipping the
// session named by except when non-empty.
func (c *Coordinator) broadcast(roomID string, msg models.Message, except string) {
	for _, sessionID := range c.registry.Members(roomID) {
		if sessionID == except {
			continue
		}
		c.transport.Send(sessionID, msg)
	}
}

func (c *Coordinator) broadcastPresence(roomID string) {
	c.broadcast(roomID, models.Message{
		Type:    models.TypePresenceUpdate,
		Payload: models.PresencePayload{Sessions: c.registry.Members(roomID)},
	}, "")
}
