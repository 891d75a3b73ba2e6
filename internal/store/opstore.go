package store

import (
	"sort"

	"github.com/Rishabhjain2003/CollaborativeCanvas/internal/models"
)

// OperationStore is the single source of truth for each room's drawing
// history. Room logs are append-only: undo, redo and clear only flip an
// operation's Active flag, never remove or reorder entries, so one user's
// edits can never disturb another user's marks. Op ids are allocated here
// at append time and form a gapless sequence starting at 0 per room.
//
// The store is not safe for concurrent use; the sync coordinator is its
// only writer and accesses it from a single goroutine.
type OperationStore struct {
	logs map[string][]*models.Operation
}

// NewOperationStore creates an empty store.
func NewOperationStore() *OperationStore {
	return &OperationStore{
		logs: make(map[string][]*models.Operation),
	}
}

// Append allocates the next op id for the room, records the operation as
// active and returns a copy of it. The room's log is created on first use.
func (s *OperationStore) Append(roomID, userID string, g models.Geometry, clientID string) models.Operation {
	log := s.logs[roomID]
	op := &models.Operation{
		RoomID:   roomID,
		OpID:     int64(len(log)),
		UserID:   userID,
		Geometry: g,
		Active:   true,
		ClientID: clientID,
	}
	s.logs[roomID] = append(log, op)
	return *op
}

// Snapshot returns the room's full log in append order, inactive operations
// included. Replay order matters: later operations may overlay earlier ones,
// so consumers must not reorder. The returned slice holds copies.
func (s *OperationStore) Snapshot(roomID string) []models.Operation {
	log := s.logs[roomID]
	out := make([]models.Operation, len(log))
	for i, op := range log {
		out[i] = *op
	}
	return out
}

// UndoLast scans the room's log backward and deactivates the most recent
// active operation owned by userID. It returns the flipped operation, or
// ok=false when the user has nothing to undo (a no-op, not an error).
func (s *OperationStore) UndoLast(roomID, userID string) (models.Operation, bool) {
	log := s.logs[roomID]
	for i := len(log) - 1; i >= 0; i-- {
		if log[i].UserID == userID && log[i].Active {
			log[i].Active = false
			return *log[i], true
		}
	}
	return models.Operation{}, false
}

// RedoFirst scans the room's log forward and reactivates the oldest
// inactive operation owned by userID, or returns ok=false if none exists.
func (s *OperationStore) RedoFirst(roomID, userID string) (models.Operation, bool) {
	for _, op := range s.logs[roomID] {
		if op.UserID == userID && !op.Active {
			op.Active = true
			return *op, true
		}
	}
	return models.Operation{}, false
}

// ClearUser deactivates every active operation owned by userID in the room
// and returns their ids in ascending order. There is no bulk redo: each
// cleared operation comes back one RedoFirst at a time, oldest first.
func (s *OperationStore) ClearUser(roomID, userID string) []int64 {
	cleared := make([]int64, 0)
	for _, op := range s.logs[roomID] {
		if op.UserID == userID && op.Active {
			op.Active = false
			cleared = append(cleared, op.OpID)
		}
	}
	return cleared
}

// Rooms returns the ids of every room holding a log, sorted.
func (s *OperationStore) Rooms() []string {
	ids := make([]string, 0, len(s.logs))
	for id := range s.logs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
