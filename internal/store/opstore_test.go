package store

import (
	"testing"

	"github.com/Rishabhjain2003/CollaborativeCanvas/internal/models"
)

func seg(x float64) models.Geometry {
	return models.Geometry{PrevX: x, PrevY: x, X: x + 1, Y: x + 1, Color: "#000000", Size: 2, Tool: "pen"}
}

func TestAppendAssignsSequentialIDs(t *testing.T) {
	s := NewOperationStore()

	for i := 0; i < 5; i++ {
		op := s.Append("room1", "user1", seg(float64(i)), "")
		if op.OpID != int64(i) {
			t.Errorf("Expected opId %d, got %d", i, op.OpID)
		}
		if !op.Active {
			t.Errorf("Expected op %d to be active on append", i)
		}
	}

	// A second room starts its own sequence at 0.
	op := s.Append("room2", "user1", seg(0), "")
	if op.OpID != 0 {
		t.Errorf("Expected opId 0 in fresh room, got %d", op.OpID)
	}
}

func TestSnapshotPreservesOrderThroughToggles(t *testing.T) {
	s := NewOperationStore()

	s.Append("room1", "user1", seg(0), "")
	s.Append("room1", "user2", seg(1), "")
	s.Append("room1", "user1", seg(2), "")

	s.UndoLast("room1", "user1")
	s.RedoFirst("room1", "user1")
	s.ClearUser("room1", "user2")

	snapshot := s.Snapshot("room1")
	if len(snapshot) != 3 {
		t.Fatalf("Expected 3 operations, got %d", len(snapshot))
	}
	for i, op := range snapshot {
		if op.OpID != int64(i) {
			t.Errorf("Expected gapless ids, got %d at position %d", op.OpID, i)
		}
	}
}

func TestUndoFlipsMostRecentOwnOperation(t *testing.T) {
	s := NewOperationStore()

	s.Append("room1", "user1", seg(0), "")
	s.Append("room1", "user2", seg(1), "")
	s.Append("room1", "user1", seg(2), "")

	op, ok := s.UndoLast("room1", "user1")
	if !ok {
		t.Fatalf("Expected undo to find an operation")
	}
	if op.OpID != 2 {
		t.Errorf("Expected undo to flip opId 2, got %d", op.OpID)
	}
	if op.Active {
		t.Errorf("Expected flipped operation to be inactive")
	}

	// user2's operation is untouched.
	snapshot := s.Snapshot("room1")
	if !snapshot[1].Active {
		t.Errorf("Undo by user1 must not touch user2's operation")
	}
	if !snapshot[0].Active {
		t.Errorf("Undo must only flip the most recent own operation")
	}
}

func TestUndoWithNothingActiveIsNoOp(t *testing.T) {
	s := NewOperationStore()

	if _, ok := s.UndoLast("room1", "user1"); ok {
		t.Errorf("Expected undo in empty room to be a no-op")
	}

	s.Append("room1", "user2", seg(0), "")
	if _, ok := s.UndoLast("room1", "user1"); ok {
		t.Errorf("Expected undo with no own operations to be a no-op")
	}
	if len(s.Snapshot("room1")) != 1 {
		t.Errorf("No-op undo must leave the log unchanged")
	}
}

func TestRedoRestoresIdenticalOperation(t *testing.T) {
	s := NewOperationStore()

	g := seg(7)
	appended := s.Append("room1", "user1", g, "stroke-7")
	undone, ok := s.UndoLast("room1", "user1")
	if !ok {
		t.Fatalf("Expected undo to succeed")
	}

	redone, ok := s.RedoFirst("room1", "user1")
	if !ok {
		t.Fatalf("Expected redo to succeed")
	}
	if redone.OpID != appended.OpID || redone.OpID != undone.OpID {
		t.Errorf("Redo must restore the same opId, got %d", redone.OpID)
	}
	if redone.Geometry != g {
		t.Errorf("Redo must restore identical geometry, got %+v", redone.Geometry)
	}
	if !redone.Active {
		t.Errorf("Expected redone operation to be active")
	}
}

func TestRedoWithNothingInactiveIsNoOp(t *testing.T) {
	s := NewOperationStore()
	s.Append("room1", "user1", seg(0), "")

	if _, ok := s.RedoFirst("room1", "user1"); ok {
		t.Errorf("Expected redo with nothing undone to be a no-op")
	}
}

func TestClearDeactivatesOnlyOwnOperations(t *testing.T) {
	s := NewOperationStore()

	s.Append("room1", "user1", seg(0), "")
	s.Append("room1", "user2", seg(1), "")
	s.Append("room1", "user1", seg(2), "")

	cleared := s.ClearUser("room1", "user1")
	if len(cleared) != 2 || cleared[0] != 0 || cleared[1] != 2 {
		t.Errorf("Expected cleared ids [0 2], got %v", cleared)
	}

	snapshot := s.Snapshot("room1")
	if snapshot[0].Active || snapshot[2].Active {
		t.Errorf("Expected user1's operations to be inactive after clear")
	}
	if !snapshot[1].Active {
		t.Errorf("Clear by user1 must not touch user2's operation")
	}
}

func TestClearThenRedoRestoresOldestFirst(t *testing.T) {
	s := NewOperationStore()

	for i := 0; i < 3; i++ {
		s.Append("room1", "user1", seg(float64(i)), "")
	}

	cleared := s.ClearUser("room1", "user1")
	if len(cleared) != 3 {
		t.Fatalf("Expected 3 cleared operations, got %d", len(cleared))
	}

	// Redo brings the cleared operations back one at a time, oldest first.
	for i := 0; i < 3; i++ {
		op, ok := s.RedoFirst("room1", "user1")
		if !ok {
			t.Fatalf("Expected redo %d to succeed", i)
		}
		if op.OpID != int64(i) {
			t.Errorf("Expected redo %d to restore opId %d, got %d", i, i, op.OpID)
		}
	}

	for _, op := range s.Snapshot("room1") {
		if !op.Active {
			t.Errorf("Expected all operations active after full redo, op %d is not", op.OpID)
		}
	}
}

func TestClearWithNothingActiveReturnsEmpty(t *testing.T) {
	s := NewOperationStore()

	cleared := s.ClearUser("room1", "user1")
	if cleared == nil || len(cleared) != 0 {
		t.Errorf("Expected empty (non-nil) cleared list, got %v", cleared)
	}
}

func TestSnapshotReturnsCopies(t *testing.T) {
	s := NewOperationStore()
	s.Append("room1", "user1", seg(0), "")

	snapshot := s.Snapshot("room1")
	snapshot[0].Active = false

	if fresh := s.Snapshot("room1"); !fresh[0].Active {
		t.Errorf("Mutating a snapshot must not affect the store")
	}
}
