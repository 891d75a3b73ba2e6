package store

import "sort"

// RoomRegistry tracks which sessions currently belong to which room. A
// session is in at most one room at a time; joining a new room implicitly
// leaves the old one. Membership is bookkeeping only — leaving a room never
// touches the room's operation log.
type RoomRegistry struct {
	rooms   map[string]map[string]struct{}
	current map[string]string // sessionID -> roomID
}

// NewRoomRegistry creates an empty registry.
func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms:   make(map[string]map[string]struct{}),
		current: make(map[string]string),
	}
}

// Join adds the session to the room, first removing it from any room it was
// in. Joining a room the session is already in is a no-op.
func (r *RoomRegistry) Join(roomID, sessionID string) {
	if prev, ok := r.current[sessionID]; ok {
		if prev == roomID {
			return
		}
		r.Leave(prev, sessionID)
	}
	members := r.rooms[roomID]
	if members == nil {
		members = make(map[string]struct{})
		r.rooms[roomID] = members
	}
	members[sessionID] = struct{}{}
	r.current[sessionID] = roomID
}

// Leave removes the session from the room; a no-op if it is not a member.
// An emptied member set is dropped, but any operation log for the room is
// unaffected.
func (r *RoomRegistry) Leave(roomID, sessionID string) {
	members, ok := r.rooms[roomID]
	if !ok {
		return
	}
	if _, ok := members[sessionID]; !ok {
		return
	}
	delete(members, sessionID)
	delete(r.current, sessionID)
	if len(members) == 0 {
		delete(r.rooms, roomID)
	}
}

// Members returns the room's current session ids, sorted.
func (r *RoomRegistry) Members(roomID string) []string {
	members := r.rooms[roomID]
	out := make([]string, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
