package poker

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

const maxRoomIDLength = 50

var roomIDPattern = regexp.MustCompile(`^[a-z_-]+$`)

// NormalizeRoomID trims and lowercases a raw room id. Every registry
// operation normalizes before lookup, so "Test-Room" and "TEST-room" name the
// same room.
func NormalizeRoomID(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func validateRoomID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidRoomID)
	}
	if len(id) > maxRoomIDLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidRoomID, maxRoomIDLength)
	}
	if !roomIDPattern.MatchString(id) {
		return fmt.Errorf("%w: only a-z, _ and - are allowed", ErrInvalidRoomID)
	}
	return nil
}

// Registry is the process-wide directory of active rooms. It owns room
// creation and destruction and routes every per-room operation. Construct one
// per process (or per test); there is no package-level instance.
//
// The registry mutex guards the rooms map, each room's own mutex guards its
// state. Gameplay operations return a Denial instead of an error: an invalid
// or unauthorized action is dropped silently at the client boundary.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	policy *PermissionPolicy
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		policy: NewPermissionPolicy(),
	}
}

// CreateRoom validates and normalizes the id and creates the room with the
// creator as sole participant. The creator id is recorded but confers no
// runtime privilege.
func (reg *Registry) CreateRoom(rawID string, creator Participant) (*Room, error) {
	id := NormalizeRoomID(rawID)
	if err := validateRoomID(id); err != nil {
		return nil, err
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.rooms[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrRoomExists, id)
	}
	room := newRoom(id, reg.policy, creator)
	reg.rooms[id] = room
	log.Info().Str("room", id).Str("creator", creator.ID).Msg("room created")
	return room, nil
}

// JoinRoom adds the user to an existing room. Joining under an id that is
// already present re-adds the participant: name and role are overwritten and
// hasVoted resets, so a reconnect always starts unvoted.
func (reg *Registry) JoinRoom(rawID string, user Participant) (*Room, error) {
	id := NormalizeRoomID(rawID)
	if err := validateRoomID(id); err != nil {
		return nil, err
	}
	room, ok := reg.room(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	room.join(user)
	return room, nil
}

func (reg *Registry) CastVote(roomID, userID, value string) Denial {
	room, ok := reg.room(NormalizeRoomID(roomID))
	if !ok {
		return DenyRoomNotFound
	}
	return room.castVote(userID, value)
}

func (reg *Registry) ClearVotes(roomID, userID string) Denial {
	room, ok := reg.room(NormalizeRoomID(roomID))
	if !ok {
		return DenyRoomNotFound
	}
	return room.clearVotes(userID)
}

// StartReveal reveals the current round and pushes the resulting snapshot to
// every connection in the room through the broadcaster.
func (reg *Registry) StartReveal(roomID, userID string, b Broadcaster) Denial {
	id := NormalizeRoomID(roomID)
	room, ok := reg.room(id)
	if !ok {
		return DenyRoomNotFound
	}
	state, unanimous, agreed, denial := room.startReveal(userID)
	if denial != DenyNone {
		return denial
	}
	evt := log.Info().Str("room", id).Int("round", state.CurrentRound)
	if agreed {
		evt = evt.Int("unanimous", unanimous)
	}
	evt.Msg("round revealed")
	if b != nil {
		b.To(id).Emit(EventRoomState, state)
	}
	return DenyNone
}

// LeaveResult reports what LeaveRoom did. The zero value means the room did
// not exist.
type LeaveResult struct {
	WasInRoom   bool
	RoomDeleted bool
}

// LeaveRoom removes the participant. A room never outlives its last
// participant: when the count hits zero the room is deleted in the same call.
func (reg *Registry) LeaveRoom(roomID, userID string) LeaveResult {
	id := NormalizeRoomID(roomID)
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[id]
	if !ok {
		return LeaveResult{}
	}
	wasInRoom, empty := room.leave(userID)
	if empty {
		delete(reg.rooms, id)
		log.Info().Str("room", id).Msg("room deleted, last participant left")
	}
	return LeaveResult{WasInRoom: wasInRoom, RoomDeleted: empty}
}

// FindUserRoom scans all rooms for the participant. Linear, which is fine at
// the expected scale of tens of rooms.
func (reg *Registry) FindUserRoom(userID string) (string, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for id, room := range reg.rooms {
		if room.hasParticipant(userID) {
			return id, true
		}
	}
	return "", false
}

// UpdateParticipantName renames the participant and their ledger entry, if
// they have one in the current round.
func (reg *Registry) UpdateParticipantName(roomID, userID, newName string) bool {
	room, ok := reg.room(NormalizeRoomID(roomID))
	if !ok {
		return false
	}
	return room.rename(userID, newName)
}

// State returns a read-only snapshot of the room, or false if it does not
// exist. It never mutates.
func (reg *Registry) State(roomID string) (RoomState, bool) {
	room, ok := reg.room(NormalizeRoomID(roomID))
	if !ok {
		return RoomState{}, false
	}
	return room.state(), true
}

func (reg *Registry) RoomExists(roomID string) bool {
	_, ok := reg.room(NormalizeRoomID(roomID))
	return ok
}

func (reg *Registry) room(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[id]
	return room, ok
}
