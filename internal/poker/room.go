package poker

import "sync"

// Room is one estimation session: its participants, the in-progress round and
// the role policy consulted for every gameplay action. All methods lock the
// room so each operation is atomic against concurrent handlers.
type Room struct {
	mu sync.Mutex

	id           string
	creatorID    string
	participants map[string]*Participant
	round        *RoundTracker
	policy       *PermissionPolicy
}

func newRoom(id string, policy *PermissionPolicy, creator Participant) *Room {
	r := &Room{
		id:           id,
		creatorID:    creator.ID,
		participants: make(map[string]*Participant),
		round:        newRoundTracker(1),
		policy:       policy,
	}
	creator.HasVoted = false
	r.participants[creator.ID] = &creator
	return r
}

func (r *Room) ID() string { return r.id }

// join adds the user, or re-adds them if the id is already present. A rejoin
// overwrites name and role and always starts unvoted: any in-flight vote for
// that id is dropped from the ledger.
func (r *Room) join(user Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.HasVoted = false
	r.participants[user.ID] = &user
	r.round.removeVote(user.ID)
}

func (r *Room) castVote(userID, value string) Denial {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[userID]
	if !ok {
		return DenyNotParticipant
	}
	if !r.policy.HasPermission(p.Role, PermVote) {
		return DenyPermission
	}
	if !ValidCard(value) {
		return DenyOffDeck
	}
	r.round.castVote(p.ID, p.Name, value)
	p.HasVoted = true
	return DenyNone
}

// clearVotes discards the tracker and installs a fresh one for the next
// round. currentRound is the tracker's generation counter; it only ever moves
// forward.
func (r *Room) clearVotes(userID string) Denial {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[userID]
	if !ok {
		return DenyNotParticipant
	}
	ctx := ActionContext{HasVotes: r.round.hasVotes()}
	if !r.policy.HasPermission(p.Role, PermClear) {
		return DenyPermission
	}
	if !r.policy.CanPerformAction(p.Role, PermClear, ctx) {
		return DenyNoVotes
	}
	r.round = newRoundTracker(r.round.Number + 1)
	for _, participant := range r.participants {
		participant.HasVoted = false
	}
	return DenyNone
}

// startReveal flips the round to revealed and snapshots the room in the same
// critical section, so the broadcast always shows the revealed round even
// when another operation is serialized right behind it. Revealing an already
// revealed round changes nothing. The unanimous numeric value, when one
// exists, is reported so callers can log or announce it.
func (r *Room) startReveal(userID string) (state RoomState, unanimous int, ok bool, d Denial) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, found := r.participants[userID]
	if !found {
		return RoomState{}, 0, false, DenyNotParticipant
	}
	ctx := ActionContext{HasVotes: r.round.hasVotes()}
	if !r.policy.HasPermission(p.Role, PermReveal) {
		return RoomState{}, 0, false, DenyPermission
	}
	if !r.policy.CanPerformAction(p.Role, PermReveal, ctx) {
		return RoomState{}, 0, false, DenyNoVotes
	}
	r.round.reveal()
	unanimous, ok = r.round.unanimousValue()
	return r.stateLocked(), unanimous, ok, DenyNone
}

// leave removes the participant along with their current-round vote. The
// second return reports whether the room is now empty; the registry deletes
// empty rooms.
func (r *Room) leave(userID string) (wasInRoom, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[userID]; !ok {
		return false, len(r.participants) == 0
	}
	delete(r.participants, userID)
	r.round.removeVote(userID)
	return true, len(r.participants) == 0
}

// rename updates the participant's display name and keeps any ledger entry of
// theirs in sync so revealed results show the new name.
func (r *Room) rename(userID, newName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[userID]
	if !ok {
		return false
	}
	p.Name = newName
	r.round.renameVoter(userID, newName)
	return true
}

func (r *Room) hasParticipant(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.participants[userID]
	return ok
}

// state builds a detached snapshot of the room.
func (r *Room) state() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

func (r *Room) stateLocked() RoomState {
	participants := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		participants = append(participants, *p)
	}
	return RoomState{
		ID:                r.id,
		CreatorID:         r.creatorID,
		Participants:      participants,
		CurrentRound:      r.round.Number,
		CurrentRoundState: r.round.state(),
	}
}
