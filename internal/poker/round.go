package poker

import "strconv"

// RoundTracker is the vote ledger for one voting cycle. It is owned by its
// Room and never shared; clearing a round replaces the tracker wholesale
// rather than wiping fields, so stale references cannot observe the new
// round. The Room's mutex guards all access.
type RoundTracker struct {
	Number int
	Status RoundStatus
	votes  []RoundVote
}

func newRoundTracker(number int) *RoundTracker {
	return &RoundTracker{Number: number, Status: RoundVoting}
}

// castVote upserts the participant's ledger entry. Voting into a revealed
// round reopens it: the prior reveal no longer reflects the ledger, so the
// status drops back to voting.
func (rt *RoundTracker) castVote(id, name, value string) {
	for i := range rt.votes {
		if rt.votes[i].ID == id {
			rt.votes[i].Name = name
			rt.votes[i].Value = value
			rt.Status = RoundVoting
			return
		}
	}
	rt.votes = append(rt.votes, RoundVote{ID: id, Name: name, Value: value})
	rt.Status = RoundVoting
}

func (rt *RoundTracker) removeVote(id string) {
	for i := range rt.votes {
		if rt.votes[i].ID == id {
			rt.votes = append(rt.votes[:i], rt.votes[i+1:]...)
			return
		}
	}
}

func (rt *RoundTracker) renameVoter(id, name string) {
	for i := range rt.votes {
		if rt.votes[i].ID == id {
			rt.votes[i].Name = name
			return
		}
	}
}

func (rt *RoundTracker) hasVotes() bool {
	return len(rt.votes) > 0
}

// reveal marks the round revealed. Re-revealing an already revealed round is
// a no-op.
func (rt *RoundTracker) reveal() {
	rt.Status = RoundRevealed
}

// unanimousValue returns the single numeric value everyone who cast a number
// agrees on, if there is exactly one such value.
func (rt *RoundTracker) unanimousValue() (int, bool) {
	value := 0
	seen := false
	for _, v := range rt.votes {
		n, err := strconv.Atoi(v.Value)
		if err != nil {
			continue
		}
		if seen && n != value {
			return 0, false
		}
		value = n
		seen = true
	}
	return value, seen
}

// state snapshots the tracker, stats included. Votes are copied.
func (rt *RoundTracker) state() RoundState {
	votes := make([]RoundVote, len(rt.votes))
	copy(votes, rt.votes)
	return RoundState{
		Round:  rt.Number,
		Status: rt.Status,
		Votes:  votes,
		Stats:  CalculateStats(votes),
	}
}
