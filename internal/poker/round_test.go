package poker

import "testing"

func TestCastVoteUpserts(t *testing.T) {
	rt := newRoundTracker(1)
	rt.castVote("u1", "Alice", "3")
	rt.castVote("u1", "Alice", "8")

	state := rt.state()
	if len(state.Votes) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(state.Votes))
	}
	if state.Votes[0].Value != "8" {
		t.Fatalf("expected re-cast vote to overwrite, got %s", state.Votes[0].Value)
	}
}

func TestRevealIsIdempotent(t *testing.T) {
	rt := newRoundTracker(1)
	rt.castVote("u1", "Alice", "5")

	rt.reveal()
	rt.reveal()
	rt.reveal()

	state := rt.state()
	if state.Status != RoundRevealed {
		t.Fatalf("expected revealed status, got %s", state.Status)
	}
	if len(state.Votes) != 1 {
		t.Fatalf("expected vote count unchanged, got %d", len(state.Votes))
	}
}

func TestVoteReopensRevealedRound(t *testing.T) {
	rt := newRoundTracker(1)
	rt.castVote("u1", "Alice", "5")
	rt.reveal()

	rt.castVote("u2", "Bob", "8")
	if rt.Status != RoundVoting {
		t.Fatalf("a new vote should reopen the round, got %s", rt.Status)
	}
}

func TestUnanimousValue(t *testing.T) {
	rt := newRoundTracker(1)
	rt.castVote("u1", "Alice", "8")
	rt.castVote("u2", "Bob", "8")
	rt.castVote("u3", "Carol", "?")

	v, ok := rt.unanimousValue()
	if !ok || v != 8 {
		t.Fatalf("expected unanimous 8, got %d (%v)", v, ok)
	}

	rt.castVote("u3", "Carol", "13")
	if _, ok := rt.unanimousValue(); ok {
		t.Fatal("two distinct numeric values are not unanimous")
	}
}

func TestUnanimousValueNeedsNumericVote(t *testing.T) {
	rt := newRoundTracker(1)
	rt.castVote("u1", "Alice", "?")
	if _, ok := rt.unanimousValue(); ok {
		t.Fatal("a ?-only round has no unanimous value")
	}
}

func TestRenameVoterUpdatesLedger(t *testing.T) {
	rt := newRoundTracker(1)
	rt.castVote("u1", "Alice", "5")
	rt.renameVoter("u1", "Alicia")

	state := rt.state()
	if state.Votes[0].Name != "Alicia" {
		t.Fatalf("expected ledger entry renamed, got %s", state.Votes[0].Name)
	}
}

func TestRemoveVote(t *testing.T) {
	rt := newRoundTracker(1)
	rt.castVote("u1", "Alice", "5")
	rt.castVote("u2", "Bob", "8")
	rt.removeVote("u1")

	state := rt.state()
	if len(state.Votes) != 1 || state.Votes[0].ID != "u2" {
		t.Fatalf("expected only Bob's vote to remain, got %v", state.Votes)
	}
}
