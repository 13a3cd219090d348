package poker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportRound(t *testing.T) {
	reg := NewRegistry()
	reg.CreateRoom("retro", alice())
	reg.JoinRoom("retro", bob())
	reg.CastVote("retro", "user-alice", "5")
	reg.CastVote("retro", "user-bob", "5")
	reg.StartReveal("retro", "user-alice", nil)

	state, _ := reg.State("retro")
	file := filepath.Join(t.TempDir(), "results", "retro.txt")
	if err := ExportRound(state, file); err != nil {
		t.Fatalf("export should succeed: %v", err)
	}

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("should be able to read export: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, "Room retro - Round 1") {
		t.Fatalf("expected round header, got:\n%s", out)
	}
	if !strings.Contains(out, "Average: 5.0") {
		t.Fatalf("expected average line, got:\n%s", out)
	}
	if !strings.Contains(out, "Consensus reached") {
		t.Fatalf("expected consensus line, got:\n%s", out)
	}

	// Appending a second round keeps the first.
	reg.ClearVotes("retro", "user-alice")
	reg.CastVote("retro", "user-alice", "3")
	reg.CastVote("retro", "user-bob", "8")
	state, _ = reg.State("retro")
	if err := ExportRound(state, file); err != nil {
		t.Fatalf("second export should succeed: %v", err)
	}
	b, _ = os.ReadFile(file)
	if !strings.Contains(string(b), "Round 1") || !strings.Contains(string(b), "Round 2") {
		t.Fatalf("expected both rounds in file, got:\n%s", string(b))
	}
}
