package poker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportRound appends a human-readable summary of a revealed round to the
// results file. Best effort; callers log and carry on when it fails.
func ExportRound(state RoomState, filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	round := state.CurrentRoundState
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Room %s - Round %d (%s)\n", state.ID, round.Round, time.Now().Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for _, v := range round.Votes {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", v.Name, v.Value))
	}
	sb.WriteString(fmt.Sprintf("Average: %s\n", round.Stats.Average))
	if round.Stats.HasConsensus {
		sb.WriteString("Consensus reached\n")
	} else if round.Stats.ShowMostCommon && round.Stats.MostCommon != nil {
		sb.WriteString(fmt.Sprintf("Most common: %s\n", *round.Stats.MostCommon))
	}
	sb.WriteString("\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
