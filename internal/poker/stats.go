package poker

import (
	"fmt"
	"strconv"
)

// CalculateStats derives the display statistics for a vote ledger. It is a
// pure function; callers pass the ledger, nothing is stored.
//
// Average covers numeric cards only and is "N/A" when none were cast.
// Consensus means every cast card (numeric and "?" alike) is the same.
// The plurality card is suppressed on ties and on all-"?" rounds.
func CalculateStats(votes []RoundVote) RoundStats {
	stats := RoundStats{Average: "N/A"}
	if len(votes) == 0 {
		return stats
	}

	sum := 0
	numeric := 0
	freq := make(map[string]int, len(votes))
	for _, v := range votes {
		freq[v.Value]++
		if n, err := strconv.Atoi(v.Value); err == nil {
			sum += n
			numeric++
		}
	}

	if numeric > 0 {
		stats.Average = fmt.Sprintf("%.1f", float64(sum)/float64(numeric))
	}
	stats.HasConsensus = len(freq) == 1

	maxCount := 0
	for _, c := range freq {
		if c > maxCount {
			maxCount = c
		}
	}
	top := ""
	topTied := false
	for value, c := range freq {
		if c != maxCount {
			continue
		}
		if top != "" {
			topTied = true
			break
		}
		top = value
	}
	if !topTied && numeric > 0 {
		stats.MostCommon = &top
		stats.ShowMostCommon = true
	}
	return stats
}
