package poker

// CardUnknown is the "too unclear to estimate" card.
const CardUnknown = "?"

// Deck is the fixed set of legal vote values. Cards are strings because the
// deck mixes numbers with "?".
var Deck = []string{"0", "1", "2", "3", "5", "8", "13", "21", "34", "55", CardUnknown}

var deckSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Deck))
	for _, c := range Deck {
		m[c] = struct{}{}
	}
	return m
}()

// ValidCard reports whether v is one of the deck cards. Anything else,
// including alternate spellings of deck numbers, is off-deck.
func ValidCard(v string) bool {
	_, ok := deckSet[v]
	return ok
}
