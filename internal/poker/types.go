package poker

type Role string

const (
	RoleParticipant Role = "participant"
	RoleVisitor     Role = "visitor"
)

type RoundStatus string

const (
	RoundVoting   RoundStatus = "voting"
	RoundRevealed RoundStatus = "revealed"
)

type Participant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	HasVoted bool   `json:"hasVoted"`
	Role     Role   `json:"role"`
}

// RoundVote is one ledger entry: who voted and what card they showed.
type RoundVote struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type RoundStats struct {
	Average        string  `json:"average"`
	HasConsensus   bool    `json:"hasConsensus"`
	MostCommon     *string `json:"mostCommon"`
	ShowMostCommon bool    `json:"showMostCommon"`
}

type RoundState struct {
	Round  int         `json:"round"`
	Status RoundStatus `json:"status"`
	Votes  []RoundVote `json:"votes"`
	Stats  RoundStats  `json:"stats"`
}

// RoomState is the snapshot broadcast to every connection in a room. It is a
// detached copy; mutating it never touches the authoritative state.
type RoomState struct {
	ID                string        `json:"id"`
	CreatorID         string        `json:"creatorId"`
	Participants      []Participant `json:"participants"`
	CurrentRound      int           `json:"currentRound"`
	CurrentRoundState RoundState    `json:"currentRoundState"`
}
