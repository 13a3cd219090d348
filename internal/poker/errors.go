package poker

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomExists    = errors.New("room already exists")
	ErrInvalidRoomID = errors.New("invalid room id")
)

// Denial says why a gameplay operation (vote, clear, reveal, ...) did
// nothing. Gameplay operations never surface errors to the client; the
// transport layer is expected to drop denials, but tests and debug logs can
// still see the reason.
type Denial int

const (
	DenyNone Denial = iota
	DenyRoomNotFound
	DenyNotParticipant
	DenyPermission
	DenyOffDeck
	DenyNoVotes
)

func (d Denial) String() string {
	switch d {
	case DenyNone:
		return "none"
	case DenyRoomNotFound:
		return "room_not_found"
	case DenyNotParticipant:
		return "not_participant"
	case DenyPermission:
		return "permission"
	case DenyOffDeck:
		return "off_deck"
	case DenyNoVotes:
		return "no_votes"
	}
	return "unknown"
}
