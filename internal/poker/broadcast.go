package poker

// Emitter delivers one event to every connection in a room. Fire and forget;
// the core never waits for acknowledgement.
type Emitter interface {
	Emit(event string, payload any)
}

// Broadcaster is the transport collaborator the core pushes reveal snapshots
// through. The socket.io adapter in internal/ws implements it.
type Broadcaster interface {
	To(roomID string) Emitter
}

// EventRoomState is the snapshot event name emitted on reveal.
const EventRoomState = "room:state"
