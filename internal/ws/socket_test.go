package ws

import (
	"net"
	"net/http"
	"net/url"
	"testing"

	socketio "github.com/googollee/go-socket.io"
	"github.com/pointdeck/pointdeck/internal/config"
	"github.com/pointdeck/pointdeck/internal/poker"
)

// fakeConn satisfies socketio.Conn so the connection bookkeeping can be
// exercised without a live socket server.
type fakeConn struct {
	id      string
	ctx     interface{}
	rooms   []string
	emitted []string
	closed  bool
}

func (c *fakeConn) Close() error              { c.closed = true; return nil }
func (c *fakeConn) ID() string                { return c.id }
func (c *fakeConn) URL() url.URL              { return url.URL{} }
func (c *fakeConn) LocalAddr() net.Addr       { return nil }
func (c *fakeConn) RemoteAddr() net.Addr      { return nil }
func (c *fakeConn) RemoteHeader() http.Header { return nil }
func (c *fakeConn) Context() interface{}      { return c.ctx }
func (c *fakeConn) SetContext(v interface{})  { c.ctx = v }
func (c *fakeConn) Namespace() string         { return "/" }
func (c *fakeConn) Emit(event string, _ ...interface{}) {
	c.emitted = append(c.emitted, event)
}
func (c *fakeConn) Join(room string) { c.rooms = append(c.rooms, room) }
func (c *fakeConn) Leave(room string) {
	for i, r := range c.rooms {
		if r == room {
			c.rooms = append(c.rooms[:i], c.rooms[i+1:]...)
			return
		}
	}
}
func (c *fakeConn) LeaveAll()       { c.rooms = nil }
func (c *fakeConn) Rooms() []string { return c.rooms }

func newTestServer() (*Server, *socketio.Server) {
	return New(poker.NewRegistry(), config.Config{}), socketio.NewServer(nil)
}

func carol() poker.Participant {
	return poker.Participant{ID: "user-carol", Name: "Carol", Role: poker.RoleParticipant}
}

func TestIdentifyGeneratesUserID(t *testing.T) {
	srv, _ := newTestServer()
	a := srv.identify(identity{Name: "Alice"})
	b := srv.identify(identity{Name: "Bob"})
	if a.ID == "" || b.ID == "" {
		t.Fatal("missing user ids should be generated")
	}
	if a.ID == b.ID {
		t.Fatal("generated user ids should be unique")
	}
	if a.Role != poker.RoleParticipant {
		t.Fatalf("default role should be participant, got %s", a.Role)
	}
}

func TestIdentifyParsesRole(t *testing.T) {
	srv, _ := newTestServer()
	if p := srv.identify(identity{UserID: "u", Role: "visitor"}); p.Role != poker.RoleVisitor {
		t.Fatalf("expected visitor role, got %s", p.Role)
	}
	// Unknown roles fall back to participant.
	if p := srv.identify(identity{UserID: "u", Role: "moderator"}); p.Role != poker.RoleParticipant {
		t.Fatalf("expected participant fallback, got %s", p.Role)
	}
}

func TestBindSupersedesPreviousConnection(t *testing.T) {
	srv, _ := newTestServer()
	user := carol()

	old := &fakeConn{id: "sid-old"}
	srv.bind(old, "retro", user)
	if old.closed {
		t.Fatal("first connection should stay open")
	}

	next := &fakeConn{id: "sid-new"}
	srv.bind(next, "retro", user)
	if !old.closed {
		t.Fatal("superseded connection should be closed")
	}
	if !srv.isCurrent(user.ID, next) {
		t.Fatal("new connection should be current")
	}
	if srv.isCurrent(user.ID, old) {
		t.Fatal("old connection should no longer be current")
	}
	ctx := connCtx(next)
	if ctx.UserID != user.ID || ctx.RoomID != "retro" {
		t.Fatalf("bind should set the connection context, got %+v", ctx)
	}
}

// A reconnect closes the superseded connection, and socket.io then fires the
// disconnect handler for it. That late disconnect must not remove the user
// from the room their new connection just joined.
func TestSupersededDisconnectKeepsRoom(t *testing.T) {
	srv, io := newTestServer()
	user := carol()
	if _, err := srv.Registry.CreateRoom("retro", user); err != nil {
		t.Fatalf("should be able to create room: %v", err)
	}

	old := &fakeConn{id: "sid-old"}
	srv.bind(old, "retro", user)

	// Reconnect: the user comes back on a new socket and rejoins.
	if _, err := srv.Registry.JoinRoom("retro", user); err != nil {
		t.Fatalf("rejoin should succeed: %v", err)
	}
	next := &fakeConn{id: "sid-new"}
	srv.bind(next, "retro", user)

	// Disconnect callback for the superseded connection.
	srv.leave(io, old)
	srv.unbind(user.ID, old)

	if !srv.Registry.RoomExists("retro") {
		t.Fatal("room must survive the superseded connection's disconnect")
	}
	if _, ok := srv.Registry.FindUserRoom(user.ID); !ok {
		t.Fatal("user must still be in the room on the new connection")
	}
	if !srv.isCurrent(user.ID, next) {
		t.Fatal("new connection must still be current")
	}
	if d := srv.Registry.CastVote("retro", user.ID, "5"); d != poker.DenyNone {
		t.Fatalf("user should still be able to vote, got %s", d)
	}
}

func TestDisconnectLeavesRoom(t *testing.T) {
	srv, io := newTestServer()
	user := carol()
	if _, err := srv.Registry.CreateRoom("retro", user); err != nil {
		t.Fatalf("should be able to create room: %v", err)
	}
	s := &fakeConn{id: "sid-1"}
	srv.bind(s, "retro", user)

	srv.leave(io, s)
	srv.unbind(user.ID, s)

	if srv.Registry.RoomExists("retro") {
		t.Fatal("sole participant's disconnect should delete the room")
	}
	if srv.isCurrent(user.ID, s) {
		t.Fatal("connection should be unbound after disconnect")
	}
}

func TestDisconnectKeepsRoomForOthers(t *testing.T) {
	srv, io := newTestServer()
	user := carol()
	srv.Registry.CreateRoom("retro", user)
	other := poker.Participant{ID: "user-dan", Name: "Dan", Role: poker.RoleParticipant}
	srv.Registry.JoinRoom("retro", other)

	s := &fakeConn{id: "sid-1"}
	srv.bind(s, "retro", user)
	srv.leave(io, s)

	if !srv.Registry.RoomExists("retro") {
		t.Fatal("room should survive while Dan remains")
	}
	if _, ok := srv.Registry.FindUserRoom(user.ID); ok {
		t.Fatal("Carol should have left the room")
	}
}

// A connection that never bound a room still leaves its room on disconnect,
// resolved through the registry scan.
func TestLeaveFallsBackToFindUserRoom(t *testing.T) {
	srv, io := newTestServer()
	user := carol()
	srv.Registry.CreateRoom("retro", user)

	s := &fakeConn{id: "sid-1"}
	s.SetContext(&ConnCtx{UserID: user.ID, Name: user.Name})
	srv.mu.Lock()
	srv.conns[user.ID] = s
	srv.mu.Unlock()

	srv.leave(io, s)
	if srv.Registry.RoomExists("retro") {
		t.Fatal("disconnect should resolve the room via the registry scan")
	}
}

func TestErrEmitsErrorEvent(t *testing.T) {
	srv, _ := newTestServer()
	s := &fakeConn{id: "sid-1"}
	out := srv.err(s, "room_exists", "room already exists")
	if len(s.emitted) != 1 || s.emitted[0] != "error" {
		t.Fatalf("expected one error event, got %v", s.emitted)
	}
	if out["error"] != "room already exists" {
		t.Fatalf("expected error ack payload, got %v", out)
	}
}

func TestErrCode(t *testing.T) {
	cases := map[error]string{
		poker.ErrInvalidRoomID: "invalid_room_id",
		poker.ErrRoomExists:    "room_exists",
		poker.ErrRoomNotFound:  "room_not_found",
	}
	for err, want := range cases {
		if got := errCode(err); got != want {
			t.Fatalf("expected %s for %v, got %s", want, err, got)
		}
	}
	if got := errCode(net.ErrClosed); got != "bad_request" {
		t.Fatalf("expected bad_request fallback, got %s", got)
	}
}
