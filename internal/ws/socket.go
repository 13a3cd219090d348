package ws

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	socketio "github.com/googollee/go-socket.io"
	"github.com/pointdeck/pointdeck/internal/config"
	"github.com/pointdeck/pointdeck/internal/poker"
	"github.com/rs/zerolog/log"
)

// ConnCtx is the per-connection identity. Clients present their own account
// id; connections without one get a generated id.
type ConnCtx struct {
	UserID string
	Name   string
	RoomID string
	Role   poker.Role
}

type Server struct {
	Registry *poker.Registry
	config   config.Config

	mu    sync.Mutex
	conns map[string]socketio.Conn // userID -> active connection
}

func New(reg *poker.Registry, cfg config.Config) *Server {
	return &Server{Registry: reg, config: cfg, conns: make(map[string]socketio.Conn)}
}

// broadcaster adapts the socket.io server to the core's Broadcaster contract.
type broadcaster struct {
	io *socketio.Server
}

type emitter struct {
	io   *socketio.Server
	room string
}

func (b broadcaster) To(roomID string) poker.Emitter {
	return emitter{io: b.io, room: roomID}
}

func (e emitter) Emit(event string, payload any) {
	e.io.BroadcastToRoom("/", e.room, event, payload)
}

type identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Mount attaches the Socket.IO server with all room handlers to the Gin
// engine. Create/join failures come back as error events; gameplay denials
// are dropped on purpose, the UI is expected to prevent them.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)
	b := broadcaster{io: io}

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// room:create
	io.OnEvent("/", "room:create", func(s socketio.Conn, payload struct {
		RoomID string `json:"roomId"`
		identity
	}) map[string]any {
		user := srv.identify(payload.identity)
		room, err := srv.Registry.CreateRoom(payload.RoomID, user)
		if err != nil {
			return srv.err(s, errCode(err), err.Error())
		}
		srv.bind(s, room.ID(), user)
		log.Info().Str("sid", s.ID()).Str("room", room.ID()).Str("userId", user.ID).Msg("room:create")
		srv.broadcastState(io, room.ID())
		return map[string]any{"roomId": room.ID(), "userId": user.ID}
	})

	// room:join
	io.OnEvent("/", "room:join", func(s socketio.Conn, payload struct {
		RoomID string `json:"roomId"`
		identity
	}) map[string]any {
		user := srv.identify(payload.identity)
		room, err := srv.Registry.JoinRoom(payload.RoomID, user)
		if err != nil {
			return srv.err(s, errCode(err), err.Error())
		}
		srv.bind(s, room.ID(), user)
		log.Info().Str("sid", s.ID()).Str("room", room.ID()).Str("userId", user.ID).Msg("room:join")
		srv.broadcastState(io, room.ID())
		return map[string]any{"roomId": room.ID(), "userId": user.ID}
	})

	// room:vote
	io.OnEvent("/", "room:vote", func(s socketio.Conn, payload struct {
		Value string `json:"value"`
	}) map[string]any {
		ctx := connCtx(s)
		d := srv.Registry.CastVote(ctx.RoomID, ctx.UserID, payload.Value)
		if d == poker.DenyNone {
			srv.broadcastState(io, ctx.RoomID)
		} else {
			log.Debug().Str("room", ctx.RoomID).Str("userId", ctx.UserID).Stringer("denied", d).Msg("room:vote dropped")
		}
		return map[string]any{"ok": true}
	})

	// room:clear
	io.OnEvent("/", "room:clear", func(s socketio.Conn) map[string]any {
		ctx := connCtx(s)
		d := srv.Registry.ClearVotes(ctx.RoomID, ctx.UserID)
		if d == poker.DenyNone {
			srv.broadcastState(io, ctx.RoomID)
		} else {
			log.Debug().Str("room", ctx.RoomID).Str("userId", ctx.UserID).Stringer("denied", d).Msg("room:clear dropped")
		}
		return map[string]any{"ok": true}
	})

	// room:reveal. The registry pushes the snapshot through the broadcaster.
	io.OnEvent("/", "room:reveal", func(s socketio.Conn) map[string]any {
		ctx := connCtx(s)
		d := srv.Registry.StartReveal(ctx.RoomID, ctx.UserID, b)
		if d != poker.DenyNone {
			log.Debug().Str("room", ctx.RoomID).Str("userId", ctx.UserID).Stringer("denied", d).Msg("room:reveal dropped")
			return map[string]any{"ok": true}
		}
		if srv.config.ExportEnabled {
			if state, ok := srv.Registry.State(ctx.RoomID); ok {
				if err := poker.ExportRound(state, srv.config.ExportFile); err != nil {
					log.Error().Err(err).Str("room", ctx.RoomID).Msg("failed to export round")
				}
			}
		}
		return map[string]any{"ok": true}
	})

	// room:rename
	io.OnEvent("/", "room:rename", func(s socketio.Conn, payload struct {
		Name string `json:"name"`
	}) map[string]any {
		ctx := connCtx(s)
		if srv.Registry.UpdateParticipantName(ctx.RoomID, ctx.UserID, payload.Name) {
			ctx.Name = payload.Name
			srv.broadcastState(io, ctx.RoomID)
		}
		return map[string]any{"ok": true}
	})

	// room:leave
	io.OnEvent("/", "room:leave", func(s socketio.Conn) map[string]any {
		srv.leave(io, s)
		return map[string]any{"ok": true}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.leave(io, s)
		ctx := connCtx(s)
		if ctx.UserID != "" {
			srv.unbind(ctx.UserID, s)
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// identify turns the client-supplied identity into a Participant. Unknown
// roles fall back to participant, a missing user id gets generated.
func (srv *Server) identify(id identity) poker.Participant {
	userID := id.UserID
	if userID == "" {
		userID = uuid.NewString()
	}
	role := poker.RoleParticipant
	if id.Role == string(poker.RoleVisitor) {
		role = poker.RoleVisitor
	}
	return poker.Participant{ID: userID, Name: id.Name, Role: role}
}

// bind attaches the connection to the room and enforces one active connection
// per account: a newer connection for the same user id supersedes the old one.
func (srv *Server) bind(s socketio.Conn, roomID string, user poker.Participant) {
	srv.mu.Lock()
	old := srv.conns[user.ID]
	srv.conns[user.ID] = s
	srv.mu.Unlock()
	if old != nil && old.ID() != s.ID() {
		log.Info().Str("userId", user.ID).Str("sid", old.ID()).Msg("superseding previous connection")
		_ = old.Close()
	}
	s.SetContext(&ConnCtx{UserID: user.ID, Name: user.Name, RoomID: roomID, Role: user.Role})
	s.Join(roomID)
}

func (srv *Server) unbind(userID string, s socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if cur, ok := srv.conns[userID]; ok && cur.ID() == s.ID() {
		delete(srv.conns, userID)
	}
}

// isCurrent reports whether s is still the user's active connection. A
// superseded connection fails this check once bind has installed its
// replacement.
func (srv *Server) isCurrent(userID string, s socketio.Conn) bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	cur, ok := srv.conns[userID]
	return ok && cur.ID() == s.ID()
}

func (srv *Server) leave(io *socketio.Server, s socketio.Conn) {
	ctx := connCtx(s)
	if ctx.UserID == "" {
		return
	}
	// Closing a superseded connection fires OnDisconnect for it; the user is
	// still in the room on their new connection, so only the current
	// connection may trigger the room departure.
	if !srv.isCurrent(ctx.UserID, s) {
		return
	}
	roomID := ctx.RoomID
	if roomID == "" {
		found, ok := srv.Registry.FindUserRoom(ctx.UserID)
		if !ok {
			return
		}
		roomID = found
	}
	res := srv.Registry.LeaveRoom(roomID, ctx.UserID)
	s.Leave(roomID)
	ctx.RoomID = ""
	if res.WasInRoom && !res.RoomDeleted {
		srv.broadcastState(io, roomID)
	}
	log.Info().Str("room", roomID).Str("userId", ctx.UserID).Bool("roomDeleted", res.RoomDeleted).Msg("room:leave")
}

func (srv *Server) broadcastState(io *socketio.Server, roomID string) {
	state, ok := srv.Registry.State(roomID)
	if !ok {
		return
	}
	io.BroadcastToRoom("/", roomID, poker.EventRoomState, state)
}

func (srv *Server) err(s socketio.Conn, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message}
}

func errCode(err error) string {
	switch {
	case errors.Is(err, poker.ErrInvalidRoomID):
		return "invalid_room_id"
	case errors.Is(err, poker.ErrRoomExists):
		return "room_exists"
	case errors.Is(err, poker.ErrRoomNotFound):
		return "room_not_found"
	}
	return "bad_request"
}

func connCtx(s socketio.Conn) *ConnCtx {
	if ctx, ok := s.Context().(*ConnCtx); ok {
		return ctx
	}
	ctx := &ConnCtx{}
	s.SetContext(ctx)
	return ctx
}
