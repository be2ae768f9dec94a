// apps/go-server/internal/httpserver/ws.go
//
// Websocket dispatcher.
// Each connection gets a session that remembers which room it sits in and
// routes parsed frames:
//   - create_room / join_room: seat the connection (refused if already seated).
//   - reconnect: verify the ticket, then rebind its seat.
//   - execute_move / chat: forwarded to the session's room.
//
// Failures are answered with an error frame to the sender only and leave
// the connection usable.

package httpserver

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/abalone/apps/go-server/internal/protocol"
	"github.com/robalobadob/abalone/apps/go-server/internal/room"
	"github.com/robalobadob/abalone/apps/go-server/internal/transport"
)

const (
	errAlreadyInRoom = "Already in a room"
	errRoomNotFound  = "Room not found"
	errCreateFailed  = "Failed to create room"
	errJoinFailed    = "Failed to join room"
)

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade")
		return
	}
	c := transport.NewClient(conn)
	log.Debug().Str("conn", c.ID()).Str("remote", r.RemoteAddr).Msg("connected")
	c.Run(&session{srv: s})
}

// session is touched only from its connection's read goroutine.
type session struct {
	srv  *Server
	room *room.Room
}

func (ss *session) HandleMessage(c *transport.Client, raw []byte) {
	msg, err := protocol.Parse(raw)
	if err != nil {
		c.Send(protocol.ErrorMsg(err.Error()))
		return
	}

	switch msg.Type {
	case protocol.CreateRoom:
		if ss.room != nil {
			c.Send(protocol.ErrorMsg(errAlreadyInRoom))
			return
		}
		rm, _, err := ss.srv.deps.Rooms.Create(c)
		if err != nil {
			log.Error().Err(err).Msg("create room")
			c.Send(protocol.ErrorMsg(errCreateFailed))
			return
		}
		ss.room = rm

	case protocol.JoinRoom:
		if ss.room != nil {
			c.Send(protocol.ErrorMsg(errAlreadyInRoom))
			return
		}
		rm, ok := ss.srv.deps.Rooms.Get(msg.Code)
		if !ok {
			c.Send(protocol.ErrorMsg(errRoomNotFound))
			return
		}
		if _, err := rm.AddPlayer(c); err != nil {
			c.Send(protocol.ErrorMsg(lifecycleReason(err, errJoinFailed)))
			return
		}
		ss.room = rm

	case protocol.Reconnect:
		if ss.room != nil {
			c.Send(protocol.ErrorMsg(errAlreadyInRoom))
			return
		}
		rm, ok := ss.srv.deps.Rooms.Get(msg.Code)
		if !ok {
			c.Send(protocol.ErrorMsg(errRoomNotFound))
			return
		}
		claims, err := ss.srv.deps.Tickets.Verify(msg.PlayerID)
		if err != nil || room.NormalizeCode(claims.Room) != rm.Code() {
			c.Send(protocol.ErrorMsg(room.ErrUnknownPlayer.Error()))
			return
		}
		if _, err := rm.Reconnect(c, msg.PlayerID); err != nil {
			c.Send(protocol.ErrorMsg(lifecycleReason(err, room.ErrUnknownPlayer.Error())))
			return
		}
		ss.room = rm

	case protocol.ExecuteMove:
		if ss.room == nil {
			c.Send(protocol.ErrorMsg(room.ErrNotSeated.Error()))
			return
		}
		ss.room.SubmitMove(c, msg.Move)

	case protocol.Chat:
		if ss.room == nil {
			c.Send(protocol.ErrorMsg(room.ErrNotSeated.Error()))
			return
		}
		ss.room.Chat(c, msg.Text)
	}
}

func (ss *session) HandleClose(c *transport.Client) {
	if ss.room != nil {
		ss.room.Disconnect(c)
	}
	log.Debug().Str("conn", c.ID()).Msg("disconnected")
}

// lifecycleReason maps room errors to their client text.
func lifecycleReason(err error, fallback string) string {
	for _, known := range []error{room.ErrRoomFull, room.ErrClosed, room.ErrUnknownPlayer} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	log.Warn().Err(err).Msg("room lifecycle")
	return fallback
}
