// apps/go-server/internal/room/room.go
//
// One two-player game session.
// Responsibilities:
//   - Seat players (first Black, second White) and hand out reconnect tickets.
//   - Start the game once both seats are filled.
//   - Track disconnects with a per-seat grace timer; rebind on reconnect.
//   - Authorize and apply moves, relay chat.
//   - Tear down on grace expiry, post-win delay, idleness or shutdown.
//
// Concurrency:
//   - mu guards every field. Exported methods and timer callbacks take it,
//     so all room events are serialized.
//   - Timer callbacks carry the seat sequence number they were armed with
//     and do nothing if it changed or the room is closed.
//   - Lock order is room → registry (onClose runs under mu).
//   - Conn.Send never blocks and Conn.Close never calls back into the room
//     synchronously.
//
// States: Empty → Waiting (1 seat) → Started (2 seats) → Closed.

package room

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/abalone/apps/go-server/internal/events"
	"github.com/robalobadob/abalone/apps/go-server/internal/game"
	"github.com/robalobadob/abalone/apps/go-server/internal/history"
	"github.com/robalobadob/abalone/apps/go-server/internal/protocol"
	"github.com/robalobadob/abalone/apps/go-server/internal/ticket"
)

// Close reasons sent in room_closed.
const (
	ReasonDisconnected = "Opponent disconnected"
	ReasonGameOver     = "Game over"
	ReasonIdle         = "Room expired due to inactivity"
	ReasonShutdown     = "Server shutting down"
)

// Client-facing lifecycle errors.
var (
	ErrRoomFull      = errors.New("Room is full")
	ErrClosed        = errors.New("Room not found")
	ErrUnknownPlayer = errors.New("Reconnection failed")
	ErrNotSeated     = errors.New("Not in a room")
	ErrNotStarted    = errors.New("Game has not started")
)

// Conn is a client connection as seen by a room.
type Conn interface {
	ID() string
	Send(protocol.Message)
	Close()
}

// Archive stores finished games.
type Archive interface {
	Record(ctx context.Context, g history.Game) error
}

// Joined describes a freshly taken seat.
type Joined struct {
	Player   game.Player
	PlayerID string
}

// Status is the public summary served over HTTP.
type Status struct {
	Code      string `json:"code"`
	Players   int    `json:"players"`
	Connected int    `json:"connected"`
	Started   bool   `json:"started"`
}

type seat struct {
	color  game.Player
	digest [32]byte
	conn   Conn // nil while disconnected
	grace  *time.Timer
	seq    uint64
}

// Room is safe for concurrent use.
type Room struct {
	code string
	opts Options

	mu           sync.Mutex
	seats        []*seat
	state        *game.State // nil until both seats are filled
	startedAt    time.Time
	moves        int
	lastActivity time.Time
	postWin      *time.Timer
	closed       bool
	onClose      func(*Room)
}

// New returns an empty room. Zero option fields take their defaults.
func New(code string, opts Options) *Room {
	opts = opts.withDefaults()
	return &Room{code: code, opts: opts, lastActivity: opts.Now()}
}

func (r *Room) Code() string { return r.code }

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seats)
}

func (r *Room) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state != nil
}

func (r *Room) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}

// Snapshot returns the serialized game, or false before the game starts.
func (r *Room) Snapshot() (game.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return game.Snapshot{}, false
	}
	return r.state.Snapshot(), true
}

func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := Status{Code: r.code, Players: len(r.seats), Started: r.state != nil}
	for _, s := range r.seats {
		if s.conn != nil {
			st.Connected++
		}
	}
	return st
}

// AddPlayer seats c. The first seat gets room_created, the second gets
// room_joined; then the opponent is told and both receive game_start.
func (r *Room) AddPlayer(c Conn) (Joined, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, err := r.addPlayer(c)
	if err == nil && j.Player == game.Black {
		r.announce()
	}
	return j, err
}

// addPlayer seats c without publishing room.created. Requires r.mu.
func (r *Room) addPlayer(c Conn) (Joined, error) {
	if r.closed {
		return Joined{}, ErrClosed
	}
	if len(r.seats) >= 2 {
		return Joined{}, ErrRoomFull
	}

	color := game.Black
	if len(r.seats) == 1 {
		color = game.White
	}
	tok, err := r.opts.Tickets.Issue(r.code, color)
	if err != nil {
		return Joined{}, err
	}
	r.touch()
	r.seats = append(r.seats, &seat{color: color, digest: ticket.Digest(tok), conn: c})

	if color == game.Black {
		c.Send(protocol.RoomCreatedMsg(r.code, tok))
		return Joined{Player: color, PlayerID: tok}, nil
	}

	c.Send(protocol.RoomJoinedMsg(r.code, tok, color))
	r.sendTo(r.seats[0], protocol.OpponentJoinedMsg())
	r.start()
	log.Info().Str("room", r.code).Msg("player joined (2/2)")
	return Joined{Player: color, PlayerID: tok}, nil
}

// announce publishes room.created. Requires r.mu.
func (r *Room) announce() {
	r.publish(events.Event{Kind: events.RoomCreated})
	log.Info().Str("room", r.code).Msg("room created")
}

func (r *Room) start() {
	s := r.opts.Initial
	r.state = &s
	r.startedAt = r.opts.Now()
	for _, st := range r.seats {
		r.sendTo(st, protocol.GameStartMsg(st.color, s))
	}
	r.publish(events.Event{Kind: events.RoomStarted})
}

// Reconnect rebinds the seat holding playerID to c. A connection still
// bound to that seat is closed.
func (r *Room) Reconnect(c Conn, playerID string) (game.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return game.None, ErrClosed
	}
	st := r.seatByTicket(playerID)
	if st == nil {
		return game.None, ErrUnknownPlayer
	}

	r.touch()
	r.cancelGrace(st)
	if old := st.conn; old != nil && old != c {
		old.Close()
	}
	st.conn = c

	if opp := r.opponent(st); opp != nil {
		r.sendTo(opp, protocol.OpponentReconnectedMsg())
	}
	if r.state != nil {
		c.Send(protocol.GameStartMsg(st.color, *r.state))
	}
	log.Info().Str("room", r.code).Stringer("player", st.color).Msg("player reconnected")
	return st.color, nil
}

// Disconnect unbinds c and arms its seat's grace timer. Unknown or stale
// connections are ignored.
func (r *Room) Disconnect(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	st := r.seatByConn(c)
	if st == nil {
		return
	}

	r.touch()
	st.conn = nil
	if opp := r.opponent(st); opp != nil {
		r.sendTo(opp, protocol.OpponentDisconnectedMsg())
	}

	r.cancelGrace(st)
	seq := st.seq
	st.grace = time.AfterFunc(r.opts.GracePeriod, func() { r.graceExpired(st, seq) })
	log.Info().Str("room", r.code).Stringer("player", st.color).Msg("player disconnected")
}

func (r *Room) graceExpired(st *seat, seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || st.seq != seq || st.conn != nil {
		return
	}
	r.destroy(ReasonDisconnected)
}

// SubmitMove validates claim for the sender's color and, if legal,
// applies the regenerated move and broadcasts the new state.
func (r *Room) SubmitMove(c Conn, claim game.Move) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	st := r.seatByConn(c)
	if st == nil {
		c.Send(protocol.ErrorMsg(ErrNotSeated.Error()))
		return
	}
	r.touch()
	if r.state == nil {
		c.Send(protocol.ErrorMsg(ErrNotStarted.Error()))
		return
	}

	m, err := game.Validate(*r.state, claim, st.color)
	if err != nil {
		c.Send(protocol.MoveRejectedMsg(err.Error()))
		return
	}
	next := game.Apply(*r.state, m)
	r.state = &next
	r.moves++
	r.broadcast(protocol.GameStateMsg(next))

	if next.Over() {
		r.finish(next)
	}
}

func (r *Room) finish(s game.State) {
	log.Info().Str("room", r.code).Stringer("winner", s.Winner).
		Int("black", s.Scores.Black).Int("white", s.Scores.White).Msg("game over")

	scores := s.Scores
	r.publish(events.Event{Kind: events.GameOver, Winner: s.Winner, Scores: &scores})
	r.postWin = time.AfterFunc(r.opts.PostWinDelay, func() { r.Destroy(ReasonGameOver) })

	if r.opts.Archive == nil {
		return
	}
	g := history.Game{
		Room:       r.code,
		Winner:     s.Winner,
		Scores:     s.Scores,
		Moves:      r.moves,
		StartedAt:  r.startedAt,
		FinishedAt: r.opts.Now(),
	}
	go func(a Archive) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Record(ctx, g); err != nil {
			log.Warn().Err(err).Str("room", g.Room).Msg("archive game")
		}
	}(r.opts.Archive)
}

// Chat trims text, caps it and relays it to both seats. Blank messages are
// dropped.
func (r *Room) Chat(c Conn, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	st := r.seatByConn(c)
	if st == nil {
		c.Send(protocol.ErrorMsg(ErrNotSeated.Error()))
		return
	}
	r.touch()

	text = capRunes(strings.TrimSpace(text), r.opts.ChatMaxLen)
	if text == "" {
		return
	}
	r.broadcast(protocol.ChatMsg(text, st.color, r.opts.Now()))
}

// ExpireIfIdle destroys the room if nothing happened for longer than
// window and reports whether it did.
func (r *Room) ExpireIfIdle(now time.Time, window time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || now.Sub(r.lastActivity) <= window {
		return false
	}
	r.destroy(ReasonIdle)
	return true
}

// Destroy closes the room. Calling it again is a no-op.
func (r *Room) Destroy(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroy(reason)
}

func (r *Room) destroy(reason string) {
	if r.closed {
		return
	}
	r.closed = true
	if r.postWin != nil {
		r.postWin.Stop()
	}
	for _, st := range r.seats {
		r.cancelGrace(st)
		if st.conn != nil {
			st.conn.Send(protocol.RoomClosedMsg(reason))
			st.conn.Close()
			st.conn = nil
		}
	}
	r.publish(events.Event{Kind: events.RoomClosed, Reason: reason})
	log.Info().Str("room", r.code).Str("reason", reason).Msg("room destroyed")
	if r.onClose != nil {
		r.onClose(r)
	}
}

// ----------------------------- helpers -------------------------------------

func (r *Room) touch() { r.lastActivity = r.opts.Now() }

// cancelGrace stops a pending grace timer and invalidates any callback
// already in flight.
func (r *Room) cancelGrace(st *seat) {
	st.seq++
	if st.grace != nil {
		st.grace.Stop()
		st.grace = nil
	}
}

func (r *Room) seatByConn(c Conn) *seat {
	for _, st := range r.seats {
		if st.conn != nil && st.conn == c {
			return st
		}
	}
	return nil
}

func (r *Room) seatByTicket(tok string) *seat {
	if tok == "" {
		return nil
	}
	for _, st := range r.seats {
		if ticket.Match(tok, st.digest) {
			return st
		}
	}
	return nil
}

func (r *Room) opponent(st *seat) *seat {
	for _, o := range r.seats {
		if o != st {
			return o
		}
	}
	return nil
}

func (r *Room) sendTo(st *seat, m protocol.Message) {
	if st.conn != nil {
		st.conn.Send(m)
	}
}

func (r *Room) broadcast(m protocol.Message) {
	for _, st := range r.seats {
		r.sendTo(st, m)
	}
}

func (r *Room) publish(e events.Event) {
	e.Room = r.code
	e.At = r.opts.Now()
	if err := r.opts.Events.Publish(e); err != nil {
		log.Warn().Err(err).Str("room", r.code).Str("event", string(e.Kind)).Msg("publish event")
	}
}

func capRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
