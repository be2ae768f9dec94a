// apps/go-server/internal/room/registry.go
//
// Live room lookup.
// Characteristics:
//   - Rooms keyed by code in a map guarded by an RWMutex.
//   - Rooms remove themselves on destroy; removal only deletes the entry if
//     it still points at the same room.
//   - A periodic sweep destroys idle rooms. It works on a snapshot of the
//     map so rooms closing concurrently are harmless.
//   - Nothing survives a restart.

package room

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Registry struct {
	opts Options

	mu    sync.RWMutex // guards rooms
	rooms map[string]*Room

	newCode func() (string, error)
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:    opts.withDefaults(),
		rooms:   make(map[string]*Room),
		newCode: NewCode,
	}
}

// Create opens a room under a fresh code and seats c as Black.
// room.created is published after the registry lock is released.
func (g *Registry) Create(c Conn) (*Room, Joined, error) {
	r, j, err := g.register(c)
	if err != nil {
		return nil, Joined{}, err
	}
	defer r.mu.Unlock()
	r.announce()
	return r, j, nil
}

// register seats c in a new room and stores it. On success it returns
// with r.mu held, so no joiner can reach the room before it is announced.
func (g *Registry) register(c Conn) (*Room, Joined, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	code, err := g.freeCode()
	if err != nil {
		return nil, Joined{}, err
	}
	r := New(code, g.opts)
	r.onClose = g.remove
	// r is not reachable by anyone else yet, so taking its lock here does
	// not invert the room → registry order.
	r.mu.Lock()
	j, err := r.addPlayer(c)
	if err != nil {
		r.mu.Unlock()
		return nil, Joined{}, err
	}
	g.rooms[code] = r
	log.Info().Str("room", code).Int("rooms", len(g.rooms)).Msg("room registered")
	return r, j, nil
}

func (g *Registry) freeCode() (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := g.newCode()
		if err != nil {
			return "", err
		}
		if _, taken := g.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", ErrNoCode
}

// Get looks a room up by code, ignoring case and surrounding space.
func (g *Registry) Get(code string) (*Room, bool) {
	code = NormalizeCode(code)
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[code]
	return r, ok
}

// NormalizeCode upper-cases and trims a user-typed code.
func NormalizeCode(code string) string { return strings.ToUpper(strings.TrimSpace(code)) }

func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

func (g *Registry) remove(r *Room) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rooms[r.code] == r {
		delete(g.rooms, r.code)
	}
	log.Info().Str("room", r.code).Int("rooms", len(g.rooms)).Msg("room unregistered")
}

func (g *Registry) snapshot() []*Room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		out = append(out, r)
	}
	return out
}

// Sweep destroys every room idle for longer than the idle timeout and
// returns how many it closed.
func (g *Registry) Sweep(now time.Time) int {
	n := 0
	for _, r := range g.snapshot() {
		if r.ExpireIfIdle(now, g.opts.IdleTimeout) {
			n++
		}
	}
	if n > 0 {
		log.Info().Int("expired", n).Msg("idle sweep")
	}
	return n
}

// Run sweeps on every tick until ctx is done.
func (g *Registry) Run(ctx context.Context) {
	t := time.NewTicker(g.opts.SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			g.Sweep(g.opts.Now())
		}
	}
}

// CloseAll destroys every live room with reason.
func (g *Registry) CloseAll(reason string) {
	for _, r := range g.snapshot() {
		r.Destroy(reason)
	}
}
