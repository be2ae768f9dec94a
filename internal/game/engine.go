// apps/go-server/internal/game/engine.go
//
// Core game engine for a single Abalone game.
// Responsibilities:
//   - Create fresh games (Black to move, zero scores).
//   - Validate a claimed move against the regenerated legal set.
//   - Apply a move: eject, shift the push chain, move the group, then score
//     and hand over the turn.
//
// State transitions:
//   - Active (no winner) → Active (winner set): no further move applies.
//   - Any state → fresh Active only through NewState.

package game

import (
	"errors"
	"sort"

	"github.com/robalobadob/abalone/apps/go-server/internal/hex"
)

// Rejection reasons. The messages are sent to clients verbatim.
var (
	ErrNotYourTurn = errors.New("Not your turn")
	ErrGameOver    = errors.New("Game is already over")
	ErrNotOwned    = errors.New("Invalid marble selection")
	ErrIllegalMove = errors.New("Invalid move")
)

// NewState returns the opening position with Black to move.
func NewState() State {
	return State{Board: InitialBoard(), Current: Black}
}

// Validate checks a move claimed by mover and returns the canonical
// generated move it matches. Client-supplied pushed cells are never used.
func Validate(s State, claim Move, mover Player) (Move, error) {
	if s.Current != mover {
		return Move{}, ErrNotYourTurn
	}
	if s.Over() {
		return Move{}, ErrGameOver
	}
	if len(claim.Marbles) == 0 {
		return Move{}, ErrNotOwned
	}
	for _, h := range claim.Marbles {
		if occ, ok := s.Board.At(h); !ok || occ != mover {
			return Move{}, ErrNotOwned
		}
	}
	for _, m := range Generate(s.Board, claim.Marbles, mover) {
		if m.Equal(claim) {
			return m, nil
		}
	}
	return Move{}, ErrIllegalMove
}

// Apply executes a generated move for the side to move and returns the
// next state. Once a winner exists it returns s unchanged.
func Apply(s State, m Move) State {
	if s.Over() {
		return s
	}
	mover := s.Current
	next := s // copies the board array
	b := &next.Board

	off := make(map[hex.Hex]bool, len(m.PushedOff))
	for _, h := range m.PushedOff {
		b.set(h, None)
		off[h] = true
	}
	next.Scores.add(mover, len(m.PushedOff))

	for _, from := range descending(m.Pushed, m.Direction) {
		if off[from] {
			continue
		}
		occ, _ := b.At(from)
		b.set(hex.Add(from, m.Direction), occ)
		b.set(from, None)
	}

	for _, from := range descending(m.Marbles, m.Direction) {
		b.set(hex.Add(from, m.Direction), mover)
		b.set(from, None)
	}

	if next.Scores.Of(mover) >= ScoreToWin {
		next.Winner = mover
		return next
	}
	next.Winner = None
	next.Current = mover.Opponent()
	return next
}

// descending orders cells farthest-along-d first so a vacated origin never
// overwrites a destination that has not moved yet.
func descending(cells []hex.Hex, d hex.Hex) []hex.Hex {
	out := append([]hex.Hex(nil), cells...)
	sort.SliceStable(out, func(i, j int) bool { return hex.Dot(out[i], d) > hex.Dot(out[j], d) })
	return out
}
