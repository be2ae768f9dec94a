// apps/go-server/internal/game/types.go
//
// Core type definitions for the Abalone game engine.
// Defines:
//   - Player: marble owner / cell occupant (None, Black, White).
//   - MoveType and Move: a translation of 1–3 marbles, optionally pushing.
//   - Scores and State: canonical cross-turn game state.

package game

import (
	"encoding/json"
	"fmt"

	"github.com/robalobadob/abalone/apps/go-server/internal/hex"
)

// ScoreToWin is the number of ejected marbles that ends the game.
const ScoreToWin = 6

// Player identifies a side. None doubles as the empty-cell occupant.
// On the wire Black is "B", White is "W" and None is null.
type Player uint8

const (
	None Player = iota
	Black
	White
)

// Opponent returns the other side; None has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case Black:
		return White
	case White:
		return Black
	}
	return None
}

func (p Player) String() string {
	switch p {
	case Black:
		return "B"
	case White:
		return "W"
	}
	return ""
}

func (p Player) MarshalJSON() ([]byte, error) {
	if p == None {
		return []byte("null"), nil
	}
	return json.Marshal(p.String())
}

func (p *Player) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		*p = None
		return nil
	}
	v, err := ParsePlayer(*s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePlayer maps "B" / "W" to a side.
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "B":
		return Black, nil
	case "W":
		return White, nil
	}
	return None, fmt.Errorf("unknown player %q", s)
}

// MoveType distinguishes translations along the selection line from
// sideways ones.
type MoveType string

const (
	InLine    MoveType = "inline"
	Broadside MoveType = "broadside"
)

// Move is a fully described translation. Pushed lists the opponent chain
// nearest first; PushedOff is the subset ejected from the board.
type Move struct {
	Type      MoveType  `json:"type"`
	Marbles   []hex.Hex `json:"marbles"`
	Direction hex.Hex   `json:"direction"`
	Pushed    []hex.Hex `json:"pushed,omitempty"`
	PushedOff []hex.Hex `json:"pushedOff,omitempty"`
}

// Equal compares type, direction and the marble set. Pushed cells are
// derived data and do not take part.
func (m Move) Equal(o Move) bool {
	if m.Type != o.Type || m.Direction != o.Direction || len(m.Marbles) != len(o.Marbles) {
		return false
	}
	seen := make(map[hex.Hex]bool, len(m.Marbles))
	for _, h := range m.Marbles {
		seen[h] = true
	}
	if len(seen) != len(m.Marbles) {
		return false
	}
	matched := make(map[hex.Hex]bool, len(o.Marbles))
	for _, h := range o.Marbles {
		if !seen[h] || matched[h] {
			return false
		}
		matched[h] = true
	}
	return true
}

// Scores holds ejected-marble counts per side.
type Scores struct {
	Black int `json:"B"`
	White int `json:"W"`
}

// Of returns p's score.
func (s Scores) Of(p Player) int {
	switch p {
	case Black:
		return s.Black
	case White:
		return s.White
	}
	return 0
}

func (s *Scores) add(p Player, n int) {
	switch p {
	case Black:
		s.Black += n
	case White:
		s.White += n
	}
}

// State is the canonical game state. It is a plain value: copying a State
// copies its board.
type State struct {
	Board   Board
	Current Player
	Scores  Scores
	Winner  Player
}

// Over reports whether a winner has been decided.
func (s State) Over() bool { return s.Winner != None }
