// apps/go-server/internal/game/snapshot.go
//
// Wire form of State and its inverse.
//
// Shape:
//   {"board": {"q,r": "B"|"W"|null, ... all 61 cells},
//    "currentPlayer": "B"|"W",
//    "scores": {"B": n, "W": n},
//    "winner": "B"|"W"|null}

package game

import (
	"errors"
	"fmt"

	"github.com/robalobadob/abalone/apps/go-server/internal/hex"
)

// Snapshot is the serialized game state exchanged with clients.
type Snapshot struct {
	Board         map[string]Player `json:"board"`
	CurrentPlayer Player            `json:"currentPlayer"`
	Scores        Scores            `json:"scores"`
	Winner        Player            `json:"winner"`
}

// ErrBadSnapshot wraps every reason Adopt refuses a snapshot.
var ErrBadSnapshot = errors.New("invalid game snapshot")

// Snapshot serializes s over all 61 cells.
func (s State) Snapshot() Snapshot {
	board := make(map[string]Player, CellCount)
	for i, h := range cells {
		board[h.Key()] = s.Board[i]
	}
	return Snapshot{
		Board:         board,
		CurrentPlayer: s.Current,
		Scores:        s.Scores,
		Winner:        s.Winner,
	}
}

// Adopt replaces local state wholesale with a server-confirmed snapshot.
// Missing cells are treated as empty; unknown keys are rejected.
func Adopt(snap Snapshot) (State, error) {
	var b Board
	for key, occ := range snap.Board {
		h, err := hex.ParseKey(key)
		if err != nil {
			return State{}, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
		}
		if !hex.OnBoard(h) {
			return State{}, fmt.Errorf("%w: cell %s off board", ErrBadSnapshot, key)
		}
		b.set(h, occ)
	}
	if snap.CurrentPlayer == None {
		return State{}, fmt.Errorf("%w: missing current player", ErrBadSnapshot)
	}
	return State{
		Board:   b,
		Current: snap.CurrentPlayer,
		Scores:  snap.Scores,
		Winner:  snap.Winner,
	}, nil
}
