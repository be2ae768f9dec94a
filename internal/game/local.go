// apps/go-server/internal/game/local.go
//
// Advisory selection bookkeeping for a client-side view of a game.
// A Local wraps the canonical State with the marbles picked so far and the
// moves they allow. None of this is authoritative: a submitted move is
// always re-validated with Validate.

package game

import "github.com/robalobadob/abalone/apps/go-server/internal/hex"

// Local is a State plus a transient selection.
type Local struct {
	State      State
	Selected   []hex.Hex
	ValidMoves []Move
}

// NewLocal starts a fresh game with nothing selected.
func NewLocal() Local { return Local{State: NewState()} }

// Select adds h to the selection if it is the current player's marble and
// the selection stays a straight contiguous line of at most three.
func (l Local) Select(h hex.Hex) Local {
	if l.State.Over() || len(l.Selected) >= MaxSelection {
		return l
	}
	if occ, _ := l.State.Board.At(h); occ != l.State.Current {
		return l
	}
	for _, s := range l.Selected {
		if s == h {
			return l
		}
	}
	sel := append(clone(l.Selected), h)
	if _, ok := normalizeSelection(l.State.Board, sel, l.State.Current); !ok {
		return l
	}
	return l.withSelection(sel)
}

// Deselect removes h. If the remainder is no longer a line the whole
// selection is dropped.
func (l Local) Deselect(h hex.Hex) Local {
	if l.State.Over() {
		return l
	}
	sel := make([]hex.Hex, 0, len(l.Selected))
	for _, s := range l.Selected {
		if s != h {
			sel = append(sel, s)
		}
	}
	if len(sel) > 1 {
		if _, ok := normalizeSelection(l.State.Board, sel, l.State.Current); !ok {
			return l.Clear()
		}
	}
	return l.withSelection(sel)
}

// Clear drops the selection.
func (l Local) Clear() Local {
	l.Selected, l.ValidMoves = nil, nil
	return l
}

// Execute applies m and clears the selection.
func (l Local) Execute(m Move) Local {
	if l.State.Over() {
		return l
	}
	return Local{State: Apply(l.State, m)}
}

// Adopt accepts a server-confirmed snapshot, discarding any speculative
// selection.
func (l Local) Adopt(snap Snapshot) (Local, error) {
	s, err := Adopt(snap)
	if err != nil {
		return l, err
	}
	return Local{State: s}, nil
}

func (l Local) withSelection(sel []hex.Hex) Local {
	l.Selected = sel
	l.ValidMoves = nil
	if len(sel) > 0 {
		l.ValidMoves = Generate(l.State.Board, sel, l.State.Current)
	}
	return l
}
