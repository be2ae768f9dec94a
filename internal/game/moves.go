// apps/go-server/internal/game/moves.go
//
// Move generation for a given selection.
// Responsibilities:
//   - Single marbles: one step into any empty neighbour.
//   - Lines of 2–3, in-line: free step, or a push (sumito) against a shorter
//     opponent chain that has room behind it or is at the edge.
//   - Lines of 2–3, broadside: every destination on-board and empty.
//
// Notes:
//   - Projection on the move direction orders the group (front marble =
//     max projection) and walks the push chain until the first cell that is
//     not an opponent marble.
//   - An invalid selection yields no moves rather than an error.
//   - Output is deterministic: directions in hex.Directions order, in-line
//     before broadside, marbles sorted along the selection line.

package game

import "github.com/robalobadob/abalone/apps/go-server/internal/hex"

// MaxSelection is the largest group that can move together.
const MaxSelection = 3

// Generate returns every legal move of the selected group for mover.
func Generate(b Board, selection []hex.Hex, mover Player) []Move {
	line, ok := normalizeSelection(b, selection, mover)
	if !ok {
		return nil
	}

	var moves []Move
	for _, d := range hex.Directions {
		if len(line.marbles) == 1 {
			if m, ok := singleStep(b, line.marbles[0], d); ok {
				moves = append(moves, m)
			}
			continue
		}
		if hex.Parallel(d, line.dir) {
			if m, ok := inLine(b, line.marbles, d, mover); ok {
				moves = append(moves, m)
			}
			continue
		}
		if m, ok := broadside(b, line.marbles, d); ok {
			moves = append(moves, m)
		}
	}
	return moves
}

// group is a validated selection ordered along its own line.
type group struct {
	marbles []hex.Hex
	dir     hex.Hex // zero for a single marble
}

// normalizeSelection checks size, ownership, distinctness, collinearity
// and contiguity, and orders the marbles along the line.
func normalizeSelection(b Board, selection []hex.Hex, mover Player) (group, bool) {
	if len(selection) == 0 || len(selection) > MaxSelection || mover == None {
		return group{}, false
	}
	seen := make(map[hex.Hex]bool, len(selection))
	for _, h := range selection {
		if occ, ok := b.At(h); !ok || occ != mover || seen[h] {
			return group{}, false
		}
		seen[h] = true
	}
	if len(selection) == 1 {
		return group{marbles: []hex.Hex{selection[0]}}, true
	}

	dir, ok := hex.LineDirection(selection)
	if !ok {
		return group{}, false
	}
	// Orient the line the same way whatever order the cells came in.
	if dir == hex.Directions[3] || dir == hex.Directions[4] || dir == hex.Directions[5] {
		dir = hex.Neg(dir)
	}
	sorted := hex.SortAlong(selection, dir)
	if !hex.Contiguous(sorted) {
		return group{}, false
	}
	return group{marbles: sorted, dir: dir}, true
}

func singleStep(b Board, from, d hex.Hex) (Move, bool) {
	if occ, ok := b.At(hex.Add(from, d)); !ok || occ != None {
		return Move{}, false
	}
	return Move{Type: InLine, Marbles: []hex.Hex{from}, Direction: d}, true
}

func inLine(b Board, marbles []hex.Hex, d hex.Hex, mover Player) (Move, bool) {
	front := leadMarble(marbles, d)
	ahead := hex.Add(front, d)

	occ, ok := b.At(ahead)
	switch {
	case !ok, occ == mover:
		return Move{}, false
	case occ == None:
		return Move{Type: InLine, Marbles: clone(marbles), Direction: d}, true
	}

	chain := opponentChain(b, ahead, d, mover.Opponent())
	if len(marbles) <= len(chain) {
		return Move{}, false
	}

	last := chain[len(chain)-1]
	m := Move{Type: InLine, Marbles: clone(marbles), Direction: d, Pushed: chain}
	behind, ok := b.At(hex.Add(last, d))
	switch {
	case !ok:
		m.PushedOff = []hex.Hex{last}
	case behind != None:
		return Move{}, false
	}
	return m, true
}

func broadside(b Board, marbles []hex.Hex, d hex.Hex) (Move, bool) {
	for _, h := range marbles {
		if occ, ok := b.At(hex.Add(h, d)); !ok || occ != None {
			return Move{}, false
		}
	}
	return Move{Type: Broadside, Marbles: clone(marbles), Direction: d}, true
}

// leadMarble returns the marble with the greatest projection on d.
func leadMarble(marbles []hex.Hex, d hex.Hex) hex.Hex {
	best := marbles[0]
	for _, h := range marbles[1:] {
		if hex.Dot(h, d) > hex.Dot(best, d) {
			best = h
		}
	}
	return best
}

// opponentChain walks from start along d while cells hold opp.
func opponentChain(b Board, start, d hex.Hex, opp Player) []hex.Hex {
	var chain []hex.Hex
	for pos := start; ; pos = hex.Add(pos, d) {
		if occ, ok := b.At(pos); !ok || occ != opp {
			return chain
		}
		chain = append(chain, pos)
	}
}

func clone(hs []hex.Hex) []hex.Hex { return append([]hex.Hex(nil), hs...) }
