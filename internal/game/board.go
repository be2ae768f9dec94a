// apps/go-server/internal/game/board.go
//
// Board model: the 61 legal cells and their occupants.
//
// Notes:
//   - Board is a fixed-size array so that assignment copies it. The engine
//     builds a new Board per applied move; nothing outside this package can
//     set a cell.
//   - cells is the fixed enumeration table (q outer, r inner) and also the
//     index order of Board.

package game

import "github.com/robalobadob/abalone/apps/go-server/internal/hex"

// CellCount is the number of legal cells on a radius-4 board.
const CellCount = 61

var (
	cells     [CellCount]hex.Hex
	cellIndex = make(map[hex.Hex]int, CellCount)
)

func init() {
	i := 0
	for q := -hex.Radius; q <= hex.Radius; q++ {
		for r := -hex.Radius; r <= hex.Radius; r++ {
			h := hex.Hex{Q: q, R: r}
			if !hex.OnBoard(h) {
				continue
			}
			cells[i] = h
			cellIndex[h] = i
			i++
		}
	}
}

// Cells returns the legal cells in enumeration order.
func Cells() []hex.Hex { return append([]hex.Hex(nil), cells[:]...) }

// Board maps every legal cell to its occupant (None when empty).
type Board [CellCount]Player

// At returns the occupant of h; ok is false for off-board cells.
func (b Board) At(h hex.Hex) (p Player, ok bool) {
	i, ok := cellIndex[h]
	if !ok {
		return None, false
	}
	return b[i], true
}

// Count returns how many marbles p has on the board.
func (b Board) Count(p Player) int {
	n := 0
	for _, c := range b {
		if c == p {
			n++
		}
	}
	return n
}

// set writes an occupant; off-board cells are ignored.
func (b *Board) set(h hex.Hex, p Player) {
	if i, ok := cellIndex[h]; ok {
		b[i] = p
	}
}

// InitialBoard returns the standard opening: two 14-marble wedges.
func InitialBoard() Board {
	var b Board
	rows := []struct {
		r, qFrom, qTo int
		p             Player
	}{
		{-4, 0, 4, Black},
		{-3, -1, 4, Black},
		{-2, 0, 2, Black},
		{4, -4, 0, White},
		{3, -4, 1, White},
		{2, -2, 0, White},
	}
	for _, row := range rows {
		for q := row.qFrom; q <= row.qTo; q++ {
			b.set(hex.Hex{Q: q, R: row.r}, row.p)
		}
	}
	return b
}

// BoardOf builds a board holding exactly the given placements. Off-board
// cells and None entries are ignored.
func BoardOf(placements map[hex.Hex]Player) Board {
	var b Board
	for h, p := range placements {
		b.set(h, p)
	}
	return b
}
