package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/abalone/apps/go-server/internal/hex"
)

func h(q, r int) hex.Hex { return hex.Hex{Q: q, R: r} }

func place(black, white []hex.Hex) Board {
	m := map[hex.Hex]Player{}
	for _, c := range black {
		m[c] = Black
	}
	for _, c := range white {
		m[c] = White
	}
	return BoardOf(m)
}

func movesIn(moves []Move, d hex.Hex) []Move {
	var out []Move
	for _, m := range moves {
		if m.Direction == d {
			out = append(out, m)
		}
	}
	return out
}

func TestInitialBoard(t *testing.T) {
	b := InitialBoard()
	assert.Equal(t, 14, b.Count(Black))
	assert.Equal(t, 14, b.Count(White))
	assert.Equal(t, CellCount-28, b.Count(None))

	for _, c := range []hex.Hex{h(0, -4), h(4, -4), h(-1, -3), h(4, -3), h(0, -2), h(2, -2)} {
		occ, ok := b.At(c)
		require.True(t, ok)
		assert.Equal(t, Black, occ, c.String())
	}
	for _, c := range []hex.Hex{h(-4, 4), h(0, 4), h(-4, 3), h(1, 3), h(-2, 2), h(0, 2)} {
		occ, _ := b.At(c)
		assert.Equal(t, White, occ, c.String())
	}
	_, ok := b.At(h(5, 0))
	assert.False(t, ok)
	assert.Len(t, Cells(), CellCount)
}

func TestSingleMarbleStepsIntoEveryEmptyNeighbour(t *testing.T) {
	b := InitialBoard()
	for _, c := range Cells() {
		if occ, _ := b.At(c); occ != Black {
			continue
		}
		moves := Generate(b, []hex.Hex{c}, Black)
		for _, d := range hex.Directions {
			got := movesIn(moves, d)
			occ, on := b.At(hex.Add(c, d))
			if on && occ == None {
				require.Len(t, got, 1, "%v dir %v", c, d)
				assert.Equal(t, InLine, got[0].Type)
				assert.Empty(t, got[0].Pushed)
				assert.Empty(t, got[0].PushedOff)
				assert.Equal(t, []hex.Hex{c}, got[0].Marbles)
			} else {
				assert.Empty(t, got, "%v dir %v", c, d)
			}
		}
	}
}

func TestSingleMarbleNeverPushes(t *testing.T) {
	b := place([]hex.Hex{h(0, 0)}, []hex.Hex{h(1, 0)})
	assert.Empty(t, movesIn(Generate(b, []hex.Hex{h(0, 0)}, Black), h(1, 0)))
}

func TestInLinePushes(t *testing.T) {
	east := h(1, 0)
	tests := []struct {
		name      string
		black     []hex.Hex
		white     []hex.Hex
		legal     bool
		pushed    []hex.Hex
		pushedOff []hex.Hex
	}{
		{
			name:  "free step",
			black: []hex.Hex{h(-1, 0), h(0, 0)},
			legal: true,
		},
		{
			name:   "two push one",
			black:  []hex.Hex{h(-1, 0), h(0, 0)},
			white:  []hex.Hex{h(1, 0)},
			legal:  true,
			pushed: []hex.Hex{h(1, 0)},
		},
		{
			name:   "three push two into space",
			black:  []hex.Hex{h(-2, 0), h(-1, 0), h(0, 0)},
			white:  []hex.Hex{h(1, 0), h(2, 0)},
			legal:  true,
			pushed: []hex.Hex{h(1, 0), h(2, 0)},
		},
		{
			name:      "three push two off the edge",
			black:     []hex.Hex{h(0, 0), h(1, 0), h(2, 0)},
			white:     []hex.Hex{h(3, 0), h(4, 0)},
			legal:     true,
			pushed:    []hex.Hex{h(3, 0), h(4, 0)},
			pushedOff: []hex.Hex{h(4, 0)},
		},
		{
			name:      "two push one off the edge",
			black:     []hex.Hex{h(2, 0), h(3, 0)},
			white:     []hex.Hex{h(4, 0)},
			legal:     true,
			pushed:    []hex.Hex{h(4, 0)},
			pushedOff: []hex.Hex{h(4, 0)},
		},
		{
			name:  "two against two",
			black: []hex.Hex{h(-1, 0), h(0, 0)},
			white: []hex.Hex{h(1, 0), h(2, 0)},
		},
		{
			name:  "two against three",
			black: []hex.Hex{h(-2, 0), h(-1, 0)},
			white: []hex.Hex{h(0, 0), h(1, 0), h(2, 0)},
		},
		{
			name:  "three against three",
			black: []hex.Hex{h(-3, 0), h(-2, 0), h(-1, 0)},
			white: []hex.Hex{h(0, 0), h(1, 0), h(2, 0)},
		},
		{
			name:  "blocked by own marble",
			black: []hex.Hex{h(-1, 0), h(0, 0), h(1, 0)},
		},
		{
			name:  "sandwiched opponent",
			black: []hex.Hex{h(-2, 0), h(-1, 0), h(0, 0), h(2, 0)},
			white: []hex.Hex{h(1, 0)},
		},
		{
			name:  "opponents backed by own marble",
			black: []hex.Hex{h(-3, 0), h(-2, 0), h(-1, 0), h(2, 0)},
			white: []hex.Hex{h(0, 0), h(1, 0)},
		},
		{
			name:  "own marbles cannot leave the board",
			black: []hex.Hex{h(3, 0), h(4, 0)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := place(tt.black, tt.white)
			sel := tt.black
			if len(sel) > 3 {
				sel = sel[:3]
			}
			if tt.name == "blocked by own marble" {
				sel = sel[:2]
			}
			got := movesIn(Generate(b, sel, Black), east)
			if !tt.legal {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			m := got[0]
			assert.Equal(t, InLine, m.Type)
			assert.Equal(t, tt.pushed, m.Pushed)
			assert.Equal(t, tt.pushedOff, m.PushedOff)
		})
	}
}

func TestInLineBackwardsMovesRearFirst(t *testing.T) {
	b := place([]hex.Hex{h(0, 0), h(1, 0), h(2, 0)}, []hex.Hex{h(-1, 0)})
	got := movesIn(Generate(b, []hex.Hex{h(2, 0), h(0, 0), h(1, 0)}, Black), h(-1, 0))
	require.Len(t, got, 1)
	assert.Equal(t, []hex.Hex{h(-1, 0)}, got[0].Pushed)
	assert.Equal(t, []hex.Hex{h(0, 0), h(1, 0), h(2, 0)}, got[0].Marbles)
}

func TestBroadside(t *testing.T) {
	pair := []hex.Hex{h(0, 0), h(1, 0)}

	b := place(pair, nil)
	got := movesIn(Generate(b, pair, Black), h(0, 1))
	require.Len(t, got, 1)
	assert.Equal(t, Broadside, got[0].Type)
	assert.Empty(t, got[0].Pushed)

	blocked := place(pair, []hex.Hex{h(1, 1)})
	assert.Empty(t, movesIn(Generate(blocked, pair, Black), h(0, 1)))

	ownBlocked := place(append(pair, h(0, 1)), nil)
	assert.Empty(t, movesIn(Generate(ownBlocked, pair, Black), h(0, 1)))

	edge := []hex.Hex{h(-4, 4), h(-3, 4)}
	assert.Empty(t, movesIn(Generate(place(edge, nil), edge, Black), h(0, 1)))

	// An open pair in the middle has 2 in-line and 4 broadside moves.
	all := Generate(b, pair, Black)
	var inline, side int
	for _, m := range all {
		if m.Type == InLine {
			inline++
		} else {
			side++
		}
	}
	assert.Equal(t, 2, inline)
	assert.Equal(t, 4, side)
}

func TestInvalidSelectionsYieldNothing(t *testing.T) {
	b := place([]hex.Hex{h(0, 0), h(1, 0), h(2, 0), h(3, 0), h(1, 1)}, []hex.Hex{h(-1, 0)})
	tests := map[string][]hex.Hex{
		"empty":          nil,
		"four":           {h(0, 0), h(1, 0), h(2, 0), h(3, 0)},
		"gap":            {h(0, 0), h(2, 0)},
		"bent":           {h(0, 0), h(1, 0), h(1, 1)},
		"duplicate":      {h(0, 0), h(0, 0)},
		"opponent":       {h(-1, 0)},
		"mixed":          {h(-1, 0), h(0, 0)},
		"empty cell":     {h(0, 2)},
		"off board":      {h(5, 0)},
		"middle omitted": {h(1, 0), h(3, 0)},
	}
	for name, sel := range tests {
		assert.Empty(t, Generate(b, sel, Black), name)
	}
	assert.Empty(t, Generate(b, []hex.Hex{h(0, 0)}, None))
}

func TestGenerateIsDeterministic(t *testing.T) {
	b := InitialBoard()
	sel := []hex.Hex{h(0, -2), h(1, -2), h(2, -2)}
	first := Generate(b, sel, Black)
	require.NotEmpty(t, first)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Generate(b, sel, Black))
	}
	// Selection order does not matter.
	assert.Equal(t, first, Generate(b, []hex.Hex{h(2, -2), h(0, -2), h(1, -2)}, Black))
}

func TestMoveEqual(t *testing.T) {
	a := Move{Type: InLine, Marbles: []hex.Hex{h(0, 0), h(1, 0)}, Direction: h(1, 0)}
	assert.True(t, a.Equal(Move{Type: InLine, Marbles: []hex.Hex{h(1, 0), h(0, 0)}, Direction: h(1, 0)}))
	assert.True(t, a.Equal(Move{Type: InLine, Marbles: []hex.Hex{h(0, 0), h(1, 0)}, Direction: h(1, 0), Pushed: []hex.Hex{h(9, 9)}}))
	assert.False(t, a.Equal(Move{Type: Broadside, Marbles: a.Marbles, Direction: h(1, 0)}))
	assert.False(t, a.Equal(Move{Type: InLine, Marbles: a.Marbles, Direction: h(-1, 0)}))
	assert.False(t, a.Equal(Move{Type: InLine, Marbles: []hex.Hex{h(0, 0), h(0, 0)}, Direction: h(1, 0)}))
	assert.False(t, a.Equal(Move{Type: InLine, Marbles: []hex.Hex{h(0, 0)}, Direction: h(1, 0)}))
}
