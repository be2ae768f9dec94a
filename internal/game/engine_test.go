package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/abalone/apps/go-server/internal/hex"
)

func TestNewState(t *testing.T) {
	s := NewState()
	assert.Equal(t, Black, s.Current)
	assert.Equal(t, Scores{}, s.Scores)
	assert.Equal(t, None, s.Winner)
	assert.Equal(t, InitialBoard(), s.Board)
}

func TestOpeningWhitePairStepsTowardCentre(t *testing.T) {
	s := NewState()
	s.Current = White
	pair := []hex.Hex{h(-1, 2), h(0, 2)}
	up := h(0, -1)

	got := movesIn(Generate(s.Board, pair, White), up)
	require.Len(t, got, 1)
	// The pair lies along (1,0), so stepping along (0,-1) is sideways.
	assert.Equal(t, Broadside, got[0].Type)
	assert.Empty(t, got[0].Pushed)
	assert.Empty(t, got[0].PushedOff)

	next := Apply(s, got[0])
	for _, c := range []hex.Hex{h(-1, 1), h(0, 1)} {
		occ, _ := next.Board.At(c)
		assert.Equal(t, White, occ, c.String())
	}
	for _, c := range pair {
		occ, _ := next.Board.At(c)
		assert.Equal(t, None, occ, c.String())
	}
	assert.Equal(t, Scores{}, next.Scores)
	assert.Equal(t, None, next.Winner)
	assert.Equal(t, Black, next.Current)
	assert.Equal(t, 14, next.Board.Count(White))

	// The previous state keeps its own board.
	occ, _ := s.Board.At(h(-1, 2))
	assert.Equal(t, White, occ)
}

func TestApplyInLineShiftsWholeGroup(t *testing.T) {
	s := State{
		Board:   place([]hex.Hex{h(-2, 0), h(-1, 0), h(0, 0)}, []hex.Hex{h(1, 0), h(2, 0)}),
		Current: Black,
	}
	m := movesIn(Generate(s.Board, []hex.Hex{h(-2, 0), h(-1, 0), h(0, 0)}, Black), h(1, 0))
	require.Len(t, m, 1)

	next := Apply(s, m[0])
	want := place([]hex.Hex{h(-1, 0), h(0, 0), h(1, 0)}, []hex.Hex{h(2, 0), h(3, 0)})
	assert.Equal(t, want, next.Board)
	assert.Equal(t, White, next.Current)
	assert.Equal(t, 0, next.Scores.Black)
}

func TestApplyPushOffScores(t *testing.T) {
	black := []hex.Hex{h(1, 0), h(2, 0), h(3, 0)}
	s := State{Board: place(black, []hex.Hex{h(4, 0)}), Current: Black}
	m := movesIn(Generate(s.Board, black[1:], Black), h(1, 0))
	require.Len(t, m, 1)
	require.Equal(t, []hex.Hex{h(4, 0)}, m[0].PushedOff)

	next := Apply(s, m[0])
	assert.Equal(t, 0, next.Board.Count(White))
	occ, _ := next.Board.At(h(4, 0))
	assert.Equal(t, Black, occ, "front marble takes the edge cell")
	occ, _ = next.Board.At(h(2, 0))
	assert.Equal(t, None, occ)
	assert.Equal(t, 1, next.Scores.Black)
	assert.Equal(t, White, next.Current)
}

func TestThreeVersusTwoAtTheEdge(t *testing.T) {
	black := []hex.Hex{h(0, 0), h(1, 0), h(2, 0)}
	white := []hex.Hex{h(3, 0), h(4, 0)}
	s := State{Board: place(black, white), Current: Black, Scores: Scores{Black: 1}}

	m := movesIn(Generate(s.Board, black, Black), h(1, 0))
	require.Len(t, m, 1)
	assert.Equal(t, white, m[0].Pushed)
	assert.Equal(t, []hex.Hex{h(4, 0)}, m[0].PushedOff)

	next := Apply(s, m[0])
	assert.Equal(t, 2, next.Scores.Black)
	assert.Equal(t, 1, next.Board.Count(White))
	occ, _ := next.Board.At(h(4, 0))
	assert.Equal(t, White, occ, "second white marble shifts onto the edge cell")
	occ, _ = next.Board.At(h(3, 0))
	assert.Equal(t, Black, occ)
	assert.Equal(t, None, next.Winner)
	assert.Equal(t, White, next.Current)
}

func TestApplyWinningPushKeepsTurn(t *testing.T) {
	black := []hex.Hex{h(2, 0), h(3, 0)}
	s := State{Board: place(black, []hex.Hex{h(4, 0)}), Current: Black, Scores: Scores{Black: 5, White: 2}}
	m := movesIn(Generate(s.Board, black, Black), h(1, 0))
	require.Len(t, m, 1)

	next := Apply(s, m[0])
	assert.Equal(t, 6, next.Scores.Black)
	assert.Equal(t, Black, next.Winner)
	assert.Equal(t, Black, next.Current)
	assert.True(t, next.Over())

	// Nothing applies once the game is decided.
	again := Apply(next, Move{Type: InLine, Marbles: []hex.Hex{h(4, 0)}, Direction: h(-1, 0)})
	assert.Equal(t, next, again)
}

func TestValidate(t *testing.T) {
	s := NewState()
	step := Move{Type: InLine, Marbles: []hex.Hex{h(0, -2)}, Direction: h(0, 1)}

	_, err := Validate(s, step, White)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = Validate(s, Move{Type: InLine, Marbles: []hex.Hex{h(0, 2)}, Direction: h(0, -1)}, Black)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = Validate(s, Move{Type: InLine, Direction: h(0, 1)}, Black)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = Validate(s, Move{Type: InLine, Marbles: []hex.Hex{h(0, -2)}, Direction: h(1, 0)}, Black)
	assert.ErrorIs(t, err, ErrIllegalMove)

	_, err = Validate(s, Move{Type: Broadside, Marbles: []hex.Hex{h(0, -2)}, Direction: h(0, 1)}, Black)
	assert.ErrorIs(t, err, ErrIllegalMove)

	// Client-supplied push data is ignored in favour of the generated move.
	forged := step
	forged.PushedOff = []hex.Hex{h(0, 2)}
	got, err := Validate(s, forged, Black)
	require.NoError(t, err)
	assert.Empty(t, got.PushedOff)

	over := s
	over.Winner = White
	_, err = Validate(over, step, Black)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := NewState()
	s.Scores = Scores{Black: 2, White: 1}
	snap := s.Snapshot()
	require.Len(t, snap.Board, CellCount)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded["winner"])
	assert.Equal(t, "B", decoded["currentPlayer"])
	assert.Equal(t, map[string]any{"B": 2.0, "W": 1.0}, decoded["scores"])
	board := decoded["board"].(map[string]any)
	assert.Equal(t, "B", board["0,-4"])
	assert.Equal(t, "W", board["0,2"])
	assert.Nil(t, board["0,0"])
	assert.Contains(t, board, "0,0")

	var back Snapshot
	require.NoError(t, json.Unmarshal(raw, &back))
	got, err := Adopt(back)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestAdoptRejectsBadSnapshots(t *testing.T) {
	_, err := Adopt(Snapshot{Board: map[string]Player{"x": Black}, CurrentPlayer: Black})
	assert.ErrorIs(t, err, ErrBadSnapshot)

	_, err = Adopt(Snapshot{Board: map[string]Player{"5,0": Black}, CurrentPlayer: Black})
	assert.ErrorIs(t, err, ErrBadSnapshot)

	_, err = Adopt(Snapshot{Board: map[string]Player{}})
	assert.ErrorIs(t, err, ErrBadSnapshot)
}

func TestPlayerJSON(t *testing.T) {
	raw, err := json.Marshal([]Player{Black, White, None})
	require.NoError(t, err)
	assert.JSONEq(t, `["B","W",null]`, string(raw))

	var ps []Player
	require.NoError(t, json.Unmarshal([]byte(`["W",null,"B"]`), &ps))
	assert.Equal(t, []Player{White, None, Black}, ps)

	var p Player
	assert.Error(t, json.Unmarshal([]byte(`"X"`), &p))
}
