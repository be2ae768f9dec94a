// apps/go-server/internal/hex/hex.go
//
// Axial hex-grid geometry for the Abalone board.
// Responsibilities:
//   - Coordinate arithmetic (add, subtract, scale, negate, projection).
//   - Canonical "q,r" keys and their parsing.
//   - Hex distance, board membership (radius 4).
//   - Direction normalization, collinearity and contiguity tests.
//
// Notes:
//   - Everything here is pure and integer-only; validators higher up rely on
//     these being exact.
//   - The direction order in Directions is part of the wire contract: move
//     generation iterates it, so results are deterministic.
package hex

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Radius is the board radius measured from the origin cell.
const Radius = 4

// Hex is an axial coordinate. The implicit cube coordinate is s = -q-r.
type Hex struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Directions are the six unit vectors, in generation order.
var Directions = [6]Hex{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// ErrBadKey is returned by ParseKey for anything that is not "q,r".
var ErrBadKey = errors.New("invalid hex key")

func Add(a, b Hex) Hex { return Hex{Q: a.Q + b.Q, R: a.R + b.R} }

func Sub(a, b Hex) Hex { return Hex{Q: a.Q - b.Q, R: a.R - b.R} }

func Neg(a Hex) Hex { return Hex{Q: -a.Q, R: -a.R} }

func Scale(a Hex, k int) Hex { return Hex{Q: a.Q * k, R: a.R * k} }

// Dot is the projection used to order cells along a direction.
func Dot(a, d Hex) int { return a.Q*d.Q + a.R*d.R }

// Key returns the canonical "q,r" cell key.
func (h Hex) Key() string { return strconv.Itoa(h.Q) + "," + strconv.Itoa(h.R) }

func (h Hex) String() string { return "(" + h.Key() + ")" }

// ParseKey is the inverse of Key.
func ParseKey(key string) (Hex, error) {
	qs, rs, ok := strings.Cut(key, ",")
	if !ok {
		return Hex{}, fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	q, err := strconv.Atoi(strings.TrimSpace(qs))
	if err != nil {
		return Hex{}, fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return Hex{}, fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return Hex{Q: q, R: r}, nil
}

// Distance is the hex distance max(|dq|, |dr|, |dq+dr|).
func Distance(a, b Hex) int {
	dq, dr := a.Q-b.Q, a.R-b.R
	return max(abs(dq), abs(dr), abs(dq+dr))
}

// OnBoard reports whether h lies within Radius of the origin.
func OnBoard(h Hex) bool { return Distance(h, Hex{}) <= Radius }

// Normalize reduces v to the unit direction it is a positive integer
// multiple of. ok is false for the zero vector and for vectors that are not
// on any of the three grid axes.
func Normalize(v Hex) (Hex, bool) {
	if v == (Hex{}) {
		return Hex{}, false
	}
	for _, d := range Directions {
		// Unit components are -1, 0 or 1, so multiplying divides.
		k := v.Q * d.Q
		if d.Q == 0 {
			k = v.R * d.R
		}
		if k > 0 && Scale(d, k) == v {
			return d, true
		}
	}
	return Hex{}, false
}

// Parallel reports whether a and b are the same or opposite unit directions.
func Parallel(a, b Hex) bool { return a == b || a == Neg(b) }

// Collinear reports whether every point lies on one grid line through the
// first point, all on the same side of it. Zero or one point is collinear.
func Collinear(points []Hex) bool {
	_, ok := lineOf(points)
	return ok
}

// Contiguous reports whether points are collinear and, ordered along that
// line, each consecutive pair is adjacent.
func Contiguous(points []Hex) bool {
	dir, ok := lineOf(points)
	if !ok {
		return false
	}
	if len(points) <= 1 {
		return true
	}
	sorted := SortAlong(points, dir)
	for i := 1; i < len(sorted); i++ {
		if Distance(sorted[i-1], sorted[i]) != 1 {
			return false
		}
	}
	return true
}

// LineDirection returns the unit direction from points[0] to points[1].
func LineDirection(points []Hex) (Hex, bool) {
	if len(points) < 2 {
		return Hex{}, false
	}
	return Normalize(Sub(points[1], points[0]))
}

// SortAlong returns a copy of points ordered by ascending projection on d.
func SortAlong(points []Hex, d Hex) []Hex {
	out := append([]Hex(nil), points...)
	sort.SliceStable(out, func(i, j int) bool { return Dot(out[i], d) < Dot(out[j], d) })
	return out
}

// lineOf returns the common direction of every delta from points[0].
func lineOf(points []Hex) (Hex, bool) {
	if len(points) <= 1 {
		return Hex{}, true
	}
	dir, ok := Normalize(Sub(points[1], points[0]))
	if !ok {
		return Hex{}, false
	}
	for _, p := range points[2:] {
		di, ok := Normalize(Sub(p, points[0]))
		if !ok || di != dir {
			return Hex{}, false
		}
	}
	return dir, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
