// apps/go-server/internal/ticket/ticket.go
//
// Reconnect tickets.
// The playerId handed to a client on create/join is an HS256 JWT naming the
// room and the color it was issued for. Rooms keep only Digest(playerId),
// never the token itself.
//
// Notes:
//   - Verify checks signature, expiry and shape; the room still compares
//     digests, so a valid ticket for a slot that no longer exists fails.
//   - The jti is a random uuid, so two tickets for the same slot differ.

package ticket

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/abalone/apps/go-server/internal/game"
)

// ErrInvalid is returned for any ticket that does not verify.
var ErrInvalid = errors.New("invalid ticket")

// Claims carried by a ticket.
type Claims struct {
	Room  string `json:"room"`
	Color string `json:"color"`
	jwt.RegisteredClaims
}

// Player returns the color the ticket was issued for.
func (c Claims) Player() game.Player {
	p, _ := game.ParsePlayer(c.Color)
	return p
}

// Issuer signs and verifies tickets with one shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. A zero ttl means tickets never expire.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a ticket for color p in room code.
func (i *Issuer) Issue(code string, p game.Player) (string, error) {
	now := i.now()
	claims := Claims{
		Room:  code,
		Color: p.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign ticket: %w", err)
	}
	return ss, nil
}

// Verify parses tok and returns its claims.
func (i *Issuer) Verify(tok string) (Claims, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(tok, &c, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Room == "" || c.Player() == game.None {
		return Claims{}, fmt.Errorf("%w: missing room or color", ErrInvalid)
	}
	return c, nil
}

// Digest is the value a room stores for a slot.
func Digest(tok string) [32]byte { return blake2b.Sum256([]byte(tok)) }

// Match compares a presented ticket with a stored digest in constant time.
func Match(tok string, digest [32]byte) bool {
	d := Digest(tok)
	return subtle.ConstantTimeCompare(d[:], digest[:]) == 1
}
