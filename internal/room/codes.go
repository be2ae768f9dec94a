package room

import (
	"crypto/rand"
	"errors"
)

// Room codes are short and read aloud, so the alphabet leaves out I, O, 0
// and 1.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 4
	codeAttempts = 100
)

// ErrNoCode means no free code was found within the attempt budget.
var ErrNoCode = errors.New("no free room code")

// NewCode returns a random code. len(codeAlphabet) divides 256, so taking
// each byte modulo it is unbiased.
func NewCode() (string, error) {
	var b [codeLength]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b[:]), nil
}
