package utils

import (
	"crypto/rand"
	"math/big"
)

// NewCompletionPIN returns a random 3-digit numeric string in
// [100, 999]. PINs are generated independently per assignment and
// only ever compared against the stored PIN of the same booking, so
// no cross-booking uniqueness is needed.
func NewCompletionPIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900))
	if err != nil {
		return "", err
	}
	return (n.Add(n, big.NewInt(100))).String(), nil
}
