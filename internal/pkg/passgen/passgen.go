// Package passgen generates random one-time credentials for bulk-created
// accounts.
package passgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// MinLength is the shortest credential Generate will produce.
const MinLength = 12

// pool covers ASCII letters, digits and a fixed punctuation set.
const pool = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"

// Generate returns a random credential of the given length drawn from the
// character pool using crypto/rand. Lengths below MinLength are raised to it.
func Generate(length int) (string, error) {
	if length < MinLength {
		length = MinLength
	}

	buf := make([]byte, length)
	max := big.NewInt(int64(len(pool)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		buf[i] = pool[n.Int64()]
	}

	return string(buf), nil
}
