package utils

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const base62Chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ShareTokenLength gives about 285 bits of entropy.
const ShareTokenLength = 48

// GenerateKey returns prefix followed by n crypto-random base62 characters.
func GenerateKey(prefix string, n int) (string, error) {
	var sb strings.Builder
	sb.Grow(len(prefix) + n)
	sb.WriteString(prefix)

	max := big.NewInt(int64(len(base62Chars)))
	for range n {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(base62Chars[num.Int64()])
	}

	return sb.String(), nil
}

// GenerateShareToken is the public approval link token.
func GenerateShareToken() (string, error) {
	return GenerateKey("", ShareTokenLength)
}

// RandomSuffix is used to keep uploaded object keys unique.
func RandomSuffix() string {
	s, err := GenerateKey("", 12)
	if err != nil {
		return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}
	return s
}
