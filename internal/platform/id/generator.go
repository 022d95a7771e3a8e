package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator produces the correlation ids stamped on outbound league API
// requests.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator draws 12 random bytes per id, hex encoded: short enough
// for a request header, unique enough to correlate a log line with the
// upstream's.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
