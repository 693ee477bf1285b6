package scheduling

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// newToken generates the unguessable bearer credential embedded in the
// proposal response link. 32 random bytes, hex encoded.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
