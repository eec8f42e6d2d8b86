package security

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength    = 16
	hashSeparator = ":"
)

// Hasher derives and verifies salted password hashes (PBKDF2-HMAC-SHA1).
// Stored hashes embed the iteration count used at hash time
// ("<iterations>:<hexKey>"), so the work factor can be raised later without
// invalidating existing credentials.
type Hasher struct {
	iterations int
	keyLength  int // bytes
}

// NewHasher builds a Hasher. keyBits is the derived key length in bits.
func NewHasher(iterations, keyBits int) *Hasher {
	return &Hasher{iterations: iterations, keyLength: keyBits / 8}
}

// Salt generates a fresh random salt, hex encoded.
func (h *Hasher) Salt() (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(salt), nil
}

// Hash derives a key from the secret and hex salt using the configured work
// factor and returns it in stored form.
func (h *Hasher) Hash(secret, salt string) (string, error) {
	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("invalid salt: %w", err)
	}
	key := pbkdf2.Key([]byte(secret), saltBytes, h.iterations, h.keyLength, sha1.New)
	return strconv.Itoa(h.iterations) + hashSeparator + hex.EncodeToString(key), nil
}

// Verify reports whether secret matches the stored hash. It re-derives with
// the iteration count and key length embedded in the stored value, not the
// hasher's current defaults. Malformed input is a mismatch, never an error.
func (h *Hasher) Verify(secret, salt, stored string) bool {
	if secret == "" || stored == "" {
		return false
	}
	parts := strings.Split(stored, hashSeparator)
	if len(parts) != 2 {
		return false
	}
	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}
	storedKey, err := hex.DecodeString(parts[1])
	if err != nil || len(storedKey) == 0 {
		return false
	}
	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return false
	}
	key := pbkdf2.Key([]byte(secret), saltBytes, iterations, len(storedKey), sha1.New)
	// XOR-accumulate over the full length; only a length mismatch short-circuits.
	return subtle.ConstantTimeCompare(storedKey, key) == 1
}
