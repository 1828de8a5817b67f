package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/bcrypt"

	"sharegate/internal/constants"
)

// base62Alphabet is used for human-friendly key encoding (no special chars).
const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// HashPassphrase hashes a plaintext passphrase using bcrypt.
func HashPassphrase(passphrase string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), constants.AuthBcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passphrase: %w", err)
	}
	return string(hash), nil
}

// VerifyPassphrase checks a plaintext passphrase against a bcrypt hash.
// Returns nil on success.
func VerifyPassphrase(passphrase, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passphrase))
}

// HashKey computes a BLAKE3 hash of an API key for storage and lookup.
// The plaintext is never stored.
func HashKey(key string) string {
	hasher := blake3.New()
	hasher.Write([]byte(key))
	return hex.EncodeToString(hasher.Sum(nil))
}

// GenerateAPIKey creates a new API key with the sgk_ prefix.
// Returns the plaintext key (shown once to the client).
func GenerateAPIKey() (string, error) {
	randomBytes := make([]byte, constants.AuthAPIKeyRandomBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}
	return constants.APIKeyPrefix + base62Encode(randomBytes), nil
}

// KeyPrefix returns the first N characters of a key for logging.
func KeyPrefix(key string) string {
	if len(key) <= constants.AuthAPIKeyPrefixLength {
		return key
	}
	return key[:constants.AuthAPIKeyPrefixLength]
}

// IsAPIKey checks whether a token carries the API key prefix.
func IsAPIKey(token string) bool {
	return strings.HasPrefix(token, constants.APIKeyPrefix)
}

// base62Encode encodes raw bytes to a base62 string.
func base62Encode(data []byte) string {
	num := new(big.Int).SetBytes(data)
	base := big.NewInt(int64(len(base62Alphabet)))

	if num.Sign() == 0 {
		return string(base62Alphabet[0])
	}

	var result []byte
	zero := big.NewInt(0)
	mod := new(big.Int)

	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		result = append(result, base62Alphabet[mod.Int64()])
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}
