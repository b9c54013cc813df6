package redis

import "fmt"

// Key format constants
const (
	// KeyRateLimit holds the fixed-window counter for one client identifier.
	// epc:ratelimit:{identifier_hash}
	KeyRateLimit = "epc:ratelimit:%s"
)

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{prefix: prefix}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyRateLimit builds the rate-limit counter key for a client identifier hash
func (kb *KeyBuilder) KeyRateLimit(identifierHash string) string {
	return kb.BuildKey(fmt.Sprintf(KeyRateLimit, identifierHash))
}
