package compiler

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/jonathan/brand-compiler/internal/types"
)

// StableHash returns the lowercase hex SHA-256 of v's canonical JSON form.
// The value is round-tripped through a generic map so that object keys are
// serialized in sorted order regardless of struct field or insertion order.
func StableHash(v any) (string, error) {
	canonical, err := Canonicalize(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Canonicalize renders v as key-sorted JSON.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value for hashing: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("failed to decode value for hashing: %w", err)
	}

	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal canonical value: %w", err)
	}
	return out, nil
}

// InputHash hashes the populated discovery fields. It is the cache key for a
// compilation and the seed for archetype tie-breaks.
func InputHash(in types.DiscoveryInputs) (string, error) {
	return StableHash(in.Fields())
}
