package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first n hex characters
func (h Hash) Short(n int) string {
	if n >= len(h) {
		return string(h)
	}
	return string(h[:n])
}

// ComputeSelectionHash fingerprints a view of a filtered dataset. Values within a
// dimension are order-insensitive; an empty dimension hashes differently from an
// absent one. version identifies the loaded dataset.
func ComputeSelectionHash(view, version string, dimensions map[string][]string) Hash {
	keys := make([]string, 0, len(dimensions))
	for k := range dimensions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	data.WriteString(view)
	data.WriteByte(0)
	data.WriteString(version)
	for _, key := range keys {
		values := append([]string(nil), dimensions[key]...)
		sort.Strings(values)

		data.WriteByte(0)
		data.WriteString(key)
		data.WriteByte('=')
		data.WriteString(strings.Join(values, "\x1f"))
	}

	return NewHash([]byte(data.String()))
}
