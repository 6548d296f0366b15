package fs

import (
	"github.com/cespare/xxhash/v2"
)

// Hasher fingerprints build outputs with xxhash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// FingerprintBytes returns the xxhash of the data.
func (h *Hasher) FingerprintBytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}
