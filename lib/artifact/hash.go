// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 digest.
type Hash [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing.
type domainKey [32]byte

// sequenceDomainKey separates sequence checksums from any other use of
// BLAKE3 over the same bytes. The value is the ASCII domain name,
// zero-padded to 32 bytes; changing it invalidates every stored
// checksum.
var sequenceDomainKey = domainKey{
	'g', 'e', 'n', 'o', 'm', 'e', 'e', 'n', 'c', 'o', 'd', 'e', '.', 's', 'e', 'q',
	'u', 'e', 'n', 'c', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// HashSequence computes the checksum stored in an artifact: the
// sequence-domain BLAKE3 keyed hash of the uncompressed symbols.
func HashSequence(seq []byte) Hash {
	return keyedHash(sequenceDomainKey, seq)
}

// String returns the hex encoding of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether the hash is all zero bytes.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ParseHash parses a 64-character hex string into a Hash.
func ParseHash(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return hash, fmt.Errorf("parsing sequence hash: %w", err)
	}
	if len(decoded) != len(hash) {
		return hash, fmt.Errorf("sequence hash is %d bytes, want %d", len(decoded), len(hash))
	}
	copy(hash[:], decoded)
	return hash, nil
}

// keyedHash computes BLAKE3 keyed hash with the given domain key.
func keyedHash(key domainKey, data []byte) Hash {
	// NewKeyed only fails for a key that is not 32 bytes, which
	// domainKey rules out.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("artifact: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}
