// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/keyfold-foundation/keyfold/lib/canon"
)

// Digest is a 32-byte BLAKE3 digest of a key's canonical byte
// encoding. Two keys have the same digest exactly when they are equal
// as keys.
type Digest [32]byte

// digestDomainKey is the BLAKE3 key for key digests. It is a fixed
// constant — changing it invalidates every stored digest. The byte
// values are the ASCII encoding of the domain name, zero-padded to 32
// bytes, so the key stays readable in hex dumps. The key-hash domain
// ("keyfold.key.hash") uses a different name, which keeps 64-bit
// hashes and 32-byte digests of the same key unrelated.
var digestDomainKey = [32]byte{
	'k', 'e', 'y', 'f', 'o', 'l', 'd', '.', 'k', 'e', 'y', '.',
	'd', 'i', 'g', 'e', 's', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Of computes the digest of a key: the keyed BLAKE3 hash of its
// canonical byte encoding.
func Of(k canon.Key) Digest {
	// NewKeyed only fails on a wrong key length, which the fixed-size
	// array rules out.
	hasher, err := blake3.NewKeyed(digestDomainKey[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(k.AppendCanonical(nil))
	var d Digest
	copy(d[:], hasher.Sum(nil))
	return d
}

// Format returns the hex-encoded string representation of a digest.
// This is the canonical format used in indexes, logs, and CLI output.
func Format(d Digest) string {
	return hex.EncodeToString(d[:])
}

// Parse parses a 64-character hex string into a Digest.
func Parse(hexString string) (Digest, error) {
	var d Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return d, fmt.Errorf("parsing key digest: %w", err)
	}
	if len(decoded) != 32 {
		return d, fmt.Errorf("key digest is %d bytes, want 32", len(decoded))
	}
	copy(d[:], decoded)
	return d, nil
}

// ShortRef returns the short key reference: the "key-" prefix followed
// by the first 12 hex characters of the digest.
func ShortRef(d Digest) string {
	return "key-" + hex.EncodeToString(d[:6])
}
