// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// hashDomainKey is the BLAKE3 key for [Key.Hash]. Domain separation
// keeps 64-bit hashes from colliding with (or prefixing) content
// digests computed over the same canonical bytes in other domains.
// The byte values are the ASCII encoding of the domain name,
// zero-padded to 32 bytes, so the key is readable in hex dumps.
var hashDomainKey = [32]byte{
	'k', 'e', 'y', 'f', 'o', 'l', 'd', '.', 'k', 'e', 'y', '.',
	'h', 'a', 's', 'h', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Hash returns a 64-bit content hash of the key: the first 8 bytes
// (big-endian) of the keyed BLAKE3 hash of the key's canonical byte
// encoding. Equal Keys always hash identically, map insertion order
// never matters (pairs are stored sorted), and the hash depends only
// on logical content — never on memory addresses.
func (k Key) Hash() uint64 {
	hasher, err := blake3.NewKeyed(hashDomainKey[:])
	if err != nil {
		// NewKeyed only fails on a wrong key length, which the
		// fixed-size array rules out.
		panic("canon: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(k.AppendCanonical(nil))
	var sum [32]byte
	copy(sum[:], hasher.Sum(nil))
	return binary.BigEndian.Uint64(sum[:8])
}
