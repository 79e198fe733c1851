// Package digest computes the stable 64 bit fingerprints used for documents and taxonomies
package digest

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/highwayhash"
)

// fixed key; fingerprints must be stable across processes and releases
var key = []byte("jangat-thematic-fingerprint-key!")

// Sum64 hashes data
func Sum64(data []byte) uint64 { return highwayhash.Sum64(data, key) }

// Parts hashes an ordered list of strings. Each part is length prefixed so that
// ("ab","c") and ("a","bc") differ
func Parts(parts ...string) uint64 {
	h, err := highwayhash.New64(key)
	if err != nil {
		// only reachable with a key that is not 32 bytes long
		panic(err)
	}
	var n [binary.MaxVarintLen64]byte
	for _, p := range parts {
		_, _ = h.Write(n[:binary.PutUvarint(n[:], uint64(len(p)))])
		_, _ = h.Write([]byte(p))
	}
	return h.Sum64()
}

// Hex renders a fingerprint as 16 lowercase hex digits
func Hex(v uint64) string { return fmt.Sprintf("%016x", v) }
