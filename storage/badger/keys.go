package badger

import (
	"encoding/binary"

	"github.com/poiesic/vitrine/core"
)

// Key prefixes for different data types
const (
	productRecordPrefix = "prodrec"
)

// makeProductKey generates a key for a product by its content-derived ID.
// The ID is written in BigEndian order so lexicographic key order matches
// numeric ID order, which ScanProducts relies on.
func makeProductKey(id core.ID) []byte {
	prefix := productRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// productIDFromKey recovers the ID from a product record key.
func productIDFromKey(key []byte) core.ID {
	prefixLen := len(productRecordPrefix) + 1
	if len(key) < prefixLen+8 {
		return 0
	}
	return core.ID(binary.BigEndian.Uint64(key[prefixLen:]))
}
