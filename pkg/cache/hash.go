package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
)

// keyVersion is mixed into every key. Bump it when the encoding of cached
// layouts or artifacts changes so old entries become misses.
const keyVersion = "v1"

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digest feeds typed fields into SHA-256. Strings are length prefixed and
// numbers are fixed width, so no two field sequences share an encoding.
type digest struct {
	h   hash.Hash
	buf [8]byte
}

func newDigest(kind string) *digest {
	d := &digest{h: sha256.New()}
	return d.str(keyVersion).str(kind)
}

func (d *digest) u64(v uint64) *digest {
	binary.BigEndian.PutUint64(d.buf[:], v)
	d.h.Write(d.buf[:])
	return d
}

func (d *digest) str(s string) *digest {
	d.u64(uint64(len(s)))
	d.h.Write([]byte(s))
	return d
}

// f64 writes the IEEE bits of v with negative zero folded into zero.
func (d *digest) f64(v float64) *digest {
	if v == 0 {
		v = 0
	}
	return d.u64(math.Float64bits(v))
}

func (d *digest) flag(b bool) *digest {
	if b {
		return d.u64(1)
	}
	return d.u64(0)
}

// key formats the digest as "kind:version:hex".
func (d *digest) key(kind string) string {
	return kind + ":" + keyVersion + ":" + hex.EncodeToString(d.h.Sum(nil))
}
