package pipeline

import (
	"crypto/rand"
	"sync"
	"time"
)

// Crockford base32 alphabet, as used by ULID.
const idAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	idMu      sync.Mutex
	idLastTS  int64
	idEntropy [10]byte
)

// NewID returns a 26-character ULID. IDs generated within the same
// millisecond are kept monotonic by incrementing the entropy bytes, so
// lexicographic order matches creation order.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()

	ts := time.Now().UnixMilli()
	if ts == idLastTS {
		for i := len(idEntropy) - 1; i >= 0; i-- {
			idEntropy[i]++
			if idEntropy[i] != 0 {
				break
			}
		}
	} else {
		idLastTS = ts
		if _, err := rand.Read(idEntropy[:]); err != nil {
			panic("pipeline: entropy source failed: " + err.Error())
		}
	}

	var b [16]byte
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	copy(b[6:], idEntropy[:])
	return encodeID(b)
}

// encodeID renders 128 bits as 26 base32 characters. 26 characters hold
// 130 bits, so the first character only carries the top 3 bits.
func encodeID(b [16]byte) string {
	var out [26]byte
	for i := 0; i < 26; i++ {
		var v byte
		for j := 0; j < 5; j++ {
			v <<= 1
			p := i*5 + j - 2
			if p < 0 {
				continue
			}
			if (b[p/8]>>(7-p%8))&1 == 1 {
				v |= 1
			}
		}
		out[i] = idAlphabet[v]
	}
	return string(out[:])
}
