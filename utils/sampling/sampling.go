package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
)

// RandUint64 returns a random value in [0, 0xFFFFFFFFFFFFFFFF] from
// crypto/rand.
func RandUint64() uint64 {
	b := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint64(b)
}

// RandInt generates a random Int in [0, max-1] from crypto/rand.
func RandInt(max *big.Int) (n *big.Int) {
	var err error
	if n, err = rand.Int(rand.Reader, max); err != nil {
		panic(err)
	}
	return
}
