package buffer

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
)

// ReadUint8 reads a byte from r into c.
func ReadUint8(r Reader, c *uint8) (n int, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint8: c is nil")
	}

	var bb = [1]byte{}

	if n, err = r.Read(bb[:]); err != nil {
		return
	}

	*c = bb[0]

	return n, nil
}

// ReadUint64 reads a uint64 from r into c.
func ReadUint64(r Reader, c *uint64) (n int, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint64: c is nil")
	}

	var bb = [8]byte{}

	if n, err = r.Read(bb[:]); err != nil {
		return
	}

	*c = binary.LittleEndian.Uint64(bb[:])

	return n, nil
}

// ReadInt reads an int from r into c.
func ReadInt(r Reader, c *int) (n int, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadInt: c is nil")
	}

	var u uint64
	if n, err = ReadUint64(r, &u); err != nil {
		return
	}

	*c = int(u)

	return n, nil
}

// ReadBigInt reads a *big.Int written by WriteBigInt from r into c.
func ReadBigInt(r Reader, c *big.Int) (n int, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadBigInt: c is nil")
	}

	var sign uint8
	if n, err = ReadUint8(r, &sign); err != nil {
		return
	}

	if sign > 2 {
		return n, fmt.Errorf("cannot ReadBigInt: invalid sign byte %d", sign)
	}

	var size uint64
	var inc int
	if inc, err = ReadUint64(r, &size); err != nil {
		return n + inc, err
	}

	n += inc

	abs := make([]byte, size)
	if inc, err = io.ReadFull(r, abs); err != nil {
		return n + inc, err
	}

	n += inc

	c.SetBytes(abs)
	if sign == 0 {
		c.Neg(c)
	}

	return n, nil
}
