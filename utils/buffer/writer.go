package buffer

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// Write writes a slice of bytes to w.
func Write(w Writer, c []byte) (n int, err error) {
	return w.Write(c)
}

// WriteUint8 writes a byte c to w.
func WriteUint8(w Writer, c uint8) (n int, err error) {

	if w.Available() == 0 {
		if err = w.Flush(); err != nil {
			return
		}

		if w.Available() == 0 {
			return 0, fmt.Errorf("cannot WriteUint8: available buffer is zero even after flush")
		}
	}

	return w.Write([]byte{c})
}

// WriteUint64 writes a uint64 c into w.
func WriteUint64(w Writer, c uint64) (n int, err error) {

	if w.Available()>>3 == 0 {
		if err = w.Flush(); err != nil {
			return
		}

		if w.Available()>>3 == 0 {
			return 0, fmt.Errorf("cannot WriteUint64: available buffer/8 is zero even after flush")
		}
	}

	buf := w.AvailableBuffer()[:8]

	binary.LittleEndian.PutUint64(buf, c)

	return w.Write(buf)
}

// WriteInt writes an int c into w. The value must be non-negative.
func WriteInt(w Writer, c int) (n int, err error) {
	if c < 0 {
		return 0, fmt.Errorf("cannot WriteInt: c is negative")
	}
	return WriteUint64(w, uint64(c))
}

// WriteBigInt writes a *big.Int c into w as a sign byte followed by the
// length-prefixed absolute-value bytes.
func WriteBigInt(w Writer, c *big.Int) (n int, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot WriteBigInt: c is nil")
	}

	if n, err = WriteUint8(w, uint8(c.Sign()+1)); err != nil {
		return n, err
	}

	abs := c.Bytes()

	var inc int
	if inc, err = WriteUint64(w, uint64(len(abs))); err != nil {
		return n + inc, err
	}

	n += inc

	if inc, err = w.Write(abs); err != nil {
		return n + inc, err
	}

	return n + inc, nil
}

// BigIntSize returns the number of bytes WriteBigInt consumes to encode c.
func BigIntSize(c *big.Int) int {
	if c == nil {
		return 1 + 8
	}
	return 1 + 8 + (c.BitLen()+7)>>3
}
