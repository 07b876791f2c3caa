package icp

import (
	"bufio"
	"fmt"
	"io"
	"math/big"

	"github.com/gf38/Dissertation/ring"
	"github.com/gf38/Dissertation/utils/bignum"
	"github.com/gf38/Dissertation/utils/buffer"
	"github.com/gf38/Dissertation/utils/sampling"
)

// Ciphertext is a type for the ciphertexts of the scheme. A ciphertext is a
// single integer in the centered interval [-d/2, d/2] of the public modulus d
// and encrypts one bit.
type Ciphertext struct {
	Value *big.Int
}

// NewCiphertext returns a new Ciphertext with zero value. The zero ciphertext
// is a noise-free encryption of 0 under any key.
func NewCiphertext() (ct *Ciphertext) {
	return &Ciphertext{Value: new(big.Int)}
}

// NewTrivialCiphertext returns a noise-free encryption of the given bit,
// valid under any key.
func NewTrivialCiphertext(bit uint64) (ct *Ciphertext) {
	if bit > 1 {
		panic(fmt.Errorf("cannot NewTrivialCiphertext: bit must be 0 or 1 but is %d", bit))
	}
	return &Ciphertext{Value: new(big.Int).SetUint64(bit)}
}

// NewCiphertextRandom generates a new Ciphertext distributed uniformly over
// the centered interval of the modulus of pk.
func NewCiphertextRandom(prng sampling.PRNG, pk *PublicKey) (ct *Ciphertext) {
	return &Ciphertext{Value: ring.CenteredMod(bignum.RandInt(prng, pk.Det), pk.Det)}
}

// CopyNew creates a new element as a copy of the target element.
func (ct Ciphertext) CopyNew() *Ciphertext {
	return &Ciphertext{Value: new(big.Int).Set(ct.Value)}
}

// Copy copies the input element on the target element.
func (ct Ciphertext) Copy(ctCopy *Ciphertext) {
	ct.Value.Set(ctCopy.Value)
}

// Equal performs a deep equal.
func (ct Ciphertext) Equal(other *Ciphertext) bool {
	return ct.Value.Cmp(other.Value) == 0
}

// BinarySize returns the size in bytes that the object once marshalled into a binary form.
func (ct Ciphertext) BinarySize() int {
	return buffer.BigIntSize(ct.Value)
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (ct Ciphertext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int
		if inc, err = buffer.WriteBigInt(w, ct.Value); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)

		return n, w.Flush()
	default:
		return ct.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (ct *Ciphertext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		if ct.Value == nil {
			ct.Value = new(big.Int)
		}

		var inc int
		if inc, err = buffer.ReadBigInt(r, ct.Value); err != nil {
			return n + int64(inc), err
		}

		return n + int64(inc), nil
	default:
		return ct.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (ct Ciphertext) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(ct.BinarySize())
	_, err = ct.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by MarshalBinary or
// WriteTo on the object.
func (ct *Ciphertext) UnmarshalBinary(p []byte) (err error) {
	_, err = ct.ReadFrom(buffer.NewBuffer(p))
	return
}
