package icp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/gf38/Dissertation/ring"
	"github.com/gf38/Dissertation/utils/buffer"
)

// ErrInvalidPrivateKey is wrapped by the errors of SecretKey.Validate when
// the key material does not support decryption.
var ErrInvalidPrivateKey = errors.New("invalid private key")

// SecretKey is a type for the secret keys of the scheme. It stores the
// generator v of the secret ideal (v), the lattice determinant d = |det(B)|
// of its rotation basis B, and the scaled inverse w of the generator, which
// satisfies w * v = d mod x^N + 1.
type SecretKey struct {
	Value         ring.Poly
	ScaledInverse ring.Poly
	Det           *big.Int
}

// PublicKey is a type for the public keys of the scheme. It stores the two
// integers (d, r) of the restricted Hermite normal form of the secret
// lattice: the determinant d and a root r of both the generator and of
// x^N + 1 modulo d.
type PublicKey struct {
	Det  *big.Int
	Root *big.Int
}

// NewSecretKey returns an allocated SecretKey with zero values.
func NewSecretKey(params Parameters) *SecretKey {
	return &SecretKey{
		Value:         ring.NewPoly(params.N()),
		ScaledInverse: ring.NewPoly(params.N()),
		Det:           new(big.Int),
	}
}

// NewPublicKey returns an allocated PublicKey with zero values.
func NewPublicKey() *PublicKey {
	return &PublicKey{
		Det:  new(big.Int),
		Root: new(big.Int),
	}
}

// Equal performs a deep equal between the receiver and the other SecretKey.
func (sk *SecretKey) Equal(other *SecretKey) bool {
	if sk == other {
		return true
	}
	if (sk == nil) != (other == nil) {
		return false
	}
	return sk.Value.Equal(&other.Value) && sk.ScaledInverse.Equal(&other.ScaledInverse) && sk.Det.Cmp(other.Det) == 0
}

// Equal performs a deep equal between the receiver and the other PublicKey.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == other {
		return true
	}
	if (pk == nil) != (other == nil) {
		return false
	}
	return pk.Det.Cmp(other.Det) == 0 && pk.Root.Cmp(other.Root) == 0
}

// CopyNew creates a deep copy of the receiver SecretKey and returns it.
func (sk *SecretKey) CopyNew() *SecretKey {
	if sk == nil {
		return nil
	}
	return &SecretKey{
		Value:         sk.Value.CopyNew(),
		ScaledInverse: sk.ScaledInverse.CopyNew(),
		Det:           new(big.Int).Set(sk.Det),
	}
}

// CopyNew creates a deep copy of the receiver PublicKey and returns it.
func (pk *PublicKey) CopyNew() *PublicKey {
	if pk == nil {
		return nil
	}
	return &PublicKey{
		Det:  new(big.Int).Set(pk.Det),
		Root: new(big.Int).Set(pk.Root),
	}
}

// Validate checks that the receiver is a consistent secret key for the
// parameters: the scaled inverse must satisfy w * v = d mod x^N + 1 for a
// positive determinant d, and at least one of its coefficients must be odd
// so that the parity decoding of decryption applies. All returned errors
// wrap ErrInvalidPrivateKey.
func (sk *SecretKey) Validate(params Parameters) (err error) {

	if sk == nil || sk.Det == nil {
		return fmt.Errorf("%w: sk is nil or has nil values", ErrInvalidPrivateKey)
	}

	if sk.Value.N() != params.N() || sk.ScaledInverse.N() != params.N() {
		return fmt.Errorf("%w: sk ring degree does not match parameters ring degree", ErrInvalidPrivateKey)
	}

	if sk.Det.Sign() <= 0 {
		return fmt.Errorf("%w: sk determinant must be positive", ErrInvalidPrivateKey)
	}

	prod := params.Ring().MulNew(sk.Value, sk.ScaledInverse)
	if prod.Coeffs[0].Cmp(sk.Det) != 0 {
		return fmt.Errorf("%w: sk scaled inverse does not satisfy w * v = d mod x^N + 1", ErrInvalidPrivateKey)
	}
	for _, c := range prod.Coeffs[1:] {
		if c.Sign() != 0 {
			return fmt.Errorf("%w: sk scaled inverse does not satisfy w * v = d mod x^N + 1", ErrInvalidPrivateKey)
		}
	}

	for _, w := range sk.ScaledInverse.Coeffs {
		if w.Bit(0) == 1 {
			return nil
		}
	}

	return fmt.Errorf("%w: sk scaled inverse has no odd coefficient", ErrInvalidPrivateKey)
}

// Validate checks that the receiver is a correct restricted public key for
// the parameters: the modulus must be at least 2 and the root must be a root
// of x^N + 1 modulo the modulus.
func (pk *PublicKey) Validate(params Parameters) (err error) {

	if pk == nil || pk.Det == nil || pk.Root == nil {
		return fmt.Errorf("pk is nil or has nil values")
	}

	if pk.Det.Cmp(new(big.Int).SetUint64(2)) < 0 {
		return fmt.Errorf("pk modulus must be at least 2 but is %s", pk.Det.String())
	}

	if pk.Root.Sign() < 0 || pk.Root.Cmp(pk.Det) >= 0 {
		return fmt.Errorf("pk root must be in [0, %s) but is %s", pk.Det.String(), pk.Root.String())
	}

	rN := new(big.Int).Exp(pk.Root, new(big.Int).SetInt64(int64(params.N())), pk.Det)
	if rN.Add(rN, new(big.Int).SetInt64(1)).Cmp(pk.Det) != 0 {
		return fmt.Errorf("pk root is not a root of x^N + 1 modulo the modulus")
	}

	return
}

// NoiseBudget returns the noise budget of the secret key in bits, defined as
// log2(d / (2 * max_i |w_i|)). A ciphertext c = [a(r)]_d decrypts correctly
// whenever the L1 norm of the underlying noise polynomial a is strictly below
// 2^budget. It returns -Inf if the key has not been generated.
func (sk *SecretKey) NoiseBudget() float64 {

	norm := new(big.Int)
	for _, w := range sk.ScaledInverse.Coeffs {
		if w.CmpAbs(norm) > 0 {
			norm.Abs(w)
		}
	}

	if sk.Det.Sign() <= 0 || norm.Sign() == 0 {
		return math.Inf(-1)
	}

	return log2OfRatio(sk.Det, new(big.Int).Lsh(norm, 1))
}

// BinarySize returns the size in bytes that the object once marshalled into a binary form.
func (sk SecretKey) BinarySize() int {
	return sk.Value.BinarySize() + sk.ScaledInverse.BinarySize() + buffer.BigIntSize(sk.Det)
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// Unless w implements the buffer.Writer interface (see Dissertation/utils/buffer/writer.go),
// it will be wrapped into a bufio.Writer. Since this requires allocations, it
// is preferable to pass a buffer.Writer directly:
//
//   - When writing multiple values to a io.Writer, it is preferable to first wrap the
//     io.Writer in a pre-allocated bufio.Writer.
//   - When writing to a pre-allocated var b []byte, it is preferable to pass
//     buffer.NewBuffer(b) as w (see Dissertation/utils/buffer/buffer.go).
func (sk SecretKey) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64
		if inc, err = sk.Value.WriteTo(w); err != nil {
			return n + inc, err
		}

		n += inc

		if inc, err = sk.ScaledInverse.WriteTo(w); err != nil {
			return n + inc, err
		}

		n += inc

		var inc0 int
		if inc0, err = buffer.WriteBigInt(w, sk.Det); err != nil {
			return n + int64(inc0), err
		}

		n += int64(inc0)

		return n, w.Flush()
	default:
		return sk.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
//
// Unless r implements the buffer.Reader interface (see Dissertation/utils/buffer/reader.go),
// it will be wrapped into a bufio.Reader. Since this requires allocation, it
// is preferable to pass a buffer.Reader directly:
//
//   - When reading multiple values from a io.Reader, it is preferable to first
//     first wrap io.Reader in a pre-allocated bufio.Reader.
//   - When reading from a var b []byte, it is preferable to pass a buffer.NewBuffer(b)
//     as w (see Dissertation/utils/buffer/buffer.go).
func (sk *SecretKey) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64
		if inc, err = sk.Value.ReadFrom(r); err != nil {
			return n + inc, err
		}

		n += inc

		if inc, err = sk.ScaledInverse.ReadFrom(r); err != nil {
			return n + inc, err
		}

		n += inc

		if sk.Det == nil {
			sk.Det = new(big.Int)
		}

		var inc0 int
		if inc0, err = buffer.ReadBigInt(r, sk.Det); err != nil {
			return n + int64(inc0), err
		}

		return n + int64(inc0), nil
	default:
		return sk.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (sk SecretKey) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(sk.BinarySize())
	_, err = sk.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by MarshalBinary or
// WriteTo on the object.
func (sk *SecretKey) UnmarshalBinary(p []byte) (err error) {
	_, err = sk.ReadFrom(buffer.NewBuffer(p))
	return
}

// BinarySize returns the size in bytes that the object once marshalled into a binary form.
func (pk PublicKey) BinarySize() int {
	return buffer.BigIntSize(pk.Det) + buffer.BigIntSize(pk.Root)
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (pk PublicKey) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int
		if inc, err = buffer.WriteBigInt(w, pk.Det); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)

		if inc, err = buffer.WriteBigInt(w, pk.Root); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)

		return n, w.Flush()
	default:
		return pk.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (pk *PublicKey) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		if pk.Det == nil {
			pk.Det = new(big.Int)
		}

		var inc int
		if inc, err = buffer.ReadBigInt(r, pk.Det); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)

		if pk.Root == nil {
			pk.Root = new(big.Int)
		}

		if inc, err = buffer.ReadBigInt(r, pk.Root); err != nil {
			return n + int64(inc), err
		}

		return n + int64(inc), nil
	default:
		return pk.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (pk PublicKey) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(pk.BinarySize())
	_, err = pk.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by MarshalBinary or
// WriteTo on the object.
func (pk *PublicKey) UnmarshalBinary(p []byte) (err error) {
	_, err = pk.ReadFrom(buffer.NewBuffer(p))
	return
}
