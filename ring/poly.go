package ring

import (
	"bufio"
	"io"
	"math/big"

	"github.com/gf38/Dissertation/utils/buffer"
)

// Poly is the structure that contains the coefficients of a polynomial.
// Coefficients are arbitrary precision integers and are always allocated.
type Poly struct {
	Coeffs []*big.Int
}

// NewPoly creates a new polynomial with N coefficients set to zero.
func NewPoly(N int) (pol Poly) {
	pol.Coeffs = make([]*big.Int, N)
	for i := range pol.Coeffs {
		pol.Coeffs[i] = new(big.Int)
	}
	return
}

// N returns the number of coefficients of the polynomial.
func (pol Poly) N() int {
	return len(pol.Coeffs)
}

// Zero sets all coefficients of the target polynomial to 0.
func (pol Poly) Zero() {
	for i := range pol.Coeffs {
		pol.Coeffs[i].SetInt64(0)
	}
}

// Copy copies the coefficients of p1 on the target polynomial.
// Requires both polynomials to have the same number of coefficients.
func (pol Poly) Copy(p1 Poly) {
	if len(pol.Coeffs) != len(p1.Coeffs) {
		panic("cannot Copy: polynomials have different numbers of coefficients")
	}
	for i := range pol.Coeffs {
		pol.Coeffs[i].Set(p1.Coeffs[i])
	}
}

// CopyNew creates an exact copy of the target polynomial.
func (pol Poly) CopyNew() (p Poly) {
	p = NewPoly(pol.N())
	p.Copy(pol)
	return
}

// Equal returns true if the receiver Poly is equal to the provided other Poly.
func (pol Poly) Equal(other *Poly) bool {
	if len(pol.Coeffs) != len(other.Coeffs) {
		return false
	}
	for i := range pol.Coeffs {
		if pol.Coeffs[i].Cmp(other.Coeffs[i]) != 0 {
			return false
		}
	}
	return true
}

// BinarySize returns the size in bytes that the object once marshalled into a binary form.
func (pol Poly) BinarySize() (size int) {
	size = 8
	for _, c := range pol.Coeffs {
		size += buffer.BigIntSize(c)
	}
	return
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
func (pol Poly) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int
		if inc, err = buffer.WriteInt(w, len(pol.Coeffs)); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)

		for _, c := range pol.Coeffs {
			if inc, err = buffer.WriteBigInt(w, c); err != nil {
				return n + int64(inc), err
			}

			n += int64(inc)
		}

		return n, w.Flush()
	default:
		return pol.WriteTo(bufio.NewWriter(w))
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
func (pol *Poly) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var size, inc int
		if inc, err = buffer.ReadInt(r, &size); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)

		if size < 0 {
			return n, io.ErrUnexpectedEOF
		}

		if len(pol.Coeffs) != size {
			pol.Coeffs = make([]*big.Int, size)
		}

		for i := range pol.Coeffs {

			if pol.Coeffs[i] == nil {
				pol.Coeffs[i] = new(big.Int)
			}

			if inc, err = buffer.ReadBigInt(r, pol.Coeffs[i]); err != nil {
				return n + int64(inc), err
			}

			n += int64(inc)
		}

		return n, nil
	default:
		return pol.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (pol Poly) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(pol.BinarySize())
	_, err = pol.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by MarshalBinary or
// WriteTo on the object.
func (pol *Poly) UnmarshalBinary(data []byte) (err error) {
	_, err = pol.ReadFrom(buffer.NewBuffer(data))
	return
}
