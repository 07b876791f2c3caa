package bootstrapping

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/bits"

	"github.com/gf38/Dissertation/utils/buffer"
)

// Parameters is a struct storing the parameters of the squashed decryption
// circuit.
type Parameters struct {
	// Theta is the number of public fractions published in the recryption
	// key. It must be at least Weight.
	Theta int

	// Weight is the size of the secret subset of fractions adding up to the
	// decryption coefficient. It must lie in [1, 3] so that the weight of
	// every column of the accumulation fits on two encrypted bits.
	Weight int

	// Precision is the number of fractional bits kept when the fractions are
	// reduced against a ciphertext. It must be at least MinPrecision for the
	// rounding of the homomorphic decryption to be exact.
	Precision int
}

// DefaultParameters is a default parameterization of the squashed decryption
// circuit, with eight fractions, a subset of three and the minimum precision.
var DefaultParameters = Parameters{Theta: 8, Weight: 3, Precision: 4}

// Validate checks that the parameters define a correct squashed decryption
// circuit and returns an error if they do not.
func (p Parameters) Validate() (err error) {

	if p.Weight < 1 || p.Weight > 3 {
		return fmt.Errorf("weight must be in [1, 3] but is %d", p.Weight)
	}

	if p.Theta < p.Weight {
		return fmt.Errorf("theta must be at least the weight %d but is %d", p.Weight, p.Theta)
	}

	if min := p.MinPrecision(); p.Precision < min {
		return fmt.Errorf("precision must be at least %d for weight %d but is %d", min, p.Weight, p.Precision)
	}

	return
}

// MinPrecision returns the smallest precision for which the rounding of the
// homomorphic decryption remains exact under the weight of the parameters:
// each of the Weight selected fractions is truncated to Precision fractional
// bits, and the accumulated truncation error must stay below a quarter.
func (p Parameters) MinPrecision() int {
	return bits.Len(uint(p.Weight)) + 2
}

// Equal checks two Parameter structs for equality.
func (p Parameters) Equal(other *Parameters) bool {
	return p == *other
}

// MarshalBinary returns a []byte representation of the parameter set.
// This representation corresponds to the MarshalJSON representation.
func (p Parameters) MarshalBinary() ([]byte, error) {
	buf := buffer.NewBufferSize(p.BinarySize())
	_, err := p.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes on the target Parameters.
func (p *Parameters) UnmarshalBinary(data []byte) (err error) {
	_, err = p.ReadFrom(buffer.NewBuffer(data))
	return
}

// MarshalJSON returns a JSON representation of this parameter set. See
// Marshal from the encoding/json package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Theta, Weight, Precision int
	}{p.Theta, p.Weight, p.Precision})
}

// UnmarshalJSON reads a JSON representation of a parameter set into the
// receiver Parameters. See Unmarshal from the encoding/json package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {

	var params struct {
		Theta, Weight, Precision int
	}

	if err = json.Unmarshal(data, &params); err != nil {
		return err
	}

	*p = Parameters{Theta: params.Theta, Weight: params.Weight, Precision: params.Precision}

	return p.Validate()
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (p Parameters) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		bytes, err := p.MarshalJSON()
		if err != nil {
			return 0, err
		}

		var inc int
		if inc, err = buffer.WriteInt(w, len(bytes)); err != nil {
			return int64(inc), fmt.Errorf("buffer.WriteInt: %w", err)
		}

		n = int64(inc)

		if inc, err = w.Write(bytes); err != nil {
			return n + int64(inc), fmt.Errorf("io.Writer.Write: %w", err)
		}

		n += int64(inc)

		return n, w.Flush()
	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (p *Parameters) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var size, inc int
		if inc, err = buffer.ReadInt(r, &size); err != nil {
			return int64(inc), fmt.Errorf("buffer.ReadInt: %w", err)
		}

		n = int64(inc)

		if size < 0 {
			return n, io.ErrUnexpectedEOF
		}

		bytes := make([]byte, size)

		if inc, err = io.ReadFull(r, bytes); err != nil {
			return n + int64(inc), fmt.Errorf("io.ReadFull: %w", err)
		}

		return n + int64(inc), p.UnmarshalJSON(bytes)
	default:
		return p.ReadFrom(bufio.NewReader(r))
	}
}

// BinarySize returns the size in bytes of the marshalled Parameters object.
func (p Parameters) BinarySize() int {
	// XXX: Byte size is hard to predict without marshalling.
	b, _ := p.MarshalJSON()
	return 8 + len(b)
}
