package bootstrapping

import (
	"bufio"
	"fmt"
	"io"
	"math/big"

	"github.com/gf38/Dissertation/icp"
	"github.com/gf38/Dissertation/utils/bignum"
	"github.com/gf38/Dissertation/utils/buffer"
	"github.com/gf38/Dissertation/utils/sampling"
)

// RecryptionKey is a struct storing the public material of the squashed
// decryption: Theta fractions of the modulus together with the encryptions
// of the selector bits marking the secret subset of fractions whose sum is
// congruent to the decryption coefficient modulo twice the modulus.
type RecryptionKey struct {
	// Fractions holds Theta integers in [0, 2d), the fraction k standing for
	// the rational Fractions[k]/d.
	Fractions []*big.Int

	// Selectors holds the encryptions of the selector bits, one per fraction.
	Selectors []*icp.Ciphertext
}

// GenRecryptionKeyNew generates the recryption key of sk under pk. The
// fraction sum targets the first odd coefficient of the scaled inverse, the
// coefficient the [icp.Decryptor] reduces by. Congruences are taken modulo
// twice the modulus so that reducing the fraction sum only offsets the
// decryption quotient by an even integer, which the rounding of the circuit
// discards.
//
// The key is a deterministic function of sk: both the fractions and the
// selector encryptions are derived from a PRNG keyed with a hash of sk, so
// the same secret key always regenerates the same recryption key.
func (p Parameters) GenRecryptionKeyNew(params icp.Parameters, sk *icp.SecretKey, pk *icp.PublicKey) (rk *RecryptionKey, err error) {

	if err = p.Validate(); err != nil {
		return nil, fmt.Errorf("cannot GenRecryptionKeyNew: %w", err)
	}

	if sk == nil || sk.Det == nil {
		return nil, fmt.Errorf("cannot GenRecryptionKeyNew: sk is nil or has nil values")
	}

	var wOdd *big.Int
	for _, c := range sk.ScaledInverse.Coeffs {
		if c.Bit(0) == 1 {
			wOdd = c
			break
		}
	}

	if wOdd == nil {
		return nil, fmt.Errorf("cannot GenRecryptionKeyNew: sk scaled inverse has no odd coefficient")
	}

	d2 := new(big.Int).Lsh(sk.Det, 1)
	target := new(big.Int).Mod(wOdd, d2)

	seed, err := icp.PRNGKey(sk)
	if err != nil {
		return nil, fmt.Errorf("cannot GenRecryptionKeyNew: %w", err)
	}

	prng, err := sampling.NewKeyedPRNG(seed)
	if err != nil {
		return nil, fmt.Errorf("cannot GenRecryptionKeyNew: %w", err)
	}

	// Samples the subset as the head of a random permutation of the indices.
	perm := make([]int, p.Theta)
	for i := range perm {
		perm[i] = i
	}

	for i := p.Theta - 1; i > 0; i-- {
		j := int(bignum.RandInt(prng, new(big.Int).SetInt64(int64(i+1))).Int64())
		perm[i], perm[j] = perm[j], perm[i]
	}

	subset := perm[:p.Weight]

	fractions := make([]*big.Int, p.Theta)
	for k := range fractions {
		fractions[k] = bignum.RandInt(prng, d2)
	}

	// The last fraction of the subset closes the sum on the target.
	sum := new(big.Int)
	for _, k := range subset[:p.Weight-1] {
		sum.Add(sum, fractions[k])
	}

	last := fractions[subset[p.Weight-1]]
	last.Sub(target, sum)
	last.Mod(last, d2)

	selected := make([]uint64, p.Theta)
	for _, k := range subset {
		selected[k] = 1
	}

	enc := icp.NewEncryptor(params, pk).WithPRNG(prng)

	selectors := make([]*icp.Ciphertext, p.Theta)
	for k := range selectors {
		if selectors[k], err = enc.EncryptNew(selected[k]); err != nil {
			return nil, fmt.Errorf("cannot GenRecryptionKeyNew: %w", err)
		}
	}

	return &RecryptionKey{Fractions: fractions, Selectors: selectors}, nil
}

// Equal performs a deep equal.
func (rk RecryptionKey) Equal(other *RecryptionKey) (res bool) {

	res = len(rk.Fractions) == len(other.Fractions)
	res = res && len(rk.Selectors) == len(other.Selectors)

	if !res {
		return
	}

	for k, z := range rk.Fractions {
		res = res && z.Cmp(other.Fractions[k]) == 0
	}

	for k, ct := range rk.Selectors {
		res = res && ct.Equal(other.Selectors[k])
	}

	return
}

// BinarySize returns the size in bytes that the object once marshalled into a binary form.
func (rk RecryptionKey) BinarySize() (size int) {

	size = 8
	for _, z := range rk.Fractions {
		size += buffer.BigIntSize(z)
	}

	size += 8
	for _, ct := range rk.Selectors {
		size += ct.BinarySize()
	}

	return
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (rk RecryptionKey) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int
		if inc, err = buffer.WriteInt(w, len(rk.Fractions)); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)

		for _, z := range rk.Fractions {
			if inc, err = buffer.WriteBigInt(w, z); err != nil {
				return n + int64(inc), err
			}

			n += int64(inc)
		}

		if inc, err = buffer.WriteInt(w, len(rk.Selectors)); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)

		var inc64 int64
		for _, ct := range rk.Selectors {
			if inc64, err = ct.WriteTo(w); err != nil {
				return n + inc64, err
			}

			n += inc64
		}

		return n, w.Flush()
	default:
		return rk.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (rk *RecryptionKey) ReadFrom(r io.Reader) (n int64, err error) {
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

		rk.Fractions = make([]*big.Int, size)
		for k := range rk.Fractions {
			rk.Fractions[k] = new(big.Int)
			if inc, err = buffer.ReadBigInt(r, rk.Fractions[k]); err != nil {
				return n + int64(inc), err
			}

			n += int64(inc)
		}

		if inc, err = buffer.ReadInt(r, &size); err != nil {
			return n + int64(inc), err
		}

		n += int64(inc)

		if size < 0 {
			return n, io.ErrUnexpectedEOF
		}

		var inc64 int64
		rk.Selectors = make([]*icp.Ciphertext, size)
		for k := range rk.Selectors {
			rk.Selectors[k] = icp.NewCiphertext()
			if inc64, err = rk.Selectors[k].ReadFrom(r); err != nil {
				return n + inc64, err
			}

			n += inc64
		}

		return n, nil
	default:
		return rk.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (rk RecryptionKey) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(rk.BinarySize())
	_, err = rk.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by MarshalBinary or
// WriteTo on the object.
func (rk *RecryptionKey) UnmarshalBinary(p []byte) (err error) {
	_, err = rk.ReadFrom(buffer.NewBuffer(p))
	return
}
