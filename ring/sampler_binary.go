package ring

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/gf38/Dissertation/utils/sampling"
)

const binarySamplerPrecision = uint64(56)

// BinarySampler keeps the state of a polynomial sampler in the binary
// distribution.
type BinarySampler struct {
	*baseSampler
	threshold uint64
	density   float64
	hw        int
	sample    func(pol Poly)
}

// NewBinarySampler creates a new instance of BinarySampler from a PRNG, the
// ring definition and the distribution parameters (see type Binary).
func NewBinarySampler(prng sampling.PRNG, baseRing *Ring, X Binary) (bs *BinarySampler, err error) {
	bs = new(BinarySampler)
	bs.baseSampler = &baseSampler{}
	bs.baseRing = baseRing
	bs.prng = prng
	switch {
	case X.P != 0 && X.H == 0:
		if X.P < 0 || X.P > 1 {
			return nil, fmt.Errorf("invalid Binary distribution: P should be in ]0, 1] but is %f", X.P)
		}
		bs.density = X.P
		bs.threshold = uint64(X.P * math.Exp2(float64(binarySamplerPrecision)))
		bs.sample = bs.sampleProba
	case X.P == 0 && X.H != 0:
		if X.H < 0 || X.H > baseRing.N() {
			return nil, fmt.Errorf("invalid Binary distribution: H should be in [1, %d] but is %d", baseRing.N(), X.H)
		}
		bs.hw = X.H
		bs.sample = bs.sampleSparse
	default:
		return nil, fmt.Errorf("invalid Binary distribution: exactly one of (P, H) should be > 0")
	}
	return
}

// WithPRNG returns an instance of the target BinarySampler sampling from the
// given PRNG. The returned sampler shares the distribution parameters of the
// original sampler.
func (bs *BinarySampler) WithPRNG(prng sampling.PRNG) Sampler {
	s := &BinarySampler{
		baseSampler: &baseSampler{prng: prng, baseRing: bs.baseRing},
		threshold:   bs.threshold,
		density:     bs.density,
		hw:          bs.hw,
	}
	if s.hw != 0 {
		s.sample = s.sampleSparse
	} else {
		s.sample = s.sampleProba
	}
	return s
}

// Read samples a polynomial into pol.
func (bs *BinarySampler) Read(pol Poly) {
	bs.sample(pol)
}

// ReadNew allocates and samples a polynomial.
func (bs *BinarySampler) ReadNew() (pol Poly) {
	pol = bs.baseRing.NewPoly()
	bs.Read(pol)
	return pol
}

func (bs *BinarySampler) sampleProba(pol Poly) {

	N := bs.baseRing.N()

	if bs.density == 0.5 {

		randomBytes := make([]byte, (N+7)>>3)

		if _, err := bs.prng.Read(randomBytes); err != nil {
			// Sanity check, this error should not happen.
			panic(err)
		}

		for i := 0; i < N; i++ {
			pol.Coeffs[i].SetUint64(uint64(randomBytes[i>>3]>>(i&7)) & 1)
		}

		return
	}

	randomBytes := make([]byte, N<<3)

	if _, err := bs.prng.Read(randomBytes); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}

	for i := 0; i < N; i++ {

		// Samples a uniform variable on binarySamplerPrecision bits and
		// compares it to the success threshold.
		u := binary.LittleEndian.Uint64(randomBytes[i<<3:]) >> (64 - binarySamplerPrecision)

		if u < bs.threshold {
			pol.Coeffs[i].SetUint64(1)
		} else {
			pol.Coeffs[i].SetUint64(0)
		}
	}
}

func (bs *BinarySampler) sampleSparse(pol Poly) {

	N := bs.baseRing.N()

	var mask, j uint64

	index := make([]int, N)
	for i := 0; i < N; i++ {
		index[i] = i
	}

	for i := 0; i < bs.hw; i++ {
		mask = (1 << uint64(bits.Len64(uint64(N-i)))) - 1 // rejection sampling of a random variable in [0, len(index)]

		j = randInt32(bs.prng, mask)
		for j >= uint64(N-i) {
			j = randInt32(bs.prng, mask)
		}

		pol.Coeffs[index[j]].SetUint64(1)

		// Removes the element in position j of the slice (order not preserved)
		index[j] = index[len(index)-1]
		index = index[:len(index)-1]
	}

	for _, i := range index {
		pol.Coeffs[i].SetUint64(0)
	}
}

// randInt32 samples a uniform variable in the range [0, mask], where mask is
// of the form 2^n - 1, with n in [0, 32].
func randInt32(prng sampling.PRNG, mask uint64) uint64 {

	// generate random 4 bytes
	randomBytes := make([]byte, 4)
	if _, err := prng.Read(randomBytes); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}

	// return required bits
	return mask & uint64(binary.LittleEndian.Uint32(randomBytes))
}
