package ring

import (
	"fmt"
	"math/big"

	"github.com/gf38/Dissertation/utils/bignum"
	"github.com/gf38/Dissertation/utils/sampling"
)

// UniformSampler wraps a sampling.PRNG and represents the state of a sampler
// of polynomials with coefficients uniformly distributed in [0, Max).
type UniformSampler struct {
	*baseSampler
	max *big.Int
}

// NewUniformSampler creates a new instance of UniformSampler from a PRNG, the
// ring definition and the distribution parameters (see type Uniform).
func NewUniformSampler(prng sampling.PRNG, baseRing *Ring, X Uniform) (u *UniformSampler, err error) {
	if X.Max == nil || X.Max.Sign() < 1 {
		return nil, fmt.Errorf("invalid Uniform distribution: Max should be a positive integer")
	}
	u = new(UniformSampler)
	u.baseSampler = &baseSampler{}
	u.baseRing = baseRing
	u.prng = prng
	u.max = new(big.Int).Set(X.Max)
	return
}

// WithPRNG returns an instance of the target UniformSampler sampling from the
// given PRNG. The returned sampler shares the distribution parameters of the
// original sampler.
func (u *UniformSampler) WithPRNG(prng sampling.PRNG) Sampler {
	return &UniformSampler{
		baseSampler: &baseSampler{prng: prng, baseRing: u.baseRing},
		max:         u.max,
	}
}

// Read samples a polynomial with coefficients uniform in [0, Max) into pol.
func (u *UniformSampler) Read(pol Poly) {
	for i := range pol.Coeffs {
		pol.Coeffs[i].Set(bignum.RandInt(u.prng, u.max))
	}
}

// ReadNew allocates and samples a polynomial with coefficients uniform in
// [0, Max).
func (u *UniformSampler) ReadNew() (pol Poly) {
	pol = u.baseRing.NewPoly()
	u.Read(pol)
	return pol
}
