package icp

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/gf38/Dissertation/lattice"
	"github.com/gf38/Dissertation/ring"
	"github.com/gf38/Dissertation/utils/sampling"
)

// ErrKeyGenerationExhausted is returned by GenKeyPairNew when no admissible
// key pair was found within the MaxAttempts bound of the parameters.
var ErrKeyGenerationExhausted = errors.New("key generation attempts exhausted")

// KeyGenerator is a structure that generates key pairs for the scheme.
//
// A key pair is derived from a candidate generator v sampled uniformly with
// coefficients in [0, T). The candidate is admissible when
//   - the determinant of its rotation basis is odd, which guarantees an odd
//     coefficient in the scaled inverse and so supports the parity decoding
//     of decryption,
//   - the noise budget of the resulting secret key reaches the MinNoiseBudget
//     bound of the parameters,
//   - the rotation lattice of v has a restricted Hermite normal form, so that
//     the public key reduces to the two integers (d, r).
//
// Candidates are redrawn until one is admissible or MaxAttempts candidates
// have been consumed.
type KeyGenerator struct {
	params Parameters

	prng     sampling.PRNG
	vSampler ring.Sampler

	attempts int
}

// NewKeyGenerator instantiates a new KeyGenerator for the provided
// parameters.
func NewKeyGenerator(params Parameters) *KeyGenerator {

	prng, err := sampling.NewPRNG()
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}

	vSampler, err := ring.NewUniformSampler(prng, params.Ring(), ring.Uniform{Max: params.T()})
	if err != nil {
		// Sanity check, this error should not happen.
		panic(fmt.Errorf("cannot NewKeyGenerator: %w", err))
	}

	return &KeyGenerator{
		params:   params,
		prng:     prng,
		vSampler: vSampler,
	}
}

// WithPRNG returns this key generator with prng as its source of randomness
// for the candidate generators. Instantiating the prng from a known key makes
// the generation reproducible.
// The returned key generator isn't safe to use concurrently with the original
// key generator.
func (kgen *KeyGenerator) WithPRNG(prng sampling.PRNG) *KeyGenerator {
	cpy := *kgen
	cpy.prng = prng
	cpy.vSampler = kgen.vSampler.WithPRNG(prng)
	cpy.attempts = 0
	return &cpy
}

// Attempts returns the number of candidate generators consumed by the last
// call to GenKeyPairNew.
func (kgen *KeyGenerator) Attempts() int {
	return kgen.attempts
}

// GenKeyPairNew generates a new admissible key pair. It returns
// ErrKeyGenerationExhausted (wrapped) if no candidate generator was
// admissible within the MaxAttempts bound of the parameters.
func (kgen *KeyGenerator) GenKeyPairNew() (sk *SecretKey, pk *PublicKey, err error) {

	r := kgen.params.Ring()

	kgen.attempts = 0

	for kgen.attempts < kgen.params.MaxAttempts() {

		kgen.attempts++

		v := kgen.vSampler.ReadNew()

		// an even v(1) forces an even determinant
		if parityAtOne(v) == 0 {
			continue
		}

		det := lattice.Determinant(lattice.RotationBasis(r, v))
		det.Abs(det)

		// an odd v(1) does not suffice: when N has odd factors, x^N + 1 has
		// factors other than x + 1 modulo 2 and the determinant can still be
		// even
		if det.Bit(0) == 0 {
			continue
		}

		w, err := r.ScaledInverse(v, det)
		if err != nil {
			continue
		}

		sk = &SecretKey{Value: v, ScaledInverse: w, Det: det}

		if sk.NoiseBudget() < kgen.params.MinNoiseBudget() {
			continue
		}

		root, ok := kgen.restrictedForm(v, w, det)
		if !ok {
			continue
		}

		pk = &PublicKey{Det: new(big.Int).Set(det), Root: root}

		return sk, pk, nil
	}

	return nil, nil, fmt.Errorf("cannot GenKeyPairNew: %w: no admissible candidate within %d attempts", ErrKeyGenerationExhausted, kgen.params.MaxAttempts())
}

// restrictedForm derives the root r of the restricted Hermite normal form
// (d, r) of the rotation lattice of v. It first divides consecutive
// coefficients of the scaled inverse, which exposes the root whenever some
// coefficient is invertible modulo the determinant, and falls back to the
// full Hermite normal form reduction of the rotation basis otherwise. The
// candidate root is certified against the scaled inverse in both cases; ok
// is false if the lattice has no restricted form.
func (kgen *KeyGenerator) restrictedForm(v, w ring.Poly, det *big.Int) (root *big.Int, ok bool) {

	n := w.N()

	inv := new(big.Int)
	for i := 0; i < n; i++ {

		if inv.ModInverse(w.Coeffs[i], det) == nil {
			continue
		}

		// x*w is the rotation of w, so (x - r)*w = 0 mod d implies
		// w_{i-1} = r*w_i mod d, with -w_{n-1} folding around as w_{-1}
		root = new(big.Int)
		if i == 0 {
			root.Neg(w.Coeffs[n-1])
		} else {
			root.Set(w.Coeffs[i-1])
		}

		root.Mul(root, inv)
		root.Mod(root, det)

		return root, certifyRoot(w, det, root)
	}

	hnf := lattice.HermiteNormalForm(lattice.RotationBasis(kgen.params.Ring(), v), det)

	if hnf.At(0, 0).Cmp(det) != 0 {
		return nil, false
	}
	one := new(big.Int).SetInt64(1)
	for i := 1; i < n; i++ {
		if hnf.At(i, i).Cmp(one) != 0 {
			return nil, false
		}
	}

	root = new(big.Int).Neg(hnf.At(1, 0))
	root.Mod(root, det)

	return root, certifyRoot(w, det, root)
}

// certifyRoot verifies that root is the root of a restricted Hermite normal
// form supported by the scaled inverse w, i.e. that (x - root)*w vanishes
// coefficient-wise modulo det and that root^N = -1 mod det.
func certifyRoot(w ring.Poly, det, root *big.Int) bool {

	n := w.N()

	lhs := new(big.Int)
	tmp := new(big.Int)

	for i := 0; i < n; i++ {

		if i == 0 {
			lhs.Neg(w.Coeffs[n-1])
		} else {
			lhs.Set(w.Coeffs[i-1])
		}

		lhs.Sub(lhs, tmp.Mul(root, w.Coeffs[i]))

		if lhs.Mod(lhs, det).Sign() != 0 {
			return false
		}
	}

	rN := new(big.Int).Exp(root, new(big.Int).SetInt64(int64(n)), det)
	rN.Add(rN, new(big.Int).SetInt64(1))

	return rN.Cmp(det) == 0
}

// parityAtOne returns the parity of the evaluation of v at 1, i.e. the
// parity of the sum of its coefficients.
func parityAtOne(v ring.Poly) (parity uint) {
	for _, c := range v.Coeffs {
		parity ^= c.Bit(0)
	}
	return
}
