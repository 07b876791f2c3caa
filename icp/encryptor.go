package icp

import (
	"fmt"
	"math/big"

	"github.com/gf38/Dissertation/ring"
	"github.com/gf38/Dissertation/utils/sampling"
)

// Encryptor is a structure used to encrypt bits. It stores the public key.
type Encryptor struct {
	params Parameters
	pk     *PublicKey

	prng      sampling.PRNG
	xeSampler ring.Sampler
	buffA     ring.Poly
}

// NewEncryptor instantiates a new Encryptor for the provided public key.
// The method panics if the public key is not correct for the parameters.
func NewEncryptor(params Parameters, pk *PublicKey) *Encryptor {

	if err := pk.Validate(params); err != nil {
		panic(fmt.Errorf("cannot NewEncryptor: %w", err))
	}

	prng, err := sampling.NewPRNG()
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}

	xeSampler, err := ring.NewSampler(prng, params.Ring(), params.Xe())
	if err != nil {
		// Sanity check, this error should not happen.
		panic(fmt.Errorf("cannot NewEncryptor: %w", err))
	}

	return &Encryptor{
		params:    params,
		pk:        pk,
		prng:      prng,
		xeSampler: xeSampler,
		buffA:     params.Ring().NewPoly(),
	}
}

// GetParameters returns the underlying [Parameters].
func (enc Encryptor) GetParameters() *Parameters {
	return &enc.params
}

// Encrypt encrypts the bit m under the stored public key and writes the
// result on ct. The noise polynomial a = 2u + m is sampled fresh from the
// Xe distribution of the parameters and the ciphertext is the evaluation
// [a(r)]_d reduced into the centered interval of the modulus.
func (enc Encryptor) Encrypt(m uint64, ct *Ciphertext) (err error) {

	if m > 1 {
		return fmt.Errorf("cannot Encrypt: message must be a bit but is %d", m)
	}

	enc.xeSampler.Read(enc.buffA)

	for _, c := range enc.buffA.Coeffs {
		c.Lsh(c, 1)
	}

	enc.buffA.Coeffs[0].Add(enc.buffA.Coeffs[0], new(big.Int).SetUint64(m))

	eval := enc.params.Ring().Evaluate(enc.buffA, enc.pk.Root, enc.pk.Det)

	ct.Value.Set(ring.CenteredMod(eval, enc.pk.Det))

	return
}

// EncryptNew encrypts the bit m under the stored public key and returns a
// newly allocated Ciphertext containing the result.
func (enc Encryptor) EncryptNew(m uint64) (ct *Ciphertext, err error) {
	ct = NewCiphertext()
	return ct, enc.Encrypt(m, ct)
}

// WithPRNG returns this encryptor with prng as its source of randomness for
// the noise polynomial.
// The returned encryptor isn't safe to use concurrently with the original
// encryptor.
func (enc Encryptor) WithPRNG(prng sampling.PRNG) *Encryptor {
	enc.prng = prng
	enc.xeSampler = enc.xeSampler.WithPRNG(prng)
	return &enc
}

// WithKey returns this encryptor with the provided public key.
// The returned encryptor shares its buffers with the original encryptor and
// isn't safe to use concurrently with it.
// The method panics if the public key is not correct for the parameters.
func (enc Encryptor) WithKey(pk *PublicKey) *Encryptor {
	if err := pk.Validate(enc.params); err != nil {
		panic(fmt.Errorf("cannot WithKey: %w", err))
	}
	enc.pk = pk
	return &enc
}

// ShallowCopy creates a shallow copy of this Encryptor in which all the
// read-only data-structures are shared with the receiver and the temporary
// buffers are reallocated. The receiver and the returned Encryptor can be
// used concurrently.
func (enc Encryptor) ShallowCopy() *Encryptor {
	return NewEncryptor(enc.params, enc.pk)
}
