package icp

import (
	"fmt"
	"math"
	"math/big"

	"github.com/gf38/Dissertation/ring"
)

// Decryptor is a structure used to decrypt Ciphertexts. It stores the secret key.
type Decryptor struct {
	params Parameters
	sk     *SecretKey

	// index of an odd coefficient of the scaled inverse, used for the parity
	// decoding of the noise
	oddIndex int

	buff *big.Int
}

// NewDecryptor instantiates a new Decryptor for the provided secret key.
// The method panics if the secret key is not correct for the parameters.
func NewDecryptor(params Parameters, sk *SecretKey) *Decryptor {

	oddIndex, err := checkSecretKey(params, sk)
	if err != nil {
		panic(fmt.Errorf("cannot NewDecryptor: %w", err))
	}

	return &Decryptor{
		params:   params,
		sk:       sk,
		oddIndex: oddIndex,
		buff:     new(big.Int),
	}
}

// GetParameters returns the underlying [Parameters].
func (dec Decryptor) GetParameters() *Parameters {
	return &dec.params
}

// DecryptNew decrypts the Ciphertext and returns the encrypted bit. The bit
// is recovered as the parity of the centered product [c * w_i]_d, where w_i
// is an odd coefficient of the scaled inverse. The result is correct as long
// as the noise of the ciphertext remains strictly below half the determinant.
func (dec Decryptor) DecryptNew(ct *Ciphertext) uint64 {
	dec.buff.Mul(ct.Value, dec.sk.ScaledInverse.Coeffs[dec.oddIndex])
	return uint64(ring.CenteredMod(dec.buff, dec.sk.Det).Bit(0))
}

// NoisePoly returns the noise polynomial of the ciphertext, i.e. the vector
// of the centered products [c * w_i]_d over all coefficients w_i of the
// scaled inverse. For a decryptable ciphertext this is exactly the product
// a * w mod x^N + 1 of the underlying noise polynomial a with the scaled
// inverse.
func (dec Decryptor) NoisePoly(ct *Ciphertext) (noise ring.Poly) {
	noise = ring.NewPoly(dec.params.N())
	for i, w := range dec.sk.ScaledInverse.Coeffs {
		dec.buff.Mul(ct.Value, w)
		noise.Coeffs[i].Set(ring.CenteredMod(dec.buff, dec.sk.Det))
	}
	return
}

// Noise returns the infinity norm of the noise polynomial of the ciphertext.
// The ciphertext decrypts correctly whenever the returned norm is strictly
// below half the determinant.
func (dec Decryptor) Noise(ct *Ciphertext) (norm *big.Int) {
	norm = new(big.Int)
	for _, w := range dec.sk.ScaledInverse.Coeffs {
		dec.buff.Mul(ct.Value, w)
		if e := ring.CenteredMod(dec.buff, dec.sk.Det); e.CmpAbs(norm) > 0 {
			norm.Abs(e)
		}
	}
	return
}

// NoiseBudget returns the remaining noise budget of the ciphertext in bits,
// i.e. log2(d / (2 * noise)). The ciphertext stops decrypting correctly once
// its budget falls below zero. A noise-free ciphertext has an infinite
// budget.
func (dec Decryptor) NoiseBudget(ct *Ciphertext) float64 {
	norm := dec.Noise(ct)
	if norm.Sign() == 0 {
		return math.Inf(1)
	}
	return log2OfRatio(dec.sk.Det, norm.Lsh(norm, 1))
}

// ShallowCopy creates a shallow copy of this Decryptor in which all the
// read-only data-structures are shared with the receiver and the temporary
// buffers are reallocated. The receiver and the returned Decryptor can be
// used concurrently.
func (dec Decryptor) ShallowCopy() *Decryptor {
	return &Decryptor{
		params:   dec.params,
		sk:       dec.sk,
		oddIndex: dec.oddIndex,
		buff:     new(big.Int),
	}
}

// WithKey creates a shallow copy of this Decryptor with a new decryption key.
// The method panics if the secret key is not correct for the parameters.
func (dec Decryptor) WithKey(sk *SecretKey) *Decryptor {
	return NewDecryptor(dec.params, sk)
}

// checkSecretKey validates the given sk against the parameters and returns
// the index of the first odd coefficient of its scaled inverse.
func checkSecretKey(params Parameters, sk *SecretKey) (oddIndex int, err error) {

	if err = sk.Validate(params); err != nil {
		return 0, err
	}

	for i, w := range sk.ScaledInverse.Coeffs {
		if w.Bit(0) == 1 {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: sk scaled inverse has no odd coefficient", ErrInvalidPrivateKey)
}
