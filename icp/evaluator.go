package icp

import (
	"fmt"
	"math/big"

	"github.com/gf38/Dissertation/ring"
)

// Evaluator is a structure that evaluates homomorphic operations on
// Ciphertexts. It stores the public key, whose modulus defines the ciphertext
// space.
//
// Every operation reduces its result into the centered interval [-d/2, d/2]
// of the modulus. The reduction keeps the size of the ciphertexts bounded by
// the modulus and does not affect the noise, since integer multiples of the
// modulus evaluate to lattice points.
type Evaluator struct {
	params Parameters
	pk     *PublicKey
}

// NewEvaluator instantiates a new Evaluator for the provided public key.
// The method panics if the public key is not correct for the parameters.
func NewEvaluator(params Parameters, pk *PublicKey) *Evaluator {

	if err := pk.Validate(params); err != nil {
		panic(fmt.Errorf("cannot NewEvaluator: %w", err))
	}

	return &Evaluator{
		params: params,
		pk:     pk,
	}
}

// GetParameters returns the underlying [Parameters].
func (eval Evaluator) GetParameters() *Parameters {
	return &eval.params
}

// Add evaluates opOut = op0 + op1. On bit plaintexts the addition acts as an
// exclusive or.
func (eval Evaluator) Add(op0, op1, opOut *Ciphertext) {
	opOut.Value.Add(op0.Value, op1.Value)
	eval.reduce(opOut)
}

// AddNew evaluates opOut = op0 + op1 and returns the result on a new
// Ciphertext.
func (eval Evaluator) AddNew(op0, op1 *Ciphertext) (opOut *Ciphertext) {
	opOut = NewCiphertext()
	eval.Add(op0, op1, opOut)
	return
}

// Sub evaluates opOut = op0 - op1. On bit plaintexts the subtraction acts as
// an exclusive or.
func (eval Evaluator) Sub(op0, op1, opOut *Ciphertext) {
	opOut.Value.Sub(op0.Value, op1.Value)
	eval.reduce(opOut)
}

// SubNew evaluates opOut = op0 - op1 and returns the result on a new
// Ciphertext.
func (eval Evaluator) SubNew(op0, op1 *Ciphertext) (opOut *Ciphertext) {
	opOut = NewCiphertext()
	eval.Sub(op0, op1, opOut)
	return
}

// Neg evaluates opOut = -op0, which leaves the bit plaintext unchanged.
func (eval Evaluator) Neg(op0, opOut *Ciphertext) {
	opOut.Value.Neg(op0.Value)
	eval.reduce(opOut)
}

// NegNew evaluates opOut = -op0 and returns the result on a new Ciphertext.
func (eval Evaluator) NegNew(op0 *Ciphertext) (opOut *Ciphertext) {
	opOut = NewCiphertext()
	eval.Neg(op0, opOut)
	return
}

// Mul evaluates opOut = op0 * op1. On bit plaintexts the multiplication acts
// as an and. The noise of the result is roughly the product of the noises of
// the operands.
func (eval Evaluator) Mul(op0, op1, opOut *Ciphertext) {
	opOut.Value.Mul(op0.Value, op1.Value)
	eval.reduce(opOut)
}

// MulNew evaluates opOut = op0 * op1 and returns the result on a new
// Ciphertext.
func (eval Evaluator) MulNew(op0, op1 *Ciphertext) (opOut *Ciphertext) {
	opOut = NewCiphertext()
	eval.Mul(op0, op1, opOut)
	return
}

// AddScalar evaluates opOut = op0 + scalar.
func (eval Evaluator) AddScalar(op0 *Ciphertext, scalar *big.Int, opOut *Ciphertext) {
	opOut.Value.Add(op0.Value, scalar)
	eval.reduce(opOut)
}

// AddScalarNew evaluates opOut = op0 + scalar and returns the result on a new
// Ciphertext.
func (eval Evaluator) AddScalarNew(op0 *Ciphertext, scalar *big.Int) (opOut *Ciphertext) {
	opOut = NewCiphertext()
	eval.AddScalar(op0, scalar, opOut)
	return
}

// MulScalar evaluates opOut = op0 * scalar.
func (eval Evaluator) MulScalar(op0 *Ciphertext, scalar *big.Int, opOut *Ciphertext) {
	opOut.Value.Mul(op0.Value, scalar)
	eval.reduce(opOut)
}

// MulScalarNew evaluates opOut = op0 * scalar and returns the result on a new
// Ciphertext.
func (eval Evaluator) MulScalarNew(op0 *Ciphertext, scalar *big.Int) (opOut *Ciphertext) {
	opOut = NewCiphertext()
	eval.MulScalar(op0, scalar, opOut)
	return
}

// WithKey returns this evaluator with the provided public key.
// The method panics if the public key is not correct for the parameters.
func (eval Evaluator) WithKey(pk *PublicKey) *Evaluator {
	if err := pk.Validate(eval.params); err != nil {
		panic(fmt.Errorf("cannot WithKey: %w", err))
	}
	eval.pk = pk
	return &eval
}

// ShallowCopy creates a shallow copy of this Evaluator. The Evaluator is
// stateless, so the receiver and the returned Evaluator can be used
// concurrently.
func (eval Evaluator) ShallowCopy() *Evaluator {
	return &eval
}

func (eval Evaluator) reduce(ct *Ciphertext) {
	ct.Value.Set(ring.CenteredMod(ct.Value, eval.pk.Det))
}
