package bootstrapping

import (
	"fmt"
	"math/big"

	"github.com/gf38/Dissertation/icp"
)

// Bootstrapper is a struct storing the public material required to refresh
// ciphertexts, i.e. the recryption key of the secret key and an evaluator
// for the public key.
type Bootstrapper struct {
	params    icp.Parameters
	btpParams Parameters
	pk        *icp.PublicKey
	rk        *RecryptionKey

	eval *icp.Evaluator
}

// NewBootstrapper creates a new Bootstrapper from the recryption key rk.
func NewBootstrapper(params icp.Parameters, btpParams Parameters, pk *icp.PublicKey, rk *RecryptionKey) (btp *Bootstrapper, err error) {

	if err = btpParams.Validate(); err != nil {
		return nil, fmt.Errorf("cannot NewBootstrapper: %w", err)
	}

	if pk == nil {
		return nil, fmt.Errorf("cannot NewBootstrapper: pk is nil")
	}

	if rk == nil {
		return nil, fmt.Errorf("cannot NewBootstrapper: rk is nil")
	}

	if len(rk.Fractions) != btpParams.Theta || len(rk.Selectors) != btpParams.Theta {
		return nil, fmt.Errorf("cannot NewBootstrapper: rk holds %d fractions and %d selectors but Theta is %d",
			len(rk.Fractions), len(rk.Selectors), btpParams.Theta)
	}

	return &Bootstrapper{
		params:    params,
		btpParams: btpParams,
		pk:        pk,
		rk:        rk,
		eval:      icp.NewEvaluator(params, pk),
	}, nil
}

// GetParameters returns the underlying [icp.Parameters].
func (btp Bootstrapper) GetParameters() *icp.Parameters {
	return &btp.params
}

// GetBootstrappingParameters returns the circuit [Parameters].
func (btp Bootstrapper) GetBootstrappingParameters() *Parameters {
	return &btp.btpParams
}

// Bootstrap refreshes ct, returning a new ciphertext encrypting the same bit
// with the noise of the squashed decryption circuit evaluated on the fresh
// selector encryptions, independent of the noise of ct. The input must
// retain strictly more than one bit of noise budget, i.e. its noise must be
// below a quarter of the modulus.
//
// The circuit consists of 3 steps.
//  1. Expand: reduce ct against every fraction of the recryption key modulo
//     twice the modulus and truncate to Precision fractional bits, giving
//     Theta public fixed-point numbers whose selected sum rounds to the
//     decryption quotient modulo 2.
//  2. Accumulate: gate the bits of the fixed-point numbers with the
//     encrypted selectors and reduce each bit column to the two bits of its
//     weight, the parity and the pair count, leaving two binary summands.
//  3. Round: add the two summands, read the rounded parity off the two top
//     sum bits and correct it by the parity of ct.
func (btp Bootstrapper) Bootstrap(ct *icp.Ciphertext) (*icp.Ciphertext, error) {

	if ct == nil || ct.Value == nil {
		return nil, fmt.Errorf("cannot Bootstrap: ct is nil or has nil value")
	}

	kappa := btp.btpParams.Precision

	// Step 1: Expand
	// p_k = floor(((c * z_k) mod 2d) * 2^kappa / d) on kappa+1 bits.
	// Column j collects the selectors of the fractions with bit j set.
	d2 := new(big.Int).Lsh(btp.pk.Det, 1)

	columns := make([][]*icp.Ciphertext, kappa+1)
	p := new(big.Int)
	for k, z := range btp.rk.Fractions {

		p.Mul(ct.Value, z)
		p.Mod(p, d2)
		p.Lsh(p, uint(kappa))
		p.Quo(p, btp.pk.Det)

		for j := 0; j <= kappa; j++ {
			if p.Bit(j) == 1 {
				columns[j] = append(columns[j], btp.rk.Selectors[k])
			}
		}
	}

	// Step 2: Accumulate
	// A column holds at most Weight <= 3 selected bits, so its weight fits
	// on the two bits (pairs, parity). The pair bit of the top column is
	// dropped along with the carries beyond bit kappa, as they only offset
	// the quotient by even integers.
	first := make(icp.BinaryInteger, kappa+1)
	second := make(icp.BinaryInteger, kappa+1)
	second[0] = icp.NewTrivialCiphertext(0)

	for j, column := range columns {
		first[j] = btp.parity(column)
		if j < kappa {
			second[j+1] = btp.pairs(column)
		}
	}

	// Step 3: Round
	// The parity of the rounded sum is the XOR of the two top bits.
	sum := icp.AddNew(btp.eval, first, second)

	out := btp.eval.AddNew(sum[kappa], sum[kappa-1])
	btp.eval.Add(out, icp.NewTrivialCiphertext(uint64(ct.Value.Bit(0))), out)

	return out, nil
}

// parity returns the encrypted first bit of the weight of the column, the
// XOR of its selectors.
func (btp Bootstrapper) parity(column []*icp.Ciphertext) (acc *icp.Ciphertext) {

	if len(column) == 0 {
		return icp.NewTrivialCiphertext(0)
	}

	acc = column[0].CopyNew()
	for _, sel := range column[1:] {
		btp.eval.Add(acc, sel, acc)
	}

	return
}

// pairs returns the encrypted second bit of the weight of the column, the
// parity of the number of selected pairs. The two bit encoding of the weight
// holds for columns of at most 3 selectors.
func (btp Bootstrapper) pairs(column []*icp.Ciphertext) (acc *icp.Ciphertext) {

	if len(column) < 2 {
		return icp.NewTrivialCiphertext(0)
	}

	acc = icp.NewCiphertext()
	tmp := icp.NewCiphertext()
	for i := range column {
		for j := i + 1; j < len(column); j++ {
			btp.eval.Mul(column[i], column[j], tmp)
			btp.eval.Add(acc, tmp, acc)
		}
	}

	return
}
