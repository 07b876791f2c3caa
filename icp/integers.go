package icp

import (
	"fmt"
)

// BinaryInteger is a little-endian vector of bit Ciphertexts encrypting an
// unsigned integer.
type BinaryInteger []*Ciphertext

// EncryptUintNew encrypts x as a vector of bits bit Ciphertexts, least
// significant digit first, and returns it on a new BinaryInteger.
func EncryptUintNew(enc *Encryptor, x uint64, bits int) (BinaryInteger, error) {

	if bits < 1 || bits > 64 {
		return nil, fmt.Errorf("cannot EncryptUintNew: bits must be in [1, 64] but is %d", bits)
	}

	bi := make(BinaryInteger, bits)
	for i := range bi {
		ct, err := enc.EncryptNew((x >> i) & 1)
		if err != nil {
			return nil, fmt.Errorf("cannot EncryptUintNew: %w", err)
		}
		bi[i] = ct
	}

	return bi, nil
}

// DecryptUint decrypts the bits of x and assembles them into a uint64.
func DecryptUint(dec *Decryptor, x BinaryInteger) (v uint64) {

	if len(x) > 64 {
		panic(fmt.Errorf("cannot DecryptUint: %d bits do not fit a uint64", len(x)))
	}

	for i := len(x) - 1; i >= 0; i-- {
		v = v<<1 | dec.DecryptNew(x[i])
	}

	return
}

// AddNew evaluates the ripple-carry addition of a and b and returns the sum
// modulo 2^len(a) on a new BinaryInteger. The final carry is dropped, so the
// addition wraps around like a machine integer of len(a) bits.
//
// The noise of the carry chain compounds multiplicatively, so the budget
// required of the operands grows linearly with the bit width.
func AddNew(eval *Evaluator, a, b BinaryInteger) BinaryInteger {

	if len(a) != len(b) {
		panic(fmt.Errorf("cannot AddNew: operands have different bit widths (%d and %d)", len(a), len(b)))
	}

	sum := make(BinaryInteger, len(a))

	if len(a) == 0 {
		return sum
	}

	// half adder on the least significant bits
	sum[0] = eval.AddNew(a[0], b[0])
	carry := eval.MulNew(a[0], b[0])

	// full adders with carry out = a*b + (a+b)*carry, the majority of the
	// three inputs
	for i := 1; i < len(a); i++ {

		axb := eval.AddNew(a[i], b[i])
		sum[i] = eval.AddNew(axb, carry)

		if i < len(a)-1 {
			eval.Mul(axb, carry, axb)
			carry = eval.MulNew(a[i], b[i])
			eval.Add(carry, axb, carry)
		}
	}

	return sum
}
