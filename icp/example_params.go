package icp

import (
	"github.com/gf38/Dissertation/ring"
)

var (
	// ExampleParametersN7T128 is a toy parameter set over Z[x]/(x^7 + 1)
	// with generator coefficients below 128. The sparse noise keeps fresh
	// encryptions under 2 bits of consumed budget, so products of two fresh
	// ciphertexts remain decryptable.
	ExampleParametersN7T128 = ParametersLiteral{
		N:              7,
		T:              128,
		Xe:             ring.Binary{H: 1},
		MinNoiseBudget: 6,
		MaxAttempts:    512,
	}

	// ExampleParametersN8LogT32 is a parameter set over Z[x]/(x^8 + 1) with
	// 32-bit generator coefficients. Its budget supports the carry chains of
	// ripple-carry additions on small machine integers.
	ExampleParametersN8LogT32 = ParametersLiteral{
		N:              8,
		LogT:           32,
		Xe:             ring.Binary{H: 1},
		MinNoiseBudget: 20,
	}

	// ExampleParametersN8LogT96 is a parameter set over Z[x]/(x^8 + 1) with
	// 96-bit generator coefficients. Its budget leaves room for the squashed
	// decryption circuit, which makes it suitable for bootstrapping.
	ExampleParametersN8LogT96 = ParametersLiteral{
		N:              8,
		LogT:           96,
		Xe:             ring.Binary{H: 1},
		MinNoiseBudget: 64,
		MaxAttempts:    512,
	}

	// ExampleParametersN128T128 is a parameter set over Z[x]/(x^128 + 1)
	// operating at the decryption boundary: fresh ciphertexts decrypt, but
	// the budget is consumed within a handful of multiplications.
	ExampleParametersN128T128 = ParametersLiteral{
		N:              128,
		T:              128,
		Xe:             ring.Binary{H: 1},
		MinNoiseBudget: 6,
		MaxAttempts:    512,
	}
)
