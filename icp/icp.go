// Package icp implements a somewhat homomorphic public-key encryption scheme
// over ideal lattices in Z[x]/(x^N + 1), whose security relates to the ideal
// coset problem.
//
// Key generation samples a short generator polynomial and publishes the
// two-integer restricted Hermite normal form (d, r) of its rotation lattice.
// Encryption hides a bit in the parity of a short coset representative,
// evaluated at the public root r modulo the determinant d. Decryption
// recovers the bit with a scaled inverse of the generator. Ciphertexts are
// single integers supporting exact addition and multiplication, which act as
// XOR and AND on the hidden bits until the accumulated noise reaches the
// decryption radius; the bootstrapping subpackage refreshes worn ciphertexts
// under an encryption of the private key.
package icp
