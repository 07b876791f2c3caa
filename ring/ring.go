// Package ring implements exact arbitrary-precision polynomial arithmetic in
// the quotient rings Z[x]/(x^N + 1), along with the polynomial samplers and the
// scaled inverse computation on which the key generation relies.
package ring

import (
	"fmt"
	"math/big"

	"github.com/gf38/Dissertation/utils/bignum"
)

// Ring is a structure that provides polynomial arithmetic in Z[x]/(x^N + 1).
// All operations are exact: coefficients are arbitrary precision integers and
// are never reduced implicitly.
type Ring struct {
	n int
}

// NewRing creates a new Ring of degree N, i.e. operating modulo x^N + 1.
// Returns an error if N < 1.
func NewRing(N int) (r *Ring, err error) {
	if N < 1 {
		return nil, fmt.Errorf("invalid ring degree: must be greater or equal to 1 but is %d", N)
	}
	return &Ring{n: N}, nil
}

// N returns the ring degree.
func (r *Ring) N() int {
	return r.n
}

// NewPoly creates a new polynomial with all coefficients set to 0.
func (r *Ring) NewPoly() Poly {
	return NewPoly(r.n)
}

// Add evaluates p3 = p1 + p2 coefficient-wise.
func (r *Ring) Add(p1, p2, p3 Poly) {
	if p1.N() != r.n || p2.N() != r.n || p3.N() != r.n {
		panic("cannot Add: polynomial degrees do not match the ring degree")
	}
	for i := range p3.Coeffs {
		p3.Coeffs[i].Add(p1.Coeffs[i], p2.Coeffs[i])
	}
}

// AddNew evaluates p1 + p2 coefficient-wise and returns the result on a new
// polynomial p3.
func (r *Ring) AddNew(p1, p2 Poly) (p3 Poly) {
	p3 = r.NewPoly()
	r.Add(p1, p2, p3)
	return
}

// Sub evaluates p3 = p1 - p2 coefficient-wise.
func (r *Ring) Sub(p1, p2, p3 Poly) {
	if p1.N() != r.n || p2.N() != r.n || p3.N() != r.n {
		panic("cannot Sub: polynomial degrees do not match the ring degree")
	}
	for i := range p3.Coeffs {
		p3.Coeffs[i].Sub(p1.Coeffs[i], p2.Coeffs[i])
	}
}

// SubNew evaluates p1 - p2 coefficient-wise and returns the result on a new
// polynomial p3.
func (r *Ring) SubNew(p1, p2 Poly) (p3 Poly) {
	p3 = r.NewPoly()
	r.Sub(p1, p2, p3)
	return
}

// Neg evaluates p2 = -p1 coefficient-wise.
func (r *Ring) Neg(p1, p2 Poly) {
	if p1.N() != r.n || p2.N() != r.n {
		panic("cannot Neg: polynomial degrees do not match the ring degree")
	}
	for i := range p2.Coeffs {
		p2.Coeffs[i].Neg(p1.Coeffs[i])
	}
}

// NegNew evaluates -p1 coefficient-wise and returns the result on a new
// polynomial p2.
func (r *Ring) NegNew(p1 Poly) (p2 Poly) {
	p2 = r.NewPoly()
	r.Neg(p1, p2)
	return
}

// MulScalar evaluates p2 = p1 * scalar coefficient-wise.
func (r *Ring) MulScalar(p1 Poly, scalar *big.Int, p2 Poly) {
	if p1.N() != r.n || p2.N() != r.n {
		panic("cannot MulScalar: polynomial degrees do not match the ring degree")
	}
	for i := range p2.Coeffs {
		p2.Coeffs[i].Mul(p1.Coeffs[i], scalar)
	}
}

// MulScalarNew evaluates p1 * scalar coefficient-wise and returns the result
// on a new polynomial p2.
func (r *Ring) MulScalarNew(p1 Poly, scalar *big.Int) (p2 Poly) {
	p2 = r.NewPoly()
	r.MulScalar(p1, scalar, p2)
	return
}

// Mul evaluates p3 = p1 * p2 mod x^N + 1.
//
// The product is computed with the schoolbook algorithm, folding x^N back to
// -1 as the degrees wrap around. The output polynomial p3 can alias p1 or p2.
func (r *Ring) Mul(p1, p2, p3 Poly) {
	if p1.N() != r.n || p2.N() != r.n || p3.N() != r.n {
		panic("cannot Mul: polynomial degrees do not match the ring degree")
	}

	n := r.n

	acc := make([]*big.Int, n)
	for i := range acc {
		acc[i] = new(big.Int)
	}

	tmp := new(big.Int)
	for i, c1 := range p1.Coeffs {

		if c1.Sign() == 0 {
			continue
		}

		for j, c2 := range p2.Coeffs {

			if c2.Sign() == 0 {
				continue
			}

			tmp.Mul(c1, c2)

			if k := i + j; k < n {
				acc[k].Add(acc[k], tmp)
			} else {
				acc[k-n].Sub(acc[k-n], tmp)
			}
		}
	}

	for i := range p3.Coeffs {
		p3.Coeffs[i].Set(acc[i])
	}
}

// MulNew evaluates p1 * p2 mod x^N + 1 and returns the result on a new
// polynomial p3.
func (r *Ring) MulNew(p1, p2 Poly) (p3 Poly) {
	p3 = r.NewPoly()
	r.Mul(p1, p2, p3)
	return
}

// MulByMonomial evaluates p2 = p1 * x^k mod x^N + 1 for k >= 0. The output
// polynomial p2 can alias p1.
func (r *Ring) MulByMonomial(p1 Poly, k int, p2 Poly) {
	if p1.N() != r.n || p2.N() != r.n {
		panic("cannot MulByMonomial: polynomial degrees do not match the ring degree")
	}
	if k < 0 {
		panic("cannot MulByMonomial: monomial degree must be non-negative")
	}

	// x^(2N) = 1, so only k mod 2N matters; the upper half flips the sign.
	n := r.n
	k %= n << 1

	acc := make([]*big.Int, n)
	for i, c := range p1.Coeffs {
		j := i + k
		neg := false
		if j >= n<<1 {
			j -= n << 1
		}
		if j >= n {
			j -= n
			neg = true
		}
		acc[j] = new(big.Int)
		if neg {
			acc[j].Neg(c)
		} else {
			acc[j].Set(c)
		}
	}

	for i := range p2.Coeffs {
		p2.Coeffs[i].Set(acc[i])
	}
}

// MulByMonomialNew evaluates p1 * x^k mod x^N + 1 and returns the result on a
// new polynomial p2.
func (r *Ring) MulByMonomialNew(p1 Poly, k int) (p2 Poly) {
	p2 = r.NewPoly()
	r.MulByMonomial(p1, k, p2)
	return
}

// Evaluate returns p1(x) mod m, with the result in [0, m). The modulus m must
// be a positive integer.
func (r *Ring) Evaluate(p1 Poly, x, m *big.Int) *big.Int {
	if p1.N() != r.n {
		panic("cannot Evaluate: polynomial degree does not match the ring degree")
	}
	if m == nil || m.Sign() <= 0 {
		panic("cannot Evaluate: modulus must be a positive integer")
	}

	// Horner evaluation, reducing after each step to keep the intermediate
	// values small.
	acc := new(big.Int)
	for i := r.n - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p1.Coeffs[i])
		acc.Mod(acc, m)
	}
	return acc
}

// InfinityNorm returns max_i |p1[i]|.
func (r *Ring) InfinityNorm(p1 Poly) (norm *big.Int) {
	norm = new(big.Int)
	tmp := new(big.Int)
	for _, c := range p1.Coeffs {
		if tmp.Abs(c); tmp.Cmp(norm) > 0 {
			norm.Set(tmp)
		}
	}
	return
}

// OneNorm returns sum_i |p1[i]|.
func (r *Ring) OneNorm(p1 Poly) (norm *big.Int) {
	norm = new(big.Int)
	tmp := new(big.Int)
	for _, c := range p1.Coeffs {
		norm.Add(norm, tmp.Abs(c))
	}
	return
}

// CenteredMod returns the representative of x mod d of minimal absolute
// value, i.e. |CenteredMod(x, d)| <= d/2, with strict inequality whenever d is
// odd. The modulus d must be a positive integer.
func CenteredMod(x, d *big.Int) *big.Int {
	if d == nil || d.Sign() <= 0 {
		panic("cannot CenteredMod: modulus must be a positive integer")
	}
	q := new(big.Int)
	bignum.DivRound(x, d, q)
	return q.Neg(q).Mul(q, d).Add(q, x)
}
