package ring

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrNonInvertible is the error returned when the scaled inverse of a
// polynomial that is not invertible modulo x^N + 1 is requested.
var ErrNonInvertible = errors.New("polynomial is not invertible modulo x^N + 1")

// ScaledInverse computes the polynomial w satisfying
//
//	w * p = d mod x^N + 1
//
// over the integers, i.e. d times the inverse of p taken in Q[x]/(x^N + 1).
// The computation runs the extended Euclidean algorithm on p and x^N + 1 over
// the rationals, tracking the multiplier of p.
//
// Returns ErrNonInvertible if p is not invertible, and an error if some
// coefficient of w is not an integer. When d is the determinant of the
// rotation basis of p, the coefficients are always integers.
func (r *Ring) ScaledInverse(p Poly, d *big.Int) (w Poly, err error) {

	if p.N() != r.n {
		panic("cannot ScaledInverse: polynomial degree does not match the ring degree")
	}

	if d == nil || d.Sign() == 0 {
		panic("cannot ScaledInverse: d must be a non-zero integer")
	}

	n := r.n
	size := (n << 1) + 2

	// r0 = x^n + 1
	r0 := newRatPoly(size)
	r0[0].SetInt64(1)
	r0[n].SetInt64(1)

	r1 := newRatPoly(size)
	for i, c := range p.Coeffs {
		r1[i].SetInt(c)
	}

	s0, s1, s2 := newRatPoly(size), newRatPoly(size), newRatPoly(size)
	s1[0].SetInt64(1)

	q := newRatPoly(size)

	// Invariant: s0 * p = r0 and s1 * p = r1, both mod x^n + 1. The s0
	// multiplier of x^n + 1 is irrelevant to the result and not tracked.
	for ratPolyDegree(r1) > 0 {
		ratPolyQuoRem(r0, r1, q)
		r0, r1 = r1, r0
		ratPolyMulSub(s0, q, s1, s2)
		s0, s1, s2 = s1, s2, s0
	}

	// A zero remainder means the gcd is the previous remainder, of degree
	// at least 1, so p shares a factor with x^n + 1.
	if ratPolyDegree(r1) < 0 {
		return Poly{}, ErrNonInvertible
	}

	// r1 is a non-zero constant c with s1 * p = c mod x^n + 1. Rescaling
	// s1 by d/c gives the result; deg(s1) < n so the upper half is zero.
	scale := new(big.Rat).SetInt(d)
	scale.Quo(scale, r1[0])

	w = r.NewPoly()
	t := new(big.Rat)
	for i := range w.Coeffs {
		t.Mul(s1[i], scale)
		if !t.IsInt() {
			return Poly{}, fmt.Errorf("cannot ScaledInverse: %s * p^-1 has non-integer coefficients", d.String())
		}
		w.Coeffs[i].Set(t.Num())
	}

	return w, nil
}

func newRatPoly(size int) []*big.Rat {
	p := make([]*big.Rat, size)
	for i := range p {
		p[i] = new(big.Rat)
	}
	return p
}

// ratPolyDegree returns the degree of p, with -1 for the zero polynomial.
func ratPolyDegree(p []*big.Rat) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Sign() != 0 {
			return i
		}
	}
	return -1
}

// ratPolyQuoRem divides a by b, writing the quotient on q and reducing a to
// the remainder in place. The divisor b must be non-zero.
func ratPolyQuoRem(a, b, q []*big.Rat) {

	for i := range q {
		q[i].SetInt64(0)
	}

	db := ratPolyDegree(b)

	t, u := new(big.Rat), new(big.Rat)
	for da := ratPolyDegree(a); da >= db; da = ratPolyDegree(a) {
		t.Quo(a[da], b[db])
		q[da-db].Set(t)
		for i := 0; i <= db; i++ {
			u.Mul(t, b[i])
			a[da-db+i].Sub(a[da-db+i], u)
		}
	}
}

// ratPolyMulSub evaluates s0 - q * s1 on s2.
func ratPolyMulSub(s0, q, s1, s2 []*big.Rat) {

	for i := range s2 {
		s2[i].Set(s0[i])
	}

	t := new(big.Rat)
	for i, qi := range q {

		if qi.Sign() == 0 {
			continue
		}

		for j, sj := range s1 {

			if sj.Sign() == 0 {
				continue
			}

			t.Mul(qi, sj)
			s2[i+j].Sub(s2[i+j], t)
		}
	}
}
