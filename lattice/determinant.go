package lattice

import (
	"math/big"
)

// Determinant returns the determinant of the square matrix m, computed with
// fraction-free Bareiss elimination. All intermediate values are exact
// divisions, so no rational arithmetic is needed. The input matrix is not
// modified.
func Determinant(m Matrix) *big.Int {
	if m.rows != m.cols {
		panic("cannot Determinant: matrix is not square")
	}

	n := m.rows
	a := m.CopyNew()

	sign := 1
	prev := big.NewInt(1)
	tmp := new(big.Int)

	for k := 0; k < n-1; k++ {

		if a.At(k, k).Sign() == 0 {

			swap := -1
			for i := k + 1; i < n; i++ {
				if a.At(i, k).Sign() != 0 {
					swap = i
					break
				}
			}

			// a zero column means a zero determinant
			if swap == -1 {
				return new(big.Int)
			}

			a.swapRows(k, swap)
			sign = -sign
		}

		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				e := a.At(i, j)
				e.Mul(e, a.At(k, k))
				e.Sub(e, tmp.Mul(a.At(i, k), a.At(k, j)))
				e.Quo(e, prev) // exact by the Bareiss identity
			}
		}

		prev = a.At(k, k)
	}

	det := new(big.Int).Set(a.At(n-1, n-1))
	if sign < 0 {
		det.Neg(det)
	}
	return det
}
