package lattice

import (
	"math/big"
)

// HermiteNormalForm returns the row-style Hermite normal form of the lattice
// generated by the rows of m, computed modulo D.
//
// D must be a positive multiple of the absolute determinant of the row
// lattice: D * Z^n is then a sublattice (by Cramer's rule), so appending the
// rows D * e_i to the generating set changes nothing and allows every
// intermediate entry to be reduced modulo D, keeping the entry sizes bounded
// throughout.
//
// The returned basis is lower triangular with positive diagonal entries, and
// every entry below a diagonal entry is reduced into [0, diagonal).
func HermiteNormalForm(m Matrix, D *big.Int) Matrix {
	if m.rows != m.cols {
		panic("cannot HermiteNormalForm: matrix is not square")
	}
	if D == nil || D.Sign() <= 0 {
		panic("cannot HermiteNormalForm: D must be a positive integer")
	}

	n := m.cols

	// Generating set: the rows of m together with D times the identity, all
	// reduced modulo D.
	active := make([][]*big.Int, 0, n<<1)
	for i := 0; i < n; i++ {
		row := make([]*big.Int, n)
		for j := 0; j < n; j++ {
			row[j] = new(big.Int).Mod(m.At(i, j), D)
		}
		active = append(active, row)
	}
	for i := 0; i < n; i++ {
		row := make([]*big.Int, n)
		for j := 0; j < n; j++ {
			row[j] = new(big.Int)
		}
		row[i].Set(D)
		active = append(active, row)
	}

	h := NewMatrix(n, n)

	for c := n - 1; c >= 0; c-- {

		// Pairwise combine the rows with a non-zero entry in column c until
		// a single one carries their gcd. The D*e_c generator guarantees at
		// least one such row, and a positive pivot dividing D.
		pivot := -1
		for i, row := range active {
			if row[c].Sign() == 0 {
				continue
			}
			if pivot == -1 {
				pivot = i
				continue
			}
			combineRows(active[pivot], row, c, D)
		}

		// Rows processed at earlier columns carried away every non-zero
		// entry right of c, so the pivot row is zero beyond column c.
		for j := 0; j <= c; j++ {
			h.At(c, j).Set(active[pivot][j])
		}

		active[pivot] = active[len(active)-1]
		active = active[:len(active)-1]
	}

	// Reduce each entry below the diagonal modulo the diagonal entry of its
	// column. Walking the columns right to left keeps the already reduced
	// entries untouched.
	q, t := new(big.Int), new(big.Int)
	for i := 1; i < n; i++ {
		for j := i - 1; j >= 0; j-- {

			q.Div(h.At(i, j), h.At(j, j))

			if q.Sign() == 0 {
				continue
			}

			for k := 0; k <= j; k++ {
				h.At(i, k).Sub(h.At(i, k), t.Mul(q, h.At(j, k)))
			}
		}
	}

	return h
}

// combineRows applies the unimodular transform
//
//	r1' = x*r1 + y*r2
//	r2' = (a/g)*r2 - (b/g)*r1
//
// where a = r1[c], b = r2[c] and g = x*a + y*b = gcd(a, b), leaving g at
// r1[c] and 0 at r2[c]. All entries are reduced modulo D.
func combineRows(r1, r2 []*big.Int, c int, D *big.Int) {

	a := new(big.Int).Set(r1[c])
	b := new(big.Int).Set(r2[c])

	g, x, y := new(big.Int), new(big.Int), new(big.Int)
	g.GCD(x, y, a, b)

	u := new(big.Int).Quo(a, g)
	v := new(big.Int).Quo(b, g)

	t1, t2, t3 := new(big.Int), new(big.Int), new(big.Int)
	for j := range r1 {

		t1.Mul(x, r1[j])
		t1.Add(t1, t3.Mul(y, r2[j]))

		t2.Mul(u, r2[j])
		t2.Sub(t2, t3.Mul(v, r1[j]))

		r1[j].Mod(t1, D)
		r2[j].Mod(t2, D)
	}
}
