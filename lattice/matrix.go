// Package lattice implements exact integer linear algebra for the rotation
// bases of ideals in Z[x]/(x^N + 1): fraction-free determinants and Hermite
// normal forms computed modulo the determinant.
package lattice

import (
	"fmt"
	"math/big"

	"github.com/gf38/Dissertation/ring"
)

// Matrix is a dense row-major matrix of arbitrary precision integers.
// All entries are always allocated.
type Matrix struct {
	rows, cols int
	values     []*big.Int
}

// NewMatrix creates a new rows x cols Matrix with all entries set to 0.
func NewMatrix(rows, cols int) Matrix {
	if rows < 1 || cols < 1 {
		panic(fmt.Sprintf("cannot NewMatrix: dimensions (%d, %d) must be positive", rows, cols))
	}
	values := make([]*big.Int, rows*cols)
	for i := range values {
		values[i] = new(big.Int)
	}
	return Matrix{rows: rows, cols: cols, values: values}
}

// Rows returns the number of rows of the matrix.
func (m Matrix) Rows() int {
	return m.rows
}

// Cols returns the number of columns of the matrix.
func (m Matrix) Cols() int {
	return m.cols
}

// At returns the entry at (row, col).
func (m Matrix) At(row, col int) *big.Int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("cannot At: index (%d, %d) out of bounds", row, col))
	}
	return m.values[m.cols*row+col]
}

// Set sets the entry at (row, col) to value.
func (m Matrix) Set(row, col int, value *big.Int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("cannot Set: index (%d, %d) out of bounds", row, col))
	}
	m.values[m.cols*row+col].Set(value)
}

// CopyNew creates an exact copy of the target matrix.
func (m Matrix) CopyNew() Matrix {
	c := NewMatrix(m.rows, m.cols)
	for i, v := range m.values {
		c.values[i].Set(v)
	}
	return c
}

// Equal returns true if the receiver Matrix is equal to the provided other
// Matrix.
func (m Matrix) Equal(other Matrix) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i := range m.values {
		if m.values[i].Cmp(other.values[i]) != 0 {
			return false
		}
	}
	return true
}

func (m Matrix) swapRows(i, j int) {
	for k := 0; k < m.cols; k++ {
		m.values[m.cols*i+k], m.values[m.cols*j+k] = m.values[m.cols*j+k], m.values[m.cols*i+k]
	}
}

// RotationBasis returns the N x N matrix whose i-th row holds the
// coefficients of v * x^i mod x^N + 1. Its rows generate the coefficient
// lattice of the ideal (v).
func RotationBasis(r *ring.Ring, v ring.Poly) Matrix {
	n := r.N()
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		rot := r.MulByMonomialNew(v, i)
		for j, c := range rot.Coeffs {
			m.values[n*i+j].Set(c)
		}
	}
	return m
}
