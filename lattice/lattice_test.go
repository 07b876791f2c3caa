package lattice

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/gf38/Dissertation/ring"
	"github.com/gf38/Dissertation/utils/sampling"
)

func testString(opname string, n int) string {
	return fmt.Sprintf("%s/N=%d", opname, n)
}

func TestLattice(t *testing.T) {

	testMatrix(t)
	testDeterminant(t)
	testHermiteNormalForm(t)

	for _, N := range []int{4, 8} {
		testRotationBasis(N, t)
		testIdealLattice(N, t)
	}
}

func testMatrix(t *testing.T) {
	t.Run("Matrix", func(t *testing.T) {

		m := NewMatrix(2, 3)
		require.Equal(t, 2, m.Rows())
		require.Equal(t, 3, m.Cols())

		m.Set(1, 2, big.NewInt(-7))
		require.Equal(t, int64(-7), m.At(1, 2).Int64())

		c := m.CopyNew()
		require.True(t, m.Equal(c))

		c.Set(0, 0, big.NewInt(1))
		require.False(t, m.Equal(c))
		require.Equal(t, int64(0), m.At(0, 0).Int64())
	})
}

func testDeterminant(t *testing.T) {

	t.Run("Determinant/Explicit", func(t *testing.T) {

		id := NewMatrix(3, 3)
		for i := 0; i < 3; i++ {
			id.Set(i, i, big.NewInt(1))
		}
		require.Equal(t, int64(1), Determinant(id).Int64())

		m := NewMatrix(2, 2)
		m.Set(0, 0, big.NewInt(3))
		m.Set(0, 1, big.NewInt(1))
		m.Set(1, 0, big.NewInt(4))
		m.Set(1, 1, big.NewInt(2))
		require.Equal(t, int64(2), Determinant(m).Int64())

		m.Set(0, 0, big.NewInt(1))
		m.Set(0, 1, big.NewInt(2))
		m.Set(1, 0, big.NewInt(3))
		m.Set(1, 1, big.NewInt(4))
		require.Equal(t, int64(-2), Determinant(m).Int64())

		// zero pivot forces the row swap path
		m.Set(0, 0, big.NewInt(0))
		m.Set(0, 1, big.NewInt(1))
		m.Set(1, 0, big.NewInt(1))
		m.Set(1, 1, big.NewInt(0))
		require.Equal(t, int64(-1), Determinant(m).Int64())

		m.Set(0, 0, big.NewInt(1))
		m.Set(0, 1, big.NewInt(2))
		m.Set(1, 0, big.NewInt(2))
		m.Set(1, 1, big.NewInt(4))
		require.Equal(t, int64(0), Determinant(m).Int64())
	})

	t.Run("Determinant/CrossCheck", func(t *testing.T) {

		n := 5
		for trial := 0; trial < 8; trial++ {

			m := NewMatrix(n, n)
			data := make([]float64, n*n)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					e := int64(sampling.RandUint64()%16) - 8
					m.Set(i, j, big.NewInt(e))
					data[i*n+j] = float64(e)
				}
			}

			want := mat.Det(mat.NewDense(n, n, data))
			got, _ := new(big.Float).SetInt(Determinant(m)).Float64()

			require.InDelta(t, want, got, 0.5)
		}
	})
}

func testHermiteNormalForm(t *testing.T) {

	t.Run("HermiteNormalForm/Explicit", func(t *testing.T) {

		m := NewMatrix(2, 2)
		m.Set(0, 0, big.NewInt(1))
		m.Set(0, 1, big.NewInt(2))
		m.Set(1, 0, big.NewInt(3))
		m.Set(1, 1, big.NewInt(4))

		h := HermiteNormalForm(m, big.NewInt(2))

		require.Equal(t, int64(1), h.At(0, 0).Int64())
		require.Equal(t, int64(0), h.At(0, 1).Int64())
		require.Equal(t, int64(0), h.At(1, 0).Int64())
		require.Equal(t, int64(2), h.At(1, 1).Int64())

		scaled := NewMatrix(2, 2)
		scaled.Set(0, 0, big.NewInt(2))
		scaled.Set(1, 1, big.NewInt(2))

		h = HermiteNormalForm(scaled, big.NewInt(4))

		require.True(t, h.Equal(scaled))
	})
}

func testRotationBasis(N int, t *testing.T) {

	t.Run(testString("RotationBasis", N), func(t *testing.T) {

		r, err := ring.NewRing(N)
		require.NoError(t, err)

		v := r.NewPoly()
		for i := 0; i < N; i++ {
			v.Coeffs[i].SetInt64(int64(i + 1))
		}

		b := RotationBasis(r, v)

		// row 0 holds v itself
		for j := 0; j < N; j++ {
			require.Equal(t, int64(j+1), b.At(0, j).Int64())
		}

		// row 1 holds x*v: the constant coefficient wraps around negated
		require.Equal(t, int64(-N), b.At(1, 0).Int64())
		for j := 1; j < N; j++ {
			require.Equal(t, int64(j), b.At(1, j).Int64())
		}

		// row N-1 holds x^(N-1)*v
		require.Equal(t, int64(1), b.At(N-1, N-1).Int64())
		for j := 0; j < N-1; j++ {
			require.Equal(t, int64(-(j + 2)), b.At(N-1, j).Int64())
		}
	})
}

func testIdealLattice(N int, t *testing.T) {

	r, err := ring.NewRing(N)
	require.NoError(t, err)

	prng, err := sampling.NewPRNG()
	require.NoError(t, err)

	sampler, err := ring.NewUniformSampler(prng, r, ring.Uniform{Max: big.NewInt(64)})
	require.NoError(t, err)

	t.Run(testString("IdealLattice/DeterminantParity", N), func(t *testing.T) {

		for trial := 0; trial < 4; trial++ {

			v := sampler.ReadNew()

			v1 := new(big.Int)
			for _, c := range v.Coeffs {
				v1.Add(v1, c)
			}

			det := Determinant(RotationBasis(r, v))

			// det and v(1) always share their parity
			require.Equal(t, v1.Bit(0), det.Bit(0))
		}
	})

	t.Run(testString("IdealLattice/ScaledInverse", N), func(t *testing.T) {

		v, d := sampleNonSingular(r, sampler, t)

		w, err := r.ScaledInverse(v, d)
		require.NoError(t, err)

		// w * v = d exactly in the ring
		check := r.MulNew(w, v)
		require.Equal(t, 0, check.Coeffs[0].Cmp(d))
		for i := 1; i < N; i++ {
			require.Equal(t, 0, check.Coeffs[i].Sign())
		}
	})

	t.Run(testString("IdealLattice/HermiteNormalForm", N), func(t *testing.T) {

		v, d := sampleNonSingular(r, sampler, t)

		b := RotationBasis(r, v)
		h := HermiteNormalForm(b, d)

		// lower triangular with positive diagonal multiplying to d, and
		// off-diagonal entries reduced
		diag := big.NewInt(1)
		for i := 0; i < N; i++ {
			require.Equal(t, 1, h.At(i, i).Sign())
			diag.Mul(diag, h.At(i, i))
			for j := i + 1; j < N; j++ {
				require.Equal(t, 0, h.At(i, j).Sign())
			}
			for j := 0; j < i; j++ {
				require.True(t, h.At(i, j).Sign() >= 0)
				require.True(t, h.At(i, j).Cmp(h.At(j, j)) < 0)
			}
		}
		require.Equal(t, 0, diag.Cmp(d))

		// every generating row lies in the lattice spanned by h
		for i := 0; i < N; i++ {
			require.True(t, hnfContains(h, b.values[N*i:N*(i+1)]))
		}

		// the normal form does not depend on the order of the generators
		swapped := b.CopyNew()
		swapped.swapRows(0, N-1)
		require.True(t, h.Equal(HermiteNormalForm(swapped, d)))
	})
}

// sampleNonSingular draws polynomials until the rotation basis has a non-zero
// determinant, returning the polynomial and the absolute determinant.
func sampleNonSingular(r *ring.Ring, sampler *ring.UniformSampler, t *testing.T) (ring.Poly, *big.Int) {
	for i := 0; i < 64; i++ {
		v := sampler.ReadNew()
		if det := Determinant(RotationBasis(r, v)); det.Sign() != 0 {
			return v, det.Abs(det)
		}
	}
	t.Fatal("no invertible sample found")
	return ring.Poly{}, nil
}

// hnfContains reports whether the row vector lies in the lattice generated by
// the rows of the lower-triangular basis h.
func hnfContains(h Matrix, row []*big.Int) bool {

	n := h.Cols()

	rem := make([]*big.Int, n)
	for i := range rem {
		rem[i] = new(big.Int).Set(row[i])
	}

	q, m, tmp := new(big.Int), new(big.Int), new(big.Int)
	for j := n - 1; j >= 0; j-- {

		q.QuoRem(rem[j], h.At(j, j), m)

		if m.Sign() != 0 {
			return false
		}

		for k := 0; k <= j; k++ {
			rem[k].Sub(rem[k], tmp.Mul(q, h.At(j, k)))
		}
	}

	return true
}
