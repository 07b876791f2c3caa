package icp

import (
	"math"
	"math/big"

	"github.com/gf38/Dissertation/utils/bignum"
)

// ratioPrec is the mantissa precision used for the logarithms of big integer
// ratios. The exponent range of big.Float covers arbitrarily large operands,
// so the precision only bounds the relative error of the mantissa.
const ratioPrec = 128

// log2OfRatio returns log2(num/den). It returns -Inf whenever the ratio is
// not positive.
func log2OfRatio(num, den *big.Int) float64 {

	if num.Sign() <= 0 || den.Sign() <= 0 {
		return math.Inf(-1)
	}

	ratio := bignum.NewFloat(num, ratioPrec)
	ratio.Quo(ratio, bignum.NewFloat(den, ratioPrec))

	log := bignum.Log(ratio)
	log.Quo(log, bignum.Log2(ratioPrec))

	f, _ := log.Float64()
	return f
}

// Norm returns the log2 of the standard deviation, minimum and maximum
// absolute value of the coefficients of the noise polynomial of the
// decrypted [Ciphertext].
func Norm(ct *Ciphertext, dec *Decryptor) (std, min, max float64) {
	noise := dec.NoisePoly(ct)
	return NormStats(noise.Coeffs)
}

// NormStats returns the log2 of the standard deviation, minimum and maximum
// absolute value of the entries of vec.
func NormStats(vec []*big.Int) (std, min, max float64) {

	values := make([]*big.Float, len(vec))

	minAbs := new(big.Float).SetInt(new(big.Int).Abs(vec[0]))
	maxAbs := new(big.Float)
	mean := new(big.Float)

	tmp := new(big.Float)

	for i := range vec {

		values[i] = new(big.Float).SetInt(vec[i])

		tmp.Abs(values[i])

		if minAbs.Cmp(tmp) == 1 {
			minAbs.Set(tmp)
		}

		if maxAbs.Cmp(tmp) == -1 {
			maxAbs.Set(tmp)
		}

		mean.Add(mean, values[i])
	}

	n := new(big.Float).SetInt64(int64(len(vec)))

	mean.Quo(mean, n)

	variance := new(big.Float)
	for _, c := range values {
		tmp.Sub(c, mean)
		tmp.Mul(tmp, tmp)
		variance.Add(variance, tmp)
	}

	variance.Quo(variance, n)
	variance.Sqrt(variance)

	x, _ := variance.Float64()
	y, _ := minAbs.Float64()
	z, _ := maxAbs.Float64()

	return math.Log2(x), math.Log2(y), math.Log2(z)
}
