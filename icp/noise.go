package icp

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/gf38/Dissertation/utils"
)

// NoiseStats summarises the remaining noise budgets, in bits, of a batch of
// ciphertexts.
type NoiseStats struct {
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
}

// NewNoiseStats measures the noise budgets of the given ciphertexts under
// dec and returns their summary statistics.
func NewNoiseStats(dec *Decryptor, cts []*Ciphertext) NoiseStats {

	budgets := make([]float64, len(cts))
	for i, ct := range cts {
		budgets[i] = dec.NoiseBudget(ct)
	}

	mean, _ := stats.Mean(budgets)
	median, _ := stats.Median(budgets)
	stddev, _ := stats.StandardDeviation(budgets)

	return NoiseStats{
		Min:    utils.MinSlice(budgets),
		Max:    utils.MaxSlice(budgets),
		Mean:   mean,
		Median: median,
		StdDev: stddev,
	}
}

// String implements fmt.Stringer.
func (s NoiseStats) String() string {
	return fmt.Sprintf("budget (bits): min=%.2f max=%.2f mean=%.2f median=%.2f stddev=%.2f",
		s.Min, s.Max, s.Mean, s.Median, s.StdDev)
}
