package momentum

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of xs, or NaN when xs is empty.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// Median returns the median of the non-NaN values of xs, or NaN if there are none.
func Median(xs []float64) float64 {
	vals := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			vals = append(vals, x)
		}
	}
	if len(vals) == 0 {
		return math.NaN()
	}
	slices.Sort(vals)
	// The empirical quantile is the lower middle value; averaging it with the
	// upper one gives the median for both odd and even counts.
	return (stat.Quantile(0.5, stat.Empirical, vals, nil) + vals[len(vals)/2]) / 2
}

// Compound returns prod(1+r) - 1.
func Compound(rets []float64) float64 {
	growth := slices.Clone(rets)
	floats.AddConst(1, growth)
	return floats.Prod(growth) - 1
}

// Cumulative returns the running compounded return of rets.
func Cumulative(rets []float64) []float64 {
	growth := slices.Clone(rets)
	floats.AddConst(1, growth)
	cum := floats.CumProd(make([]float64, len(growth)), growth)
	floats.AddConst(-1, cum)
	return cum
}

// Pearson returns the linear correlation of x and y.
//
// It is NaN when the series have different lengths, fewer than two points,
// or a zero variance.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	if floats.Min(x) == floats.Max(x) || floats.Min(y) == floats.Max(y) {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// Spearman returns the rank correlation of x and y, ties sharing their average rank.
func Spearman(x, y []float64) float64 {
	if len(x) != len(y) {
		return math.NaN()
	}
	return Pearson(averageRanks(x), averageRanks(y))
}

// RollingPearson returns the correlation of x and y over each trailing window.
// The first window-1 values are NaN.
func RollingPearson(x, y []float64, window int) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		if i+1 < window || i >= len(y) {
			out[i] = math.NaN()
			continue
		}
		out[i] = Pearson(x[i+1-window:i+1], y[i+1-window:i+1])
	}
	return out
}

// averageRanks returns the 1-based ascending ranks of xs, ties sharing the average.
func averageRanks(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case xs[a] < xs[b]:
			return -1
		case xs[a] > xs[b]:
			return 1
		}
		return 0
	})
	ranks := make([]float64, len(xs))
	for i := 0; i < len(idx); {
		j := i + 1
		for j < len(idx) && xs[idx[j]] == xs[idx[i]] {
			j++
		}
		avg := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		i = j
	}
	return ranks
}
