package momentum

import (
	"math"
	"time"

	"github.com/etnz/momentum/date"
)

// monthly returns a history with one price on the 15th of each month,
// starting in the month of start. NaN prices leave the month empty.
func monthly(start date.Date, prices ...float64) *date.History[float64] {
	h := new(date.History[float64])
	for i, p := range prices {
		if math.IsNaN(p) {
			continue
		}
		h.Append(date.New(start.Year(), start.Month()+time.Month(i), 15), p)
	}
	return h
}

// constant returns n copies of v.
func constant(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// near reports whether a and b are within 1e-9 of each other.
func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
