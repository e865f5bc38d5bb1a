package momentum

import (
	"cmp"
	"math"
	"slices"
)

// Ranked is a signal with its cross-sectional position.
type Ranked struct {
	Signal
	Rank    int     // 1 is the highest momentum
	PctRank float64 // in (0, 1], smallest for the highest momentum
}

// Rank orders signals by descending momentum.
//
// Signals with an undefined momentum are dropped. Rank is the 1-based
// position, ties broken by ascending ticker, so the result does not depend
// on the input order. PctRank is the average rank of the tie group divided
// by the number of rows.
func Rank(signals []Signal) []Ranked {
	rows := make([]Ranked, 0, len(signals))
	for _, s := range signals {
		if math.IsNaN(s.Mom121) {
			continue
		}
		rows = append(rows, Ranked{Signal: s})
	}
	slices.SortFunc(rows, func(a, b Ranked) int {
		if c := cmp.Compare(b.Mom121, a.Mom121); c != 0 {
			return c
		}
		return cmp.Compare(a.Ticker, b.Ticker)
	})

	n := float64(len(rows))
	for i := 0; i < len(rows); {
		// rows[i:j] share the same momentum.
		j := i + 1
		for j < len(rows) && rows[j].Mom121 == rows[i].Mom121 {
			j++
		}
		avg := float64(i+1+j) / 2 // mean of ranks i+1..j
		for k := i; k < j; k++ {
			rows[k].Rank = k + 1
			rows[k].PctRank = avg / n
		}
		i = j
	}
	return rows
}

// Deciles splits ranked rows into the top and bottom tails.
//
// top holds the highest momentum rows (PctRank <= cut) and bottom the
// lowest momentum ones (PctRank > 1-cut). Both keep the rank order. Small
// universes may yield empty tails.
func Deciles(rows []Ranked, cut float64) (top, bottom []Ranked) {
	for _, r := range rows {
		if r.PctRank <= cut {
			top = append(top, r)
		}
		if r.PctRank > 1-cut {
			bottom = append(bottom, r)
		}
	}
	return top, bottom
}
