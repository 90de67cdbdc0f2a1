package textstat

import (
	"math"
	"sort"
)

// Stats summarizes one metric across a corpus. A zero Count means every
// other field is zero as well.
type Stats struct {
	Count  int     `json:"count"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Median float64 `json:"median"`
	Avg    float64 `json:"avg"`
}

// Describe aggregates raw samples without mutating them. The average is
// rounded to two decimals; the median of an even-sized input is the mean of
// the middle pair.
func Describe(values []int) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	sum := 0
	for _, v := range sorted {
		sum += v
	}

	return Stats{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: median(sorted),
		Avg:    round2(float64(sum) / float64(len(sorted))),
	}
}

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between the two nearest ranks.
func Percentile(values []int, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	if p <= 0 {
		return float64(sorted[0])
	}
	if p >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return float64(sorted[lo])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo])*(1-frac) + float64(sorted[hi])*frac
}

// AtOrBelow returns the fraction of samples less than or equal to x.
func AtOrBelow(values []int, x float64) float64 {
	if len(values) == 0 {
		return 0
	}
	n := 0
	for _, v := range values {
		if float64(v) <= x {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

func median(sorted []int) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return float64(sorted[mid])
	}
	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
