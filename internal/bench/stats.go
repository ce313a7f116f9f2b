package bench

import (
	"math"
	"slices"
)

// Stats — сводка по серии запусков. Меньше значит лучше.
type Stats struct {
	N      int
	Best   float64
	Worst  float64
	Median float64
	Mean   float64
	// Std — выборочное стандартное отклонение (n-1); 0 при N < 2.
	Std float64
}

type number interface{ ~int | ~int64 | ~float64 }

// Summarize считает сводку; исходный срез не изменяется.
func Summarize[T number](values []T) Stats {
	s := Stats{N: len(values)}
	if s.N == 0 {
		return s
	}

	xs := make([]float64, s.N)
	sum := 0.0
	for i, v := range values {
		xs[i] = float64(v)
		sum += xs[i]
	}
	slices.Sort(xs)

	s.Best, s.Worst = xs[0], xs[s.N-1]
	if s.N%2 == 1 {
		s.Median = xs[s.N/2]
	} else {
		s.Median = (xs[s.N/2-1] + xs[s.N/2]) / 2
	}
	s.Mean = sum / float64(s.N)

	if s.N >= 2 {
		variance := 0.0
		for _, x := range xs {
			d := x - s.Mean
			variance += d * d
		}
		s.Std = math.Sqrt(variance / float64(s.N-1))
	}
	return s
}
