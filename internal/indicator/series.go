package indicator

import (
	"github.com/moznion/go-optional"
	"gonum.org/v1/gonum/floats"
)

// Series is a column of optional values aligned row by row with one instrument's observations.
// None marks an undefined cell.
type Series []optional.Option[float64]

// NewSeries creates a series of n undefined cells.
func NewSeries(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = optional.None[float64]()
	}

	return s
}

// SeriesOf wraps plain values into a fully defined series.
func SeriesOf(values ...float64) Series {
	s := make(Series, len(values))
	for i, v := range values {
		s[i] = optional.Some(v)
	}

	return s
}

// Defined returns the number of defined cells.
func (s Series) Defined() int {
	count := 0

	for _, v := range s {
		if v.IsSome() {
			count++
		}
	}

	return count
}

// Last returns the last cell of the series, or None when empty.
func (s Series) Last() optional.Option[float64] {
	if len(s) == 0 {
		return optional.None[float64]()
	}

	return s[len(s)-1]
}

// window returns the values of the trailing window ending at index end.
// The second result is false when the window is incomplete or holds an undefined cell.
func (s Series) window(end, size int) ([]float64, bool) {
	start := end - size + 1
	if size <= 0 || start < 0 || end >= len(s) {
		return nil, false
	}

	values := make([]float64, 0, size)

	for i := start; i <= end; i++ {
		if s[i].IsNone() {
			return nil, false
		}

		values = append(values, s[i].Unwrap())
	}

	return values, true
}

// RollingMean is the trailing simple mean over size rows, inclusive of the current row.
// The first size-1 rows, and any window holding an undefined cell, are None.
func RollingMean(s Series, size int) Series {
	out := NewSeries(len(s))

	for i := range s {
		values, ok := s.window(i, size)
		if !ok {
			continue
		}

		out[i] = optional.Some(floats.Sum(values) / float64(size))
	}

	return out
}

// combine applies fn cell by cell when both inputs are defined.
func combine(a, b Series, fn func(x, y float64) optional.Option[float64]) Series {
	out := NewSeries(len(a))

	for i := range a {
		if i >= len(b) || a[i].IsNone() || b[i].IsNone() {
			continue
		}

		out[i] = fn(a[i].Unwrap(), b[i].Unwrap())
	}

	return out
}
