package place

import "math"

// StdDev returns the standard deviation of a data set described by its
// running sums: n observations, their sum of squares, and their mean.
// Rounding can push the radicand slightly negative when the true variance
// is near zero; that case clamps to 0 instead of propagating a NaN.
func StdDev(n int, sumXSquared, avX float64) float64 {
	if n <= 0 {
		return 0
	}
	variance := sumXSquared/float64(n) - avX*avX
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// DeltaSample accumulates the running sums StdDev needs, one observed move
// delta at a time. The initializer uses it to measure cost-delta spread over
// the initial random-move sample without retaining the sample itself.
type DeltaSample struct {
	n     int
	sum   float64
	sumSq float64
}

// Add records one observed delta.
func (s *DeltaSample) Add(delta float64) {
	s.n++
	s.sum += delta
	s.sumSq += delta * delta
}

// Count returns the number of recorded deltas.
func (s *DeltaSample) Count() int {
	return s.n
}

// StdDev returns the standard deviation of the recorded deltas, 0 when
// nothing was recorded.
func (s *DeltaSample) StdDev() float64 {
	if s.n == 0 {
		return 0
	}
	return StdDev(s.n, s.sumSq, s.sum/float64(s.n))
}
