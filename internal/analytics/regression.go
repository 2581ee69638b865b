package analytics

import "math"

// Fit is an ordinary least-squares line through a set of points.
type Fit struct {
	Slope     float64
	Intercept float64
	// R2 is the coefficient of determination, 0 when y has no variance.
	R2 float64
	// StdErr is sqrt(SSR/(n-2)), 0 when n <= 2.
	StdErr float64
}

// LinearFit fits y = Slope*x + Intercept. It reports false when there are
// fewer than two points or all x values are equal.
func LinearFit(xs, ys []float64) (Fit, bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return Fit{}, false
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var sxx, sxy, ssTot float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		sxx += dx * dx
		sxy += dx * dy
		ssTot += dy * dy
	}
	if sxx == 0 {
		return Fit{}, false
	}

	f := Fit{Slope: sxy / sxx}
	f.Intercept = meanY - f.Slope*meanX

	var ssRes float64
	for i := range xs {
		r := ys[i] - (f.Slope*xs[i] + f.Intercept)
		ssRes += r * r
	}
	if ssTot > 0 {
		f.R2 = math.Max(0, 1-ssRes/ssTot)
	}
	if n > 2 {
		f.StdErr = math.Sqrt(ssRes / float64(n-2))
	}
	return f, true
}

// LinearTrend returns the per-step slope of ys sampled at x = 0, 1, 2, ...
func LinearTrend(ys []float64) float64 {
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	f, ok := LinearFit(xs, ys)
	if !ok {
		return 0
	}
	return f.Slope
}
