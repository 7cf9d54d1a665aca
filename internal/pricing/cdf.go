package pricing

import "math"

// Polynomial coefficients of the Zelen & Severo (Hastings) approximation,
// absolute error below 7.5e-8 for x >= 0.
const (
	cdfP  = 0.2316419
	cdfB1 = 0.31938153
	cdfB2 = -0.356563782
	cdfB3 = 1.781477937
	cdfB4 = -1.821255978
	cdfB5 = 1.330274429
)

const sqrt2Pi = 2.5066282746310002

// ApproximateCDF approximates Φ(x), the cumulative distribution function of the
// standard normal distribution, with a fifth order polynomial in t = 1/(1+p·x).
//
// The approximation is only accurate for x >= 0. It does not reflect negative
// arguments itself: callers evaluate Φ(-x) as 1 - ApproximateCDF(x). For x < 0
// the raw polynomial drifts away from the true CDF, and at x = -1/p it has a pole.
// normCDF is the reflecting wrapper used by Price.
func ApproximateCDF(x float64) float64 {
	t := 1 / (1 + cdfP*x)
	z := normPDF(x)
	poly := t * (cdfB1 + t*(cdfB2+t*(cdfB3+t*(cdfB4+t*cdfB5))))
	return 1 - z*poly
}

// normPDF is the standard normal density exp(-x²/2)/√(2π).
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// normCDF evaluates Φ on the whole real line. ApproximateCDF only ever sees
// |x|, so Φ(x) + Φ(-x) == 1 holds exactly for both option branches.
func normCDF(x float64) float64 {
	if x < 0 {
		return 1 - ApproximateCDF(-x)
	}
	return ApproximateCDF(x)
}
