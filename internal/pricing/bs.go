package pricing

import (
	"math"
	"time"
)

// Price calculates the Black-Scholes price of a European option on a
// non-dividend-paying underlying.
//
// Parameters:
//   - optType: Call or Put
//   - spot: spot price of the underlying asset, > 0
//   - strike: strike price of the option, > 0
//   - timeToMaturity: time to expiry in years, > 0
//   - riskFreeRate: continuously compounded annual risk-free rate
//   - volatility: annualised volatility as a decimal, > 0
//
// Returns:
//
//	The theoretical premium in the currency of spot and strike, or a *DomainError
//	naming the first parameter outside its domain. The put branch evaluates the
//	CDF at -d2 and -d1 rather than negating the call terms.
func Price(
	optType OptionType,
	spot float64,
	strike float64,
	timeToMaturity float64,
	riskFreeRate float64,
	volatility float64,
) (float64, error) {

	if err := validate(optType, spot, strike, timeToMaturity, riskFreeRate, volatility); err != nil {
		return 0, err
	}

	volSqrtT := volatility * math.Sqrt(timeToMaturity)
	if volSqrtT == 0 {
		return 0, &DomainError{Param: "volatility", Value: volatility, Reason: "underflows with time to maturity"}
	}

	d1, d2 := dValues(spot, strike, timeToMaturity, riskFreeRate, volatility, volSqrtT)
	discount := math.Exp(-riskFreeRate * timeToMaturity)

	var premium float64
	if optType == Call {
		premium = spot*normCDF(d1) - strike*discount*normCDF(d2)
	} else {
		premium = strike*discount*normCDF(-d2) - spot*normCDF(-d1)
	}
	if math.IsNaN(premium) || math.IsInf(premium, 0) {
		return 0, &DomainError{Param: "premium", Value: premium, Reason: "is not finite for these inputs"}
	}
	return premium, nil
}

func dValues(spot, strike, timeToMaturity, riskFreeRate, volatility, volSqrtT float64) (d1, d2 float64) {
	d1 = (math.Log(spot/strike) + (riskFreeRate+0.5*volatility*volatility)*timeToMaturity) / volSqrtT
	d2 = d1 - volSqrtT
	return d1, d2
}

func validate(optType OptionType, spot, strike, timeToMaturity, riskFreeRate, volatility float64) error {
	if !optType.Valid() {
		return ErrUnknownOptionType
	}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"spot", spot},
		{"strike", strike},
		{"time to maturity", timeToMaturity},
		{"volatility", volatility},
	} {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			return &DomainError{Param: p.name, Value: p.value, Reason: "must be finite"}
		}
		if p.value <= 0 {
			return &DomainError{Param: p.name, Value: p.value, Reason: "must be positive"}
		}
	}
	if math.IsNaN(riskFreeRate) || math.IsInf(riskFreeRate, 0) {
		return &DomainError{Param: "risk-free rate", Value: riskFreeRate, Reason: "must be finite"}
	}
	return nil
}

// IntrinsicValue is max(S-K, 0) for calls and max(K-S, 0) for puts.
func IntrinsicValue(optType OptionType, spot, strike float64) float64 {
	if optType == Call {
		return math.Max(0, spot-strike)
	}
	return math.Max(0, strike-spot)
}

// YearFraction converts the interval between from and to into years of 365 days.
// Negative intervals are returned as is; Price rejects them.
func YearFraction(from, to time.Time) float64 {
	return to.Sub(from).Hours() / (24 * 365)
}
