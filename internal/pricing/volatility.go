package pricing

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// TradingDaysPerYear annualises daily close-to-close volatility.
const TradingDaysPerYear = 252

// HistoricalVolatility returns the annualised sample standard deviation of the
// log returns of closes. At least three positive closes are needed.
func HistoricalVolatility(closes []float64, periodsPerYear float64) (float64, error) {
	if len(closes) < 3 {
		return 0, errors.Wrapf(ErrInsufficientData, "need 3 closes, got %d", len(closes))
	}
	if periodsPerYear <= 0 {
		return 0, &DomainError{Param: "periods per year", Value: periodsPerYear, Reason: "must be positive"}
	}

	rets := make(stats.Float64Data, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			return 0, &DomainError{Param: "close", Value: math.Min(closes[i-1], closes[i]), Reason: "must be positive"}
		}
		rets = append(rets, math.Log(closes[i]/closes[i-1]))
	}

	sd, err := stats.StandardDeviationSample(rets)
	if err != nil {
		return 0, errors.Wrap(err, "standard deviation of log returns")
	}
	return sd * math.Sqrt(periodsPerYear), nil
}

// RoundPremium converts a float premium into a decimal rounded half away from
// zero to places digits.
func RoundPremium(premium float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(premium).Round(places)
}
