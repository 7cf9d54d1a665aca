package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPrice(t *testing.T, optType OptionType, spot, strike, maturity, rate, vol float64) float64 {
	t.Helper()
	p, err := Price(optType, spot, strike, maturity, rate, vol)
	require.NoError(t, err)
	return p
}

func TestPrice_AtTheMoney(t *testing.T) {
	call := mustPrice(t, Call, 100, 100, 1, 0.05, 0.2)
	put := mustPrice(t, Put, 100, 100, 1, 0.05, 0.2)

	assert.InDelta(t, 10.45, call, 0.05)
	assert.InDelta(t, 5.57, put, 0.05)
}

func TestPrice_DeepOutOfTheMoneyCall(t *testing.T) {
	call := mustPrice(t, Call, 50, 150, 0.5, 0.03, 0.3)

	assert.Less(t, call, 0.01)
	assert.Greater(t, call, -0.01)
}

func TestPrice_DeepInTheMoneyPut(t *testing.T) {
	put := mustPrice(t, Put, 50, 150, 0.5, 0.03, 0.3)
	lower := 150*math.Exp(-0.03*0.5) - 50

	assert.InDelta(t, lower, put, 0.01)
}

func TestPrice_PutCallParity(t *testing.T) {
	tests := []struct {
		name                    string
		spot, strike, t, r, vol float64
	}{
		{"atm", 100, 100, 1, 0.05, 0.2},
		{"short dated", 100, 100, 45.0 / 365.0, 0.03, 0.25},
		{"itm call", 120, 100, 0.5, 0.01, 0.35},
		{"otm call", 80, 100, 2, 0.04, 0.15},
		{"negative rate", 100, 95, 1, -0.005, 0.3},
		{"deep otm", 50, 150, 0.5, 0.03, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := mustPrice(t, Call, tt.spot, tt.strike, tt.t, tt.r, tt.vol)
			put := mustPrice(t, Put, tt.spot, tt.strike, tt.t, tt.r, tt.vol)

			lhs := call - put
			rhs := tt.spot - tt.strike*math.Exp(-tt.r*tt.t)
			assert.InDelta(t, rhs, lhs, 1e-4)
		})
	}
}

func TestPrice_MonotoneInVolatility(t *testing.T) {
	prevCall, prevPut := -1.0, -1.0
	for vol := 0.05; vol <= 1.0; vol += 0.05 {
		call := mustPrice(t, Call, 100, 110, 0.75, 0.02, vol)
		put := mustPrice(t, Put, 100, 110, 0.75, 0.02, vol)

		assert.GreaterOrEqual(t, call, prevCall, "call at vol %.2f", vol)
		assert.GreaterOrEqual(t, put, prevPut, "put at vol %.2f", vol)
		prevCall, prevPut = call, put
	}
}

func TestPrice_MonotoneInSpot(t *testing.T) {
	prevCall, prevPut := -1.0, math.Inf(1)
	for spot := 60.0; spot <= 140; spot += 5 {
		call := mustPrice(t, Call, spot, 100, 1, 0.05, 0.25)
		put := mustPrice(t, Put, spot, 100, 1, 0.05, 0.25)

		assert.GreaterOrEqual(t, call, prevCall, "call at spot %.0f", spot)
		assert.LessOrEqual(t, put, prevPut, "put at spot %.0f", spot)
		prevCall, prevPut = call, put
	}
}

func TestPrice_AboveIntrinsicForCalls(t *testing.T) {
	for _, spot := range []float64{80, 100, 120} {
		call := mustPrice(t, Call, spot, 100, 1, 0.05, 0.2)
		assert.GreaterOrEqual(t, call, IntrinsicValue(Call, spot, 100))
	}
}

func TestPrice_DomainErrors(t *testing.T) {
	tests := []struct {
		name                    string
		spot, strike, t, r, vol float64
		param                   string
	}{
		{"zero spot", 0, 100, 1, 0.05, 0.2, "spot"},
		{"negative strike", 100, -1, 1, 0.05, 0.2, "strike"},
		{"zero maturity", 100, 100, 0, 0.05, 0.2, "time to maturity"},
		{"negative maturity", 100, 100, -0.5, 0.05, 0.2, "time to maturity"},
		{"zero vol", 100, 100, 1, 0.05, 0, "volatility"},
		{"nan spot", math.NaN(), 100, 1, 0.05, 0.2, "spot"},
		{"inf vol", 100, 100, 1, 0.05, math.Inf(1), "volatility"},
		{"nan rate", 100, 100, 1, math.NaN(), 0.2, "risk-free rate"},
		{"vol times sqrt maturity underflows", 100, 100, 1e-300, 0, 1e-300, "volatility"},
		{"discount factor overflows", 100, 100, 1, -1000, 0.2, "premium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Price(Call, tt.spot, tt.strike, tt.t, tt.r, tt.vol)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var domainErr *DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.param, domainErr.Param)
		})
	}
}

func TestPrice_PutDiscountOverflow(t *testing.T) {
	p, err := Price(Put, 100, 100, 1, -1000, 0.2)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, p)
}

func TestPrice_RejectsUnknownOptionType(t *testing.T) {
	_, err := Price(OptionType(0), 100, 100, 1, 0.05, 0.2)
	assert.ErrorIs(t, err, ErrUnknownOptionType)

	_, err = Price(OptionType(7), 100, 100, 1, 0.05, 0.2)
	assert.ErrorIs(t, err, ErrUnknownOptionType)
}

func TestIntrinsicValue(t *testing.T) {
	assert.Equal(t, 20.0, IntrinsicValue(Call, 120, 100))
	assert.Equal(t, 0.0, IntrinsicValue(Call, 80, 100))
	assert.Equal(t, 20.0, IntrinsicValue(Put, 80, 100))
	assert.Equal(t, 0.0, IntrinsicValue(Put, 120, 100))
}

func TestYearFraction(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.InDelta(t, 1.0, YearFraction(from, from.AddDate(0, 0, 365)), 1e-12)
	assert.InDelta(t, 30.0/365.0, YearFraction(from, from.AddDate(0, 0, 30)), 1e-12)
	assert.Less(t, YearFraction(from, from.AddDate(0, 0, -1)), 0.0)
}
