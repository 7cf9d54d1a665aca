package quote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/contactkeval/bs-pricer/internal/data"
	"github.com/contactkeval/bs-pricer/internal/logger"
	"github.com/contactkeval/bs-pricer/internal/pricing"
)

const dateLayout = "2006-01-02"

var (
	// ErrNoContracts is returned by Run when the config lists nothing to price.
	ErrNoContracts = errors.New("no contracts to price")
	ErrNoMaturity  = errors.New("either expiry or time_to_maturity is required")
)

type Engine struct {
	cfg  *Config
	prov data.Provider
	now  func() time.Time
}

// Config struct. AsOf is YYYY-MM-DD and defaults to today; RiskFreeRate
// applies to contracts without their own rate.
type Config struct {
	AsOf            string         `json:"as_of,omitempty" yaml:"as_of"`
	RiskFreeRate    float64        `json:"risk_free_rate" yaml:"risk_free_rate"`
	VolLookbackDays int            `json:"vol_lookback_days,omitempty" yaml:"vol_lookback_days"`
	PremiumPlaces   int32          `json:"premium_places,omitempty" yaml:"premium_places"`
	Contracts       []ContractSpec `json:"contracts" yaml:"contracts"`
}

// ContractSpec describes one option to price. Pointer fields are optional and
// resolved from market data or config defaults when nil.
type ContractSpec struct {
	ID         string  `json:"id,omitempty" yaml:"id"`
	Underlying string  `json:"underlying" yaml:"underlying"`
	Type       string  `json:"type" yaml:"type"`
	Strike     float64 `json:"strike" yaml:"strike"`

	// Expiry is YYYY-MM-DD; TimeToMaturity in years takes precedence.
	Expiry         string   `json:"expiry,omitempty" yaml:"expiry"`
	TimeToMaturity *float64 `json:"time_to_maturity,omitempty" yaml:"time_to_maturity"`

	Spot       *float64 `json:"spot,omitempty" yaml:"spot"`
	Volatility *float64 `json:"volatility,omitempty" yaml:"volatility"`
	Rate       *float64 `json:"rate,omitempty" yaml:"rate"`
}

// Quote is the priced (or failed) contract.
type Quote struct {
	ID             string             `json:"id"`
	Symbol         string             `json:"symbol,omitempty"`
	Underlying     string             `json:"underlying"`
	Type           pricing.OptionType `json:"type,omitempty"`
	Spot           float64            `json:"spot"`
	Strike         float64            `json:"strike"`
	TimeToMaturity float64            `json:"time_to_maturity"`
	Rate           float64            `json:"rate"`
	Volatility     float64            `json:"volatility"`
	Premium        decimal.Decimal    `json:"premium"`
	Intrinsic      decimal.Decimal    `json:"intrinsic"`
	Error          string             `json:"error,omitempty"`
}

// Result of a batch run.
type Result struct {
	AsOf   string  `json:"as_of"`
	Quotes []Quote `json:"quotes"`
	Priced int     `json:"priced"`
	Failed int     `json:"failed"`
}

func NewEngine(cfg *Config, prov data.Provider) *Engine {
	return &Engine{cfg: cfg, prov: prov, now: time.Now}
}

func (e *Engine) applyDefaults() {
	if e.cfg.VolLookbackDays <= 0 {
		e.cfg.VolLookbackDays = 90
	}
	if e.cfg.PremiumPlaces <= 0 {
		e.cfg.PremiumPlaces = 4
	}
}

func (e *Engine) asOf() (time.Time, error) {
	if e.cfg.AsOf == "" {
		y, m, d := e.now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, e.cfg.AsOf)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "as_of %q", e.cfg.AsOf)
	}
	return t, nil
}

// Run prices every configured contract. Contracts that cannot be priced are
// kept in the result with Error set; Run only fails on config errors.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	e.applyDefaults()
	if len(e.cfg.Contracts) == 0 {
		return nil, ErrNoContracts
	}
	asOf, err := e.asOf()
	if err != nil {
		return nil, err
	}
	logger.Infof("pricing %d contracts as of %s", len(e.cfg.Contracts), asOf.Format(dateLayout))

	res := &Result{AsOf: asOf.Format(dateLayout), Quotes: make([]Quote, 0, len(e.cfg.Contracts))}
	bars := newBarCache(e.prov, asOf, e.cfg.VolLookbackDays)

	for i, spec := range e.cfg.Contracts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if spec.ID == "" {
			spec.ID = fmt.Sprintf("%d", i+1)
		}

		q, err := e.price(ctx, spec, asOf, bars)
		if err != nil {
			q.Error = err.Error()
			res.Failed++
			logger.Infof("contract %s skipped", spec.ID)
			logger.Debugf("contract %s %s %s K=%.2f: %v", spec.ID, spec.Underlying, spec.Type, spec.Strike, err)
		} else {
			res.Priced++
			logger.Debugf("contract %s %s premium=%s", q.ID, q.Symbol, q.Premium)
		}
		res.Quotes = append(res.Quotes, q)
	}

	logger.Infof("priced %d contracts, %d failed", res.Priced, res.Failed)
	return res, nil
}

// PriceOne prices a single contract as of the configured date.
func (e *Engine) PriceOne(ctx context.Context, spec ContractSpec) (Quote, error) {
	e.applyDefaults()
	asOf, err := e.asOf()
	if err != nil {
		return Quote{}, err
	}
	return e.price(ctx, spec, asOf, newBarCache(e.prov, asOf, e.cfg.VolLookbackDays))
}

func (e *Engine) price(ctx context.Context, spec ContractSpec, asOf time.Time, bars *barCache) (Quote, error) {
	q := Quote{ID: spec.ID, Underlying: strings.ToUpper(spec.Underlying), Strike: spec.Strike}

	optType, err := pricing.ParseOptionType(spec.Type)
	if err != nil {
		return q, err
	}
	q.Type = optType

	var expiry time.Time
	if spec.Expiry != "" {
		expiry, err = time.Parse(dateLayout, spec.Expiry)
		if err != nil {
			return q, errors.Wrapf(err, "expiry %q", spec.Expiry)
		}
		q.Symbol = data.OptionSymbol(q.Underlying, expiry, optType, spec.Strike)
	}

	switch {
	case spec.TimeToMaturity != nil:
		q.TimeToMaturity = *spec.TimeToMaturity
	case !expiry.IsZero():
		q.TimeToMaturity = pricing.YearFraction(asOf, expiry)
	default:
		return q, ErrNoMaturity
	}

	q.Rate = e.cfg.RiskFreeRate
	if spec.Rate != nil {
		q.Rate = *spec.Rate
	}

	if spec.Spot != nil {
		q.Spot = *spec.Spot
	} else {
		q.Spot, err = bars.spot(ctx, q.Underlying)
		if err != nil {
			return q, err
		}
	}

	if spec.Volatility != nil {
		q.Volatility = *spec.Volatility
	} else {
		q.Volatility, err = bars.volatility(ctx, q.Underlying)
		if err != nil {
			return q, err
		}
	}

	premium, err := pricing.Price(optType, q.Spot, q.Strike, q.TimeToMaturity, q.Rate, q.Volatility)
	if err != nil {
		return q, err
	}
	q.Premium = pricing.RoundPremium(premium, e.cfg.PremiumPlaces)
	q.Intrinsic = pricing.RoundPremium(pricing.IntrinsicValue(optType, q.Spot, q.Strike), e.cfg.PremiumPlaces)
	return q, nil
}
