package data

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/contactkeval/bs-pricer/internal/logger"
	"github.com/contactkeval/bs-pricer/internal/pricing"
)

type DateMatchType string

// ErrNoData is returned when a provider has no bars for the request.
var ErrNoData = errors.New("no market data")

// Provider supplies daily bars for an underlying. Secondary is consulted when
// the provider fails or returns nothing.
type Provider interface {
	Name() string
	Secondary() Provider
	GetDailyBars(ctx context.Context, underlying string, fromDate, toDate time.Time) ([]Bar, error)
}

const (
	MatchExact   DateMatchType = "exact"   // must match exactly
	MatchHigher  DateMatchType = "higher"  // next available date after target
	MatchLower   DateMatchType = "lower"   // last available date before target
	MatchNearest DateMatchType = "nearest" // closest available date (default)
)

// Bar simplified OHLC
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Config selects the primary provider and an optional fallback.
type Config struct {
	// Source and Fallback take massive, polygon, csv or synthetic.
	Source   string `json:"source" yaml:"source"`
	Fallback string `json:"fallback,omitempty" yaml:"fallback"`

	// Dir holds <UNDERLYING>.csv files for the csv source.
	Dir string `json:"dir,omitempty" yaml:"dir"`

	BaseURL       string `json:"base_url,omitempty" yaml:"base_url"`
	MassiveAPIKey string `json:"massive_api_key,omitempty" yaml:"massive_api_key"`
	PolygonAPIKey string `json:"polygon_api_key,omitempty" yaml:"polygon_api_key"`

	Seed           int64   `json:"seed,omitempty" yaml:"seed"`
	SyntheticStart float64 `json:"synthetic_start,omitempty" yaml:"synthetic_start"`
}

// NewProvider builds the configured provider chain.
func NewProvider(cfg Config) (Provider, error) {
	var secondary Provider
	if cfg.Fallback != "" {
		if strings.EqualFold(cfg.Fallback, cfg.Source) {
			return nil, errors.Errorf("fallback provider %q equals primary", cfg.Fallback)
		}
		// synthetic bars never fail, so a fallback behind them is unreachable
		if cfg.Source == "" || strings.EqualFold(cfg.Source, "synthetic") {
			return nil, errors.Errorf("synthetic provider cannot have a fallback, got %q", cfg.Fallback)
		}
		var err error
		secondary, err = newSingle(cfg.Fallback, cfg, nil)
		if err != nil {
			return nil, errors.Wrap(err, "fallback provider")
		}
	}
	return newSingle(cfg.Source, cfg, secondary)
}

func newSingle(source string, cfg Config, secondary Provider) (Provider, error) {
	switch strings.ToLower(source) {
	case "massive":
		if cfg.MassiveAPIKey == "" {
			return nil, errors.New("massive provider requires an API key")
		}
		return NewMassiveDataProvider(cfg.MassiveAPIKey, cfg.BaseURL, secondary), nil
	case "polygon":
		if cfg.PolygonAPIKey == "" {
			return nil, errors.New("polygon provider requires an API key")
		}
		return NewPolygonDataProvider(cfg.PolygonAPIKey, secondary), nil
	case "csv":
		if cfg.Dir == "" {
			return nil, errors.New("csv provider requires a directory")
		}
		return NewLocalCSVDataProvider(cfg.Dir, secondary), nil
	case "synthetic", "":
		return NewSyntheticProvider(cfg.Seed, cfg.SyntheticStart), nil
	}
	return nil, errors.Errorf("unknown data source %q", source)
}

// fallback hands the request to p's secondary provider, or returns cause.
func fallback(ctx context.Context, p Provider, underlying string, fromDate, toDate time.Time, cause error) ([]Bar, error) {
	if p.Secondary() == nil {
		return nil, cause
	}
	logger.Debugf("%s: %v, delegating %s to %s", p.Name(), cause, underlying, p.Secondary().Name())
	return p.Secondary().GetDailyBars(ctx, underlying, fromDate, toDate)
}

// --------------------------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------------------------

// OptionSymbol formats an OCC-like option ticker:
// O:<root><YYMMDD><C|P><strike*1000 padded to 8 digits>
func OptionSymbol(underlying string, expiryDate time.Time, optType pricing.OptionType, strike float64) string {
	expDt := expiryDate.UTC().Format("060102")
	cp := "C"
	if optType == pricing.Put {
		cp = "P"
	}
	strikeInt := int(math.Round(strike * 1000))
	return fmt.Sprintf("O:%s%s%s%08d", strings.ToUpper(underlying), expDt, cp, strikeInt)
}

func MatchBarDate(d time.Time, dates []time.Time, mode DateMatchType) time.Time {

	// Search useful info
	var (
		exact  time.Time
		lower  time.Time
		higher time.Time
	)

	// default to MatchNearest
	switch mode {
	case MatchExact, MatchHigher, MatchLower, MatchNearest:
		// ok
	default:
		mode = MatchNearest
	}

	sorted := append([]time.Time(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	for _, dt := range sorted {
		if dt.Equal(d) {
			exact = dt
		}
		if dt.Before(d) {
			lower = dt // will keep last < d
		}
		if dt.After(d) && higher.IsZero() {
			higher = dt
		}
	}

	switch mode {

	case MatchExact:
		return exact // may be zero → caller skips it

	case MatchLower:
		return lower // last date before d

	case MatchHigher:
		return higher // first date after d

	case MatchNearest:
		if !exact.IsZero() {
			return exact
		}
		// choose whichever is closer
		switch {
		case !lower.IsZero() && !higher.IsZero():
			if d.Sub(lower) <= higher.Sub(d) {
				return lower
			}
			return higher
		case !lower.IsZero():
			return lower
		case !higher.IsZero():
			return higher
		}
	}

	return time.Time{} // nothing found
}

// BarOnOrBefore returns the bar dated d, or the last one before it.
// Dates are compared at day granularity.
func BarOnOrBefore(bars []Bar, d time.Time) (Bar, bool) {
	byDay := make(map[time.Time]Bar, len(bars))
	dates := make([]time.Time, 0, len(bars))
	for _, b := range bars {
		k := truncateDay(b.Date)
		byDay[k] = b
		dates = append(dates, k)
	}

	target := truncateDay(d)
	match := MatchBarDate(target, dates, MatchExact)
	if match.IsZero() {
		match = MatchBarDate(target, dates, MatchLower)
	}
	if match.IsZero() {
		return Bar{}, false
	}
	return byDay[match], true
}

// Closes extracts closing prices in bar order.
func Closes(bars []Bar) []float64 {
	out := make([]float64, 0, len(bars))
	for _, b := range bars {
		out = append(out, b.Close)
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
