package quote

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/contactkeval/bs-pricer/internal/data"
	"github.com/contactkeval/bs-pricer/internal/logger"
	"github.com/contactkeval/bs-pricer/internal/pricing"
)

// barCache fetches the lookback window of daily bars once per underlying and
// memoises the derived spot and volatility.
type barCache struct {
	prov     data.Provider
	asOf     time.Time
	lookback int

	bars map[string][]data.Bar
	errs map[string]error
	vols map[string]float64
}

func newBarCache(prov data.Provider, asOf time.Time, lookbackDays int) *barCache {
	return &barCache{
		prov:     prov,
		asOf:     asOf,
		lookback: lookbackDays,
		bars:     make(map[string][]data.Bar),
		errs:     make(map[string]error),
		vols:     make(map[string]float64),
	}
}

func (c *barCache) get(ctx context.Context, underlying string) ([]data.Bar, error) {
	if bars, ok := c.bars[underlying]; ok {
		return bars, nil
	}
	if err, ok := c.errs[underlying]; ok {
		return nil, err
	}
	if c.prov == nil {
		return nil, errors.New("no data provider configured")
	}

	from := c.asOf.AddDate(0, 0, -c.lookback)
	bars, err := c.prov.GetDailyBars(ctx, underlying, from, c.asOf)
	if err != nil {
		err = errors.Wrapf(err, "bars for %s", underlying)
		c.errs[underlying] = err
		return nil, err
	}
	logger.Debugf("%d bars for %s from %s", len(bars), underlying, c.prov.Name())
	c.bars[underlying] = bars
	return bars, nil
}

func (c *barCache) spot(ctx context.Context, underlying string) (float64, error) {
	bars, err := c.get(ctx, underlying)
	if err != nil {
		return 0, err
	}
	bar, ok := data.BarOnOrBefore(bars, c.asOf)
	if !ok {
		return 0, errors.Wrapf(data.ErrNoData, "no bar for %s on or before %s", underlying, c.asOf.Format(dateLayout))
	}
	return bar.Close, nil
}

func (c *barCache) volatility(ctx context.Context, underlying string) (float64, error) {
	if v, ok := c.vols[underlying]; ok {
		return v, nil
	}
	bars, err := c.get(ctx, underlying)
	if err != nil {
		return 0, err
	}

	var closes []float64
	for _, b := range bars {
		if !b.Date.After(c.asOf) {
			closes = append(closes, b.Close)
		}
	}
	hv, err := pricing.HistoricalVolatility(closes, pricing.TradingDaysPerYear)
	if err != nil {
		return 0, errors.Wrapf(err, "historical volatility of %s", underlying)
	}
	logger.Infof("%s hist vol = %.2f%%", underlying, hv*100)
	c.vols[underlying] = hv
	return hv, nil
}
