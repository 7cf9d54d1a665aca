package data

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// synthDataProvider implements Provider by generating a seeded geometric
// random walk. The same seed, underlying and range always yield the same bars.
type synthDataProvider struct {
	seed  int64
	start float64
}

func NewSyntheticProvider(seed int64, start float64) Provider {
	if start <= 0 {
		start = 100
	}
	return &synthDataProvider{seed: seed, start: start}
}

func (synthDataProv *synthDataProvider) Name() string { return "synthetic" }

func (synthDataProv *synthDataProvider) Secondary() Provider { return nil }

func (synthDataProv *synthDataProvider) GetDailyBars(ctx context.Context, underlying string, fromDate, toDate time.Time) ([]Bar, error) {
	if toDate.Before(fromDate) {
		return nil, errors.Errorf("synthetic bars: to %s before from %s", toDate.Format("2006-01-02"), fromDate.Format("2006-01-02"))
	}

	rng := rand.New(rand.NewSource(synthDataProv.seed + symbolSeed(underlying)))
	price := synthDataProv.start
	const dailyVol = 0.015

	var out []Bar
	for cur := truncateDay(fromDate); !cur.After(toDate); cur = cur.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cur.Weekday() == time.Saturday || cur.Weekday() == time.Sunday {
			continue
		}
		open := price
		closePx := open * math.Exp(rng.NormFloat64()*dailyVol-0.5*dailyVol*dailyVol)
		high := math.Max(open, closePx) * (1 + math.Abs(rng.NormFloat64())*0.002)
		low := math.Min(open, closePx) * (1 - math.Abs(rng.NormFloat64())*0.002)
		out = append(out, Bar{Date: cur, Open: open, High: high, Low: low, Close: closePx, Volume: float64(1000 + rng.Intn(5000))})
		price = closePx
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

func symbolSeed(underlying string) int64 {
	var h int64
	for _, r := range strings.ToUpper(underlying) {
		h = h*31 + int64(r)
	}
	return h
}
