// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"math"
	"time"

	"github.com/contactkeval/bs-pricer/internal/data"
)

// StaticProvider serves fixed bars per underlying and counts calls.
type StaticProvider struct {
	Bars  map[string][]data.Bar
	Err   error
	Calls int
}

func (p *StaticProvider) Name() string { return "static" }

func (p *StaticProvider) Secondary() data.Provider { return nil }

func (p *StaticProvider) GetDailyBars(ctx context.Context, underlying string, fromDate, toDate time.Time) ([]data.Bar, error) {
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	var out []data.Bar
	for _, b := range p.Bars[underlying] {
		if b.Date.Before(fromDate) || b.Date.After(toDate) {
			continue
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, data.ErrNoData
	}
	return out, nil
}

// AlternatingBars builds one bar per calendar day ending on last, with log
// returns alternating between +step and -step starting from start.
func AlternatingBars(last time.Time, days int, start, step float64) []data.Bar {
	out := make([]data.Bar, 0, days)
	price := start
	for i := days - 1; i >= 0; i-- {
		d := last.AddDate(0, 0, -i)
		out = append(out, data.Bar{Date: d, Open: price, High: price, Low: price, Close: price})
		if len(out)%2 == 1 {
			price *= math.Exp(step)
		} else {
			price *= math.Exp(-step)
		}
	}
	return out
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
