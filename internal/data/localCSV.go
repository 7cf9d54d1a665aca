package data

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/contactkeval/bs-pricer/internal/logger"
)

// localCSVDataProvider implements Provider from <dir>/<UNDERLYING>.csv files
// with a date,open,high,low,close,volume header.
type localCSVDataProvider struct {
	dir       string
	secondary Provider
}

type csvBar struct {
	Date   string  `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
}

// NewLocalCSVDataProvider convenience constructor.
func NewLocalCSVDataProvider(dir string, secondary Provider) Provider {
	return &localCSVDataProvider{dir: dir, secondary: secondary}
}

func (localCSVDataProv *localCSVDataProvider) Name() string { return "csv" }

func (localCSVDataProv *localCSVDataProvider) Secondary() Provider {
	return localCSVDataProv.secondary
}

func (localCSVDataProv *localCSVDataProvider) GetDailyBars(ctx context.Context, underlying string, fromDate, toDate time.Time) ([]Bar, error) {
	bars, err := localCSVDataProv.readBars(underlying, fromDate, toDate)
	if err == nil && len(bars) == 0 {
		err = ErrNoData
	}
	if err != nil {
		return fallback(ctx, localCSVDataProv, underlying, fromDate, toDate, err)
	}
	return bars, nil
}

func (localCSVDataProv *localCSVDataProvider) readBars(underlying string, fromDate, toDate time.Time) ([]Bar, error) {
	path := filepath.Join(localCSVDataProv.dir, strings.ToUpper(underlying)+".csv")

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open bars file")
	}
	defer f.Close()

	var rows []*csvBar
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	from, to := truncateDay(fromDate), truncateDay(toDate)
	out := make([]Bar, 0, len(rows))
	for _, row := range rows {
		dt, err := time.Parse("2006-01-02", strings.TrimSpace(row.Date))
		if err != nil {
			logger.Tracef("skipping row with malformed date %q in %s", row.Date, path)
			continue
		}
		if dt.Before(from) || dt.After(to) {
			continue
		}
		out = append(out, Bar{Date: dt, Open: row.Open, High: row.High, Low: row.Low, Close: row.Close, Volume: row.Volume})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	logger.Tracef("read %d bars for %s from %s", len(out), underlying, path)
	return out, nil
}
