package data

import (
	"context"
	"strings"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/pkg/errors"

	"github.com/contactkeval/bs-pricer/internal/logger"
)

// polygonDataProvider implements Provider using the Polygon.io REST client.
type polygonDataProvider struct {
	client    *polygon.Client
	secondary Provider
}

func NewPolygonDataProvider(apiKey string, secondary Provider) Provider {
	return &polygonDataProvider{client: polygon.New(apiKey), secondary: secondary}
}

func (polygonDataProv *polygonDataProvider) Name() string { return "polygon" }

func (polygonDataProv *polygonDataProvider) Secondary() Provider {
	return polygonDataProv.secondary
}

func (polygonDataProv *polygonDataProvider) GetDailyBars(ctx context.Context, underlying string, fromDate, toDate time.Time) ([]Bar, error) {
	params := models.ListAggsParams{
		Ticker:     strings.ToUpper(underlying),
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(fromDate),
		To:         models.Millis(toDate),
	}.WithOrder(models.Asc).WithAdjusted(true)

	iter := polygonDataProv.client.ListAggs(ctx, params)

	var out []Bar
	for iter.Next() {
		agg := iter.Item()
		out = append(out, Bar{
			Date:   truncateDay(time.Time(agg.Timestamp).UTC()),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	err := iter.Err()
	if err != nil {
		err = errors.Wrap(err, "polygon aggs")
	} else if len(out) == 0 {
		err = ErrNoData
	}
	if err != nil {
		logger.Errorf("polygon bars %s failed: %v", underlying, err)
		return fallback(ctx, polygonDataProv, underlying, fromDate, toDate, err)
	}

	logger.Tracef("polygon bars received: %d records", len(out))
	return out, nil
}
