// Package data provides market data provider implementations.
//
// This file contains a Massive-backed Provider that retrieves daily aggregate
// bars over the Massive (Polygon-compatible) REST API with a resty client.
package data

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/contactkeval/bs-pricer/internal/logger"
)

const defaultMassiveBaseURL = "https://api.massive.com"

// massiveDataProvider implements the Provider interface using Massive APIs.
type massiveDataProvider struct {
	apiKey    string
	client    *resty.Client
	secondary Provider
}

// massiveAggsResp models the aggregates endpoint response.
type massiveAggsResp struct {
	Ticker       string `json:"ticker"`
	Adjusted     bool   `json:"adjusted"`
	ResultsCount int    `json:"resultsCount"`
	Status       string `json:"status"`
	Message      string `json:"message"`
	Results      []struct {
		Open      float64 `json:"o"`
		Close     float64 `json:"c"`
		High      float64 `json:"h"`
		Low       float64 `json:"l"`
		VWAP      float64 `json:"vw"` // volume-weighted average price
		Volume    float64 `json:"v"`  // trading volume of the symbol in the given time period
		Trades    int64   `json:"n"`  // number of transactions in the aggregate window
		Timestamp int64   `json:"t"`  // epoch millis
	} `json:"results"`
}

// NewMassiveDataProvider constructs a Massive-backed data provider. An empty
// baseURL selects the public endpoint.
func NewMassiveDataProvider(apiKey, baseURL string, secondary Provider) Provider {
	if baseURL == "" {
		baseURL = defaultMassiveBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	logger.Infof("initializing Massive data provider (%s)", baseURL)

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "bs-pricer/1.0").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return resp != nil && resp.StatusCode() == http.StatusTooManyRequests
		})

	return &massiveDataProvider{apiKey: apiKey, client: client, secondary: secondary}
}

func (massiveDataProv *massiveDataProvider) Name() string { return "massive" }

// Secondary returns the configured secondary Provider, if any.
func (massiveDataProv *massiveDataProvider) Secondary() Provider {
	return massiveDataProv.secondary
}

// GetDailyBars retrieves adjusted daily bars in ascending date order.
func (massiveDataProv *massiveDataProvider) GetDailyBars(ctx context.Context, underlying string, fromDate, toDate time.Time) ([]Bar, error) {
	bars, err := massiveDataProv.fetchAggs(ctx, underlying, fromDate, toDate)
	if err == nil && len(bars) == 0 {
		err = ErrNoData
	}
	if err != nil {
		logger.Errorf("massive bars %s failed: %v", underlying, err)
		return fallback(ctx, massiveDataProv, underlying, fromDate, toDate, err)
	}
	return bars, nil
}

func (massiveDataProv *massiveDataProvider) fetchAggs(ctx context.Context, underlying string, fromDate, toDate time.Time) ([]Bar, error) {
	logger.Debugf(
		"fetching bars: %s from=%s to=%s",
		underlying,
		fromDate.Format("2006-01-02"),
		toDate.Format("2006-01-02"),
	)

	resp, err := massiveDataProv.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"ticker": strings.ToUpper(underlying),
			"from":   fromDate.Format("2006-01-02"),
			"to":     toDate.Format("2006-01-02"),
		}).
		SetQueryParams(map[string]string{
			"adjusted": "true",
			"sort":     "asc",
			"limit":    "50000",
			"apiKey":   massiveDataProv.apiKey,
		}).
		Get("/v2/aggs/ticker/{ticker}/range/1/day/{from}/{to}")
	if err != nil {
		return nil, errors.Wrap(err, "massive api request failed")
	}

	var body massiveAggsResp
	if resp.IsError() {
		_ = json.Unmarshal(resp.Body(), &body)
		return nil, errors.Errorf("massive daily bars status=%d message=%s", resp.StatusCode(), body.Message)
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, errors.Wrap(err, "parsing massive response")
	}

	logger.Tracef("bars received: %d records", len(body.Results))

	out := make([]Bar, 0, len(body.Results))
	for _, r := range body.Results {
		out = append(out, Bar{
			Date:   truncateDay(time.UnixMilli(r.Timestamp).UTC()),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	return out, nil
}
