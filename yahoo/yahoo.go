// Package yahoo retrieves adjusted daily closes from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/momentum"
	"github.com/etnz/momentum/date"
	"go.uber.org/zap"
)

// DefaultBaseURL is the chart API endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// userAgent is required, the API answers 429 to anonymous clients.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) mom/1.0"

// Provider serves adjusted closes from Yahoo Finance. Tickers are used as is:
// the canonical form (BRK-A, BBD-B.TO) is already Yahoo's.
type Provider struct {
	BaseURL string
	Client  *http.Client
	Logger  *zap.Logger
}

// New returns a Provider using client, or a plain client if nil.
func New(client *http.Client, logger *zap.Logger) *Provider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{BaseURL: DefaultBaseURL, Client: client, Logger: logger}
}

// Name implements momentum.Provider.
func (p *Provider) Name() string { return "yahoo" }

// Fetch implements momentum.Provider.
func (p *Provider) Fetch(ctx context.Context, tickers []string, r date.Range) (map[string]*date.History[float64], error) {
	out := make(map[string]*date.History[float64], len(tickers))
	for _, ticker := range tickers {
		h, err := p.chart(ctx, ticker, r)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.Logger.Warn("cannot fetch prices", zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		p.Logger.Debug("prices fetched", zap.String("ticker", ticker), zap.Int("bars", h.Len()))
		out[ticker] = h
	}
	return out, nil
}

// chart fetches the daily adjusted closes of a single ticker.
//
//	{"chart": {"result": [{
//	    "meta": {"gmtoffset": -14400, ...},
//	    "timestamp": [1735828200, ...],
//	    "indicators": {"adjclose": [{"adjclose": [242.75, ...]}]}
//	}], "error": null}}
func (p *Provider) chart(ctx context.Context, ticker string, r date.Range) (*date.History[float64], error) {
	q := url.Values{}
	q.Set("period1", fmt.Sprint(r.From.Time().Unix()))
	q.Set("period2", fmt.Sprint(r.To.Add(1).Time().Unix()))
	q.Set("interval", "1d")
	q.Set("events", "div,split")
	addr := p.BaseURL + url.PathEscape(ticker) + "?" + q.Encode()

	var jobj any
	header := http.Header{"User-Agent": []string{userAgent}}
	if err := momentum.GetJSON(ctx, p.Client, addr, header, &jobj); err != nil {
		return nil, err
	}
	return parseChart(jobj)
}

// parseChart extracts the adjusted closes of a decoded chart response.
func parseChart(jobj any) (*date.History[float64], error) {
	if msg, err := jsonpath.Get("$.chart.error.description", jobj); err == nil && msg != nil {
		return nil, fmt.Errorf("yahoo: %v", msg)
	}
	stamps, err := list(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		return nil, err
	}
	closes, err := list(jobj, "$.chart.result[0].indicators.adjclose[0].adjclose")
	if err != nil {
		return nil, err
	}
	if len(stamps) != len(closes) {
		return nil, fmt.Errorf("yahoo: %d timestamps for %d closes", len(stamps), len(closes))
	}
	// timestamps are the session opens; shift them to the exchange's local day.
	var offset float64
	if v, err := jsonpath.Get("$.chart.result[0].meta.gmtoffset", jobj); err == nil {
		offset, _ = v.(float64)
	}

	h := new(date.History[float64])
	for i, s := range stamps {
		ts, ok := s.(float64)
		price, okp := closes[i].(float64) // null on halted days
		if !ok || !okp {
			continue
		}
		h.Append(date.Of(time.Unix(int64(ts+offset), 0).UTC()), price)
	}
	return h, nil
}

var errNoData = errors.New("yahoo: no data")

// list evaluates path and returns it as a list.
func list(jobj any, path string) ([]any, error) {
	v, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("%w at %s: %v", errNoData, path, err)
	}
	l, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w at %s: not a list", errNoData, path)
	}
	return l, nil
}

var _ momentum.Provider = (*Provider)(nil)
