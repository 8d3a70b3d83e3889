// Package pricing obtains current tradable prices for instruments. The
// processors call it before any buy/sell mutation.
package pricing

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"
)

// Getter is the narrow quote-lookup contract used by the order processors.
type Getter interface {
	GetPrice(ctx context.Context, tickers []string) (float64, error)
}

type quoteResponse struct {
	Prices map[string]float64 `json:"prices"`
}

// QuoteClient fetches quotes from the internal quote service over HTTP.
type QuoteClient struct {
	http *resty.Client
}

// NewQuoteClient builds the client from the package config.
func NewQuoteClient(config Config) *QuoteClient {
	baseURL := strings.TrimRight(config.QuoteBaseURL, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(config.QuoteTimeout).
		SetRetryCount(config.QuoteRetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(isRetryableResp)

	return &QuoteClient{http: httpClient}
}

// WithHTTP overrides the underlying resty client. Useful for tests pointing
// at an httptest server.
func (c *QuoteClient) WithHTTP(httpClient *resty.Client) *QuoteClient {
	return &QuoteClient{http: httpClient}
}

// GetPrice returns the current price of the first requested ticker.
func (c *QuoteClient) GetPrice(ctx context.Context, tickers []string) (float64, error) {
	if len(tickers) == 0 {
		return 0, fmt.Errorf("no tickers requested")
	}

	var out quoteResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("tickers", strings.Join(tickers, ",")).
		SetResult(&out).
		Get("/v1/quotes")
	if err != nil {
		logger.WithError(err).WithField("tickers", tickers).Error("quote request failed")
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("quote service answered %d", resp.StatusCode())
	}

	price, ok := out.Prices[tickers[0]]
	if !ok {
		return 0, fmt.Errorf("no price for %s", tickers[0])
	}

	logger.WithFields(map[string]interface{}{
		"ticker": tickers[0],
		"price":  price,
	}).Debug("quote fetched")

	return price, nil
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	switch r.StatusCode() {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
