package pricing

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/binance"
	logger "github.com/sirupsen/logrus"
)

// CryptoGetter resolves quotes for crypto instruments straight from the
// exchange ticker endpoint instead of the internal quote service.
type CryptoGetter struct {
	exchange goex.API
}

func NewCryptoGetter() *CryptoGetter {
	apiConfig := &goex.APIConfig{
		HttpClient: http.DefaultClient,
		Endpoint:   binance.GLOBAL_API_BASE_URL,
	}
	return &CryptoGetter{exchange: binance.NewWithConfig(apiConfig)}
}

// GetPrice returns the last traded price of the first requested pair.
// Tickers are expected in CUR_QUOTE form, e.g. BTC_USDT.
func (g *CryptoGetter) GetPrice(ctx context.Context, tickers []string) (float64, error) {
	if len(tickers) == 0 {
		return 0, fmt.Errorf("no tickers requested")
	}

	pair := goex.NewCurrencyPair2(strings.ToUpper(tickers[0]))
	ticker, err := g.exchange.GetTicker(pair)
	if err != nil {
		logger.WithError(err).WithField("pair", tickers[0]).Error("crypto ticker request failed")
		return 0, err
	}

	return ticker.Last, nil
}
