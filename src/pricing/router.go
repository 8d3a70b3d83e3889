package pricing

import (
	"context"
	"strings"
)

// Router sends crypto pairs to the exchange getter and every other ticker
// to the quote service. Crypto pairs carry the CUR_QUOTE underscore form.
type Router struct {
	Quotes Getter
	Crypto Getter
}

func (r *Router) GetPrice(ctx context.Context, tickers []string) (float64, error) {
	if r.Crypto != nil && len(tickers) > 0 && strings.Contains(tickers[0], "_") {
		return r.Crypto.GetPrice(ctx, tickers)
	}
	return r.Quotes.GetPrice(ctx, tickers)
}
