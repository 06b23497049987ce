package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rickgao/marketdata/internal/model"
)

// GetQuote fetches the latest price for symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (model.Sample, error) {
	if symbol == "" {
		return model.Sample{}, fmt.Errorf("get quote: empty symbol")
	}

	var resp QuoteResponse
	if err := c.getJSON(ctx, "/quotes/"+url.PathEscape(strings.ToUpper(symbol)), &resp); err != nil {
		return model.Sample{}, fmt.Errorf("get quote %s: %w", symbol, err)
	}

	if resp.Price <= 0 {
		return model.Sample{}, fmt.Errorf("get quote %s: invalid price %v", symbol, resp.Price)
	}

	ts := resp.Time
	if ts.IsZero() {
		ts = c.now()
	}

	return model.Sample{Time: ts, Price: resp.Price}, nil
}
