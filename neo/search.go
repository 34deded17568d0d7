package neo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rustyeddy/terminal/broker"
)

// scripRecord is the broker's search result shape.
type scripRecord struct {
	Symbol     string `json:"pSymbol"`
	SymbolName string `json:"pSymbolName"`
	TrdSymbol  string `json:"pTrdSymbol"`
	ExchSeg    string `json:"pExchSeg"`
	Group      string `json:"pGroup"`
	Desc       string `json:"pDesc"`
}

// SearchScrip searches instruments by symbol on one exchange segment.
// Only equity-group (EQ) scrips are returned.
func (c *Client) SearchScrip(ctx context.Context, exchange, symbol string) ([]broker.Scrip, error) {
	if exchange == "" {
		exchange = "nse_cm"
	}
	q := url.Values{
		"exchange_segment": {exchange},
		"symbol":           {symbol},
	}

	env, err := c.do(ctx, http.MethodGet, "/scrips/search", q, nil)
	if err != nil {
		return nil, err
	}

	var records []scripRecord
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &records); err != nil {
			return nil, fmt.Errorf("decode scrip results: %w", err)
		}
	}

	var out []broker.Scrip
	for _, r := range records {
		if r.Group != "EQ" {
			continue
		}
		exch := r.ExchSeg
		if exch == "" {
			exch = exchange
		}
		out = append(out, broker.Scrip{
			Token:         r.Symbol,
			Symbol:        r.SymbolName,
			TradingSymbol: r.TrdSymbol,
			Exchange:      exch,
			Description:   r.Desc,
		})
	}
	return out, nil
}
