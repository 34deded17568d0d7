package neo

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rustyeddy/terminal/views"
)

// OrderReport fetches the day's order book.
func (c *Client) OrderReport(ctx context.Context) ([]views.Raw, error) {
	env, err := c.do(ctx, http.MethodGet, "/orders/report", nil, nil)
	if err != nil {
		return nil, err
	}
	return env.records()
}

// TradeReport fetches the day's executed trades, optionally filtered
// to one order.
func (c *Client) TradeReport(ctx context.Context, orderID string) ([]views.Raw, error) {
	var q url.Values
	if orderID != "" {
		q = url.Values{"order_id": {orderID}}
	}
	env, err := c.do(ctx, http.MethodGet, "/trades/report", q, nil)
	if err != nil {
		return nil, err
	}
	return env.records()
}

// Positions fetches the open positions.
func (c *Client) Positions(ctx context.Context) ([]views.Raw, error) {
	env, err := c.do(ctx, http.MethodGet, "/positions", nil, nil)
	if err != nil {
		return nil, err
	}
	return env.records()
}

// Holdings fetches the demat holdings.
func (c *Client) Holdings(ctx context.Context) ([]views.Raw, error) {
	env, err := c.do(ctx, http.MethodGet, "/holdings", nil, nil)
	if err != nil {
		return nil, err
	}
	return env.records()
}

// Limits fetches the funds and margin snapshot.
func (c *Client) Limits(ctx context.Context, segment, exchange, product string) (views.Raw, error) {
	q := url.Values{
		"segment":  {orAll(segment)},
		"exchange": {orAll(exchange)},
		"product":  {orAll(product)},
	}
	env, err := c.do(ctx, http.MethodGet, "/limits", q, nil)
	if err != nil {
		return nil, err
	}
	return views.Raw(env.Data), nil
}

func orAll(s string) string {
	if s == "" {
		return "ALL"
	}
	return s
}
