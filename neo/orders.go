package neo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rustyeddy/terminal/broker"
	"github.com/rustyeddy/terminal/views"
)

// PlaceOrder submits a new order and returns the broker's raw order
// record.
func (c *Client) PlaceOrder(ctx context.Context, req broker.OrderRequest) (views.Raw, error) {
	if req.Validity == "" {
		req.Validity = "DAY"
	}
	if req.AMO == "" {
		req.AMO = "NO"
	}
	env, err := c.do(ctx, http.MethodPost, "/orders", nil, req)
	if err != nil {
		return nil, err
	}
	return views.Raw(env.Data), nil
}

// ModifyOrder updates a pending order.
func (c *Client) ModifyOrder(ctx context.Context, req broker.ModifyRequest) (views.Raw, error) {
	if req.OrderID == "" {
		return nil, fmt.Errorf("modify order: order id required")
	}
	env, err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(req.OrderID), nil, req)
	if err != nil {
		return nil, err
	}
	return views.Raw(env.Data), nil
}

// CancelOrder cancels a pending order.
func (c *Client) CancelOrder(ctx context.Context, orderID, amo string) (views.Raw, error) {
	if orderID == "" {
		return nil, fmt.Errorf("cancel order: order id required")
	}
	if amo == "" {
		amo = "NO"
	}
	q := url.Values{"amo": {amo}}
	env, err := c.do(ctx, http.MethodDelete, "/orders/"+url.PathEscape(orderID), q, nil)
	if err != nil {
		return nil, err
	}
	return views.Raw(env.Data), nil
}

// MarginRequired asks the broker what margin an order would take.
func (c *Client) MarginRequired(ctx context.Context, req broker.MarginRequest) (views.Raw, error) {
	env, err := c.do(ctx, http.MethodPost, "/margin/required", nil, req)
	if err != nil {
		return nil, err
	}
	return views.Raw(env.Data), nil
}
