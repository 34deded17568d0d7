package broker

import (
	"context"

	"github.com/rustyeddy/terminal/views"
)

// Broker is the live trading backend. Report calls return records in
// whatever shape the wire carried; the views package owns tolerance.
type Broker interface {
	OrderReport(ctx context.Context) ([]views.Raw, error)
	TradeReport(ctx context.Context, orderID string) ([]views.Raw, error)
	Positions(ctx context.Context) ([]views.Raw, error)
	Holdings(ctx context.Context) ([]views.Raw, error)
	Limits(ctx context.Context, segment, exchange, product string) (views.Raw, error)

	PlaceOrder(ctx context.Context, req OrderRequest) (views.Raw, error)
	ModifyOrder(ctx context.Context, req ModifyRequest) (views.Raw, error)
	CancelOrder(ctx context.Context, orderID, amo string) (views.Raw, error)

	SearchScrip(ctx context.Context, exchange, symbol string) ([]Scrip, error)
	MarginRequired(ctx context.Context, req MarginRequest) (views.Raw, error)
}

// OrderRequest carries the parameters of a new order.
type OrderRequest struct {
	TradingSymbol     string  `json:"trading_symbol"`
	ExchangeSegment   string  `json:"exchange_segment"`
	TransactionType   string  `json:"transaction_type"`
	OrderType         string  `json:"order_type"`
	Product           string  `json:"product"`
	Quantity          int64   `json:"quantity"`
	Price             float64 `json:"price"`
	TriggerPrice      float64 `json:"trigger_price"`
	DisclosedQuantity int64   `json:"disclosed_quantity"`
	Validity          string  `json:"validity"`
	AMO               string  `json:"amo"`
	Tag               string  `json:"tag"`
}

// ModifyRequest carries the parameters of an order modification. Nil
// fields are left untouched.
type ModifyRequest struct {
	OrderID           string   `json:"order_id"`
	Price             *float64 `json:"price,omitempty"`
	Quantity          *int64   `json:"quantity,omitempty"`
	TriggerPrice      *float64 `json:"trigger_price,omitempty"`
	Validity          *string  `json:"validity,omitempty"`
	OrderType         *string  `json:"order_type,omitempty"`
	DisclosedQuantity *int64   `json:"disclosed_quantity,omitempty"`
}

// MarginRequest carries the parameters of a margin estimate.
type MarginRequest struct {
	ExchangeSegment string  `json:"exchange_segment"`
	Price           float64 `json:"price"`
	OrderType       string  `json:"order_type"`
	Product         string  `json:"product"`
	Quantity        int64   `json:"quantity"`
	InstrumentToken string  `json:"instrument_token"`
	TransactionType string  `json:"transaction_type"`
}

// Scrip is one instrument returned by a symbol search.
type Scrip struct {
	Token         string `json:"token"`
	Symbol        string `json:"symbol"`
	TradingSymbol string `json:"trading_symbol"`
	Exchange      string `json:"exchange"`
	Description   string `json:"description"`
}
