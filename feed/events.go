package feed

import (
	"github.com/rustyeddy/terminal/market"
)

// OrderUpdate is one order state transition from the order feed.
type OrderUpdate struct {
	OrderID         string  `json:"order_id"`
	Status          string  `json:"status"`
	TradingSymbol   string  `json:"trading_symbol"`
	Quantity        int64   `json:"quantity"`
	FilledQuantity  int64   `json:"filled_quantity"`
	Price           float64 `json:"price"`
	TransactionType string  `json:"transaction_type"`
	ExchangeSegment string  `json:"exchange_segment"`
	RejectionReason string  `json:"rejection_reason"`
	Timestamp       string  `json:"timestamp"`
}

// ConnectionStatus reports feed connectivity to terminal clients.
type ConnectionStatus struct {
	Connected bool   `json:"connected"`
	PaperMode bool   `json:"paper_mode"`
	Message   string `json:"message,omitempty"`
}

// Sink receives every decoded feed event. Implementations must not
// block; the feed loop is single-threaded.
type Sink interface {
	OnPrice(market.Quote)
	OnDepth(market.Depth)
	OnOrder(OrderUpdate)
	OnConnection(ConnectionStatus)
}

// Instrument identifies one subscription target.
type Instrument struct {
	InstrumentToken string `json:"instrument_token"`
	ExchangeSegment string `json:"exchange_segment"`
}
