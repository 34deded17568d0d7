package paper

import (
	"time"
)

// Order statuses, matching the broker's own vocabulary so the
// normalizer treats paper and live records alike.
const (
	StatusPending   = "pending"
	StatusOpen      = "open"
	StatusComplete  = "complete"
	StatusCancelled = "cancelled"
	StatusRejected  = "rejected"
	StatusModified  = "modified"
)

// Order types accepted by the engine.
const (
	OrderTypeLimit          = "L"
	OrderTypeMarket         = "MKT"
	OrderTypeStopLoss       = "SL"
	OrderTypeStopLossMarket = "SL-M"
)

// Order is one simulated order. The json tags are the paper wire
// shape the view normalizer prefers.
type Order struct {
	OrderID           string    `json:"order_id"`
	TradingSymbol     string    `json:"trading_symbol"`
	ExchangeSegment   string    `json:"exchange_segment"`
	TransactionType   string    `json:"transaction_type"`
	OrderType         string    `json:"order_type"`
	Product           string    `json:"product"`
	Quantity          int64     `json:"quantity"`
	Price             float64   `json:"price"`
	TriggerPrice      float64   `json:"trigger_price"`
	DisclosedQuantity int64     `json:"disclosed_quantity"`
	Validity          string    `json:"validity"`
	Status            string    `json:"status"`
	FilledQuantity    int64     `json:"filled_quantity"`
	AveragePrice      float64   `json:"average_price"`
	OrderTime         time.Time `json:"order_time"`
	IsPaper           bool      `json:"is_paper"`
	RejectionReason   string    `json:"rejection_reason"`
	Tag               string    `json:"tag"`
}

// terminal reports whether the order can no longer be modified or
// cancelled.
func (o *Order) terminal() bool {
	switch o.Status {
	case StatusComplete, StatusCancelled, StatusRejected:
		return true
	}
	return false
}
