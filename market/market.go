package market

import (
	"time"
)

// Key builds the cache key used for every per-instrument store:
// instrument token joined with the exchange segment.
func Key(token, exchange string) string {
	return token + "_" + exchange
}

// Quote is the latest known market data for one instrument. Fields map
// the broker's stock feed; index feeds fill a subset.
type Quote struct {
	InstrumentToken string    `json:"instrument_token"`
	ExchangeSegment string    `json:"exchange_segment"`
	TradingSymbol   string    `json:"trading_symbol"`
	LTP             float64   `json:"ltp"`
	LastTradedQty   int64     `json:"last_traded_qty"`
	Volume          int64     `json:"volume"`
	OpenPrice       float64   `json:"open_price"`
	HighPrice       float64   `json:"high_price"`
	LowPrice        float64   `json:"low_price"`
	ClosePrice      float64   `json:"close_price"`
	Change          float64   `json:"change"`
	ChangePercent   float64   `json:"change_percent"`
	BidPrice        float64   `json:"bid_price"`
	AskPrice        float64   `json:"ask_price"`
	BidQty          int64     `json:"bid_qty"`
	AskQty          int64     `json:"ask_qty"`
	OpenInterest    int64     `json:"open_interest"`
	TotalBuyQty     int64     `json:"total_buy_qty"`
	TotalSellQty    int64     `json:"total_sell_qty"`
	LowerCircuit    float64   `json:"lower_circuit"`
	UpperCircuit    float64   `json:"upper_circuit"`
	Week52High      float64   `json:"week_52_high"`
	Week52Low       float64   `json:"week_52_low"`
	LastUpdate      time.Time `json:"last_update"`
}

// Key returns the store key for this quote.
func (q Quote) Key() string {
	return Key(q.InstrumentToken, q.ExchangeSegment)
}

// DepthLevel is a single price level of the order book.
type DepthLevel struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Orders   int64   `json:"orders"`
}

// Depth is the order book snapshot for one instrument. The feed always
// delivers five levels per side; levels the exchange did not fill come
// through as zeros.
type Depth struct {
	InstrumentToken string       `json:"instrument_token"`
	ExchangeSegment string       `json:"exchange_segment"`
	TradingSymbol   string       `json:"trading_symbol"`
	Bids            []DepthLevel `json:"bids"`
	Asks            []DepthLevel `json:"asks"`
	LastUpdate      time.Time    `json:"last_update"`
}

// Key returns the store key for this depth snapshot.
func (d Depth) Key() string {
	return Key(d.InstrumentToken, d.ExchangeSegment)
}
