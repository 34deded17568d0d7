package paper

// Holding is one portfolio holding in the paper account.
type Holding struct {
	Symbol           string
	TradingSymbol    string
	ExchangeSegment  string
	InstrumentToken  string
	Quantity         int64
	AveragePrice     float64
	HoldingCost      float64
	CurrentPrice     float64
	SellableQuantity int64
}

// HoldingReport is the canonical holding wire shape the view layer
// passes through untouched.
type HoldingReport struct {
	Symbol           string  `json:"symbol"`
	TradingSymbol    string  `json:"trading_symbol"`
	ExchangeSegment  string  `json:"exchange_segment"`
	InstrumentToken  string  `json:"instrument_token"`
	SellableQuantity int64   `json:"sellable_quantity"`
	Quantity         int64   `json:"quantity"`
	AveragePrice     float64 `json:"average_price"`
	CurrentPrice     float64 `json:"current_price"`
	HoldingCost      float64 `json:"holding_cost"`
	CurrentValue     float64 `json:"current_value"`
	PnL              float64 `json:"pnl"`
	PnLPercent       float64 `json:"pnl_percent"`
}

// Report computes holding P&L: current value = qty*price, pnl against
// holding cost, percent guarded for a non-positive cost basis.
func (h *Holding) Report() HoldingReport {
	currentValue := float64(h.Quantity) * h.CurrentPrice
	pnl := currentValue - h.HoldingCost
	var pct float64
	if h.HoldingCost > 0 {
		pct = pnl / h.HoldingCost * 100
	}

	return HoldingReport{
		Symbol:           h.Symbol,
		TradingSymbol:    h.TradingSymbol,
		ExchangeSegment:  h.ExchangeSegment,
		InstrumentToken:  h.InstrumentToken,
		SellableQuantity: h.SellableQuantity,
		Quantity:         h.Quantity,
		AveragePrice:     h.AveragePrice,
		CurrentPrice:     h.CurrentPrice,
		HoldingCost:      h.HoldingCost,
		CurrentValue:     currentValue,
		PnL:              pnl,
		PnLPercent:       pct,
	}
}
