package paper

// Position is the internal ledger for one symbol/segment/product.
// Quantities and amounts accumulate per fill; carried-forward fields
// exist so the report follows the broker's documented P&L formula
// even though paper sessions start flat.
type Position struct {
	TradingSymbol   string
	ExchangeSegment string
	Product         string
	InstrumentToken string

	BuyQuantity  int64
	SellQuantity int64
	BuyAmount    float64
	SellAmount   float64
	CfBuyQty     int64
	CfSellQty    int64
	CfBuyAmt     float64
	CfSellAmt    float64

	LTP float64

	// Derivative contract factors, all 1 for equities.
	Multiplier float64
	GenNum     float64
	GenDen     float64
	PrcNum     float64
	PrcDen     float64
}

// PositionReport is the paper position wire shape. Its keys line up
// with what the view normalizer prefers (net_qty, avg_price,
// total_pnl, ltp).
type PositionReport struct {
	TradingSymbol   string  `json:"trading_symbol"`
	ExchangeSegment string  `json:"exchange_segment"`
	Product         string  `json:"product"`
	InstrumentToken string  `json:"instrument_token"`
	TotalBuyQty     int64   `json:"total_buy_qty"`
	TotalSellQty    int64   `json:"total_sell_qty"`
	NetQty          int64   `json:"net_qty"`
	TotalBuyAmt     float64 `json:"total_buy_amt"`
	TotalSellAmt    float64 `json:"total_sell_amt"`
	RealizedPnL     float64 `json:"realized_pnl"`
	UnrealizedPnL   float64 `json:"unrealized_pnl"`
	TotalPnL        float64 `json:"total_pnl"`
	BuyAvgPrice     float64 `json:"buy_avg_price"`
	SellAvgPrice    float64 `json:"sell_avg_price"`
	AvgPrice        float64 `json:"avg_price"`
	LTP             float64 `json:"ltp"`
}

// priceFactor converts contract quantities to rupee terms. Equities
// come out at 1.
func (p *Position) priceFactor() float64 {
	f := p.Multiplier * (p.GenNum / p.GenDen) * (p.PrcNum / p.PrcDen)
	if f == 0 {
		return 1
	}
	return f
}

// Report computes the position P&L per the broker's formula:
// realized = total sell amount - total buy amount, unrealized =
// net qty * ltp * price factor, average price from the heavier side.
func (p *Position) Report() PositionReport {
	factor := p.priceFactor()

	totalBuyQty := p.CfBuyQty + p.BuyQuantity
	totalSellQty := p.CfSellQty + p.SellQuantity
	netQty := totalBuyQty - totalSellQty

	totalBuyAmt := p.CfBuyAmt + p.BuyAmount
	totalSellAmt := p.CfSellAmt + p.SellAmount

	realized := totalSellAmt - totalBuyAmt
	unrealized := float64(netQty) * p.LTP * factor

	var buyAvg, sellAvg float64
	if totalBuyQty > 0 {
		buyAvg = totalBuyAmt / (float64(totalBuyQty) * factor)
	}
	if totalSellQty > 0 {
		sellAvg = totalSellAmt / (float64(totalSellQty) * factor)
	}

	var avg float64
	switch {
	case totalBuyQty > totalSellQty:
		avg = buyAvg
	case totalBuyQty < totalSellQty:
		avg = sellAvg
	}

	return PositionReport{
		TradingSymbol:   p.TradingSymbol,
		ExchangeSegment: p.ExchangeSegment,
		Product:         p.Product,
		InstrumentToken: p.InstrumentToken,
		TotalBuyQty:     totalBuyQty,
		TotalSellQty:    totalSellQty,
		NetQty:          netQty,
		TotalBuyAmt:     totalBuyAmt,
		TotalSellAmt:    totalSellAmt,
		RealizedPnL:     realized,
		UnrealizedPnL:   unrealized,
		TotalPnL:        realized + unrealized,
		BuyAvgPrice:     buyAvg,
		SellAvgPrice:    sellAvg,
		AvgPrice:        avg,
		LTP:             p.LTP,
	}
}
