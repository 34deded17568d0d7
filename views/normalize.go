package views

import (
	"strings"
)

// Side is the order direction in broker notation: "B" or "S".
type Side string

const (
	Buy  Side = "B"
	Sell Side = "S"
)

// SideOf maps a raw transaction-type value to a Side. "S"/"SELL" in
// any case means Sell; everything else, including empty, is Buy.
func SideOf(v string) Side {
	if s := strings.ToUpper(strings.TrimSpace(v)); s == "S" || strings.HasPrefix(s, "SELL") {
		return Sell
	}
	return Buy
}

// Label is the display label for the side.
func (s Side) Label() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}

// Sign is +1 for buys and -1 for sells.
func (s Side) Sign() int {
	if s == Sell {
		return -1
	}
	return 1
}

// OrderView is the canonical rendering of one order, whichever shape
// it arrived in.
type OrderView struct {
	Time     string  `json:"time"`
	Symbol   string  `json:"symbol"`
	Side     Side    `json:"side"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Status   string  `json:"status"`
	OrderID  string  `json:"order_id"`
}

// TradeView is the canonical rendering of one executed trade.
type TradeView struct {
	Time           string  `json:"time"`
	Symbol         string  `json:"symbol"`
	Side           Side    `json:"side"`
	FilledQuantity int64   `json:"filled_quantity"`
	AvgPrice       float64 `json:"avg_price"`
	Value          float64 `json:"value"`
}

// PositionView is the canonical rendering of one open position.
type PositionView struct {
	Symbol      string  `json:"symbol"`
	Exchange    string  `json:"exchange"`
	NetQuantity int64   `json:"net_quantity"`
	AvgPrice    float64 `json:"avg_price"`
	LastPrice   float64 `json:"last_price"`
	PnL         float64 `json:"pnl"`
}

// HoldingView is the canonical rendering of one portfolio holding.
// Holdings arrive already canonical; this is a straight read with
// defaults, no derivation.
type HoldingView struct {
	Symbol       string  `json:"symbol"`
	Quantity     int64   `json:"quantity"`
	AvgPrice     float64 `json:"avg_price"`
	CurrentPrice float64 `json:"current_price"`
	CurrentValue float64 `json:"current_value"`
	PnL          float64 `json:"pnl"`
	PnLPercent   float64 `json:"pnl_percent"`
}

// NormalizeOrder resolves a raw order record, paper keys first and the
// broker's aliases as fallbacks. Malformed fields degrade to defaults,
// never to an error.
func NormalizeOrder(raw Raw) OrderView {
	return OrderView{
		Time:     displayTime(str(raw, "", "order_time", "ordDtTm", "ordEntTm"), "--"),
		Symbol:   str(raw, "N/A", "trading_symbol", "trdSym", "sym"),
		Side:     SideOf(str(raw, "B", "transaction_type", "trnsTp")),
		Quantity: count(raw, "quantity", "qty"),
		Price:    num(raw, "price", "prc", "avgPrc"),
		Status:   str(raw, "unknown", "status", "ordSt", "stat"),
		OrderID:  str(raw, "", "order_id", "nOrdNo"),
	}
}

// NormalizeTrade resolves a raw trade record. Value is always derived
// as filled quantity times average price; neither shape carries it.
func NormalizeTrade(raw Raw) TradeView {
	rawTime := str(raw, "", "order_time", "flTm", "exTm")
	qty := count(raw, "filled_quantity", "fldQty", "qty")
	avg := num(raw, "average_price", "avgPrc", "prc")
	return TradeView{
		Time:           displayTime(rawTime, rawTime),
		Symbol:         str(raw, "N/A", "trading_symbol", "trdSym", "sym"),
		Side:           SideOf(str(raw, "B", "transaction_type", "trnsTp")),
		FilledQuantity: qty,
		AvgPrice:       avg,
		Value:          float64(qty) * avg,
	}
}

// NormalizePosition resolves a raw position record. Net quantity falls
// back to the carried-forward plus intraday buy/sell ledger, and P&L
// falls back to (last-avg)*net, each field tolerantly coerced.
func NormalizePosition(raw Raw) PositionView {
	v := PositionView{
		Symbol:    str(raw, "N/A", "trading_symbol", "trdSym", "sym"),
		Exchange:  str(raw, "", "exchange_segment", "exSeg"),
		AvgPrice:  num(raw, "avg_price", "avgPrc"),
		LastPrice: num(raw, "ltp"),
	}
	if n, ok := lookup(raw, "net_qty", "qty"); ok {
		v.NetQuantity = n.Int()
	} else {
		v.NetQuantity = (count(raw, "cfBuyQty") + count(raw, "flBuyQty")) -
			(count(raw, "cfSellQty") + count(raw, "flSellQty"))
	}
	if p, ok := lookup(raw, "pnl", "total_pnl"); ok {
		v.PnL = p.Float()
	} else {
		v.PnL = (v.LastPrice - v.AvgPrice) * float64(v.NetQuantity)
	}
	return v
}

// NormalizeHolding reads a canonical holding record.
func NormalizeHolding(raw Raw) HoldingView {
	return HoldingView{
		Symbol:       str(raw, "N/A", "symbol", "trading_symbol"),
		Quantity:     count(raw, "quantity"),
		AvgPrice:     num(raw, "average_price", "avg_price"),
		CurrentPrice: num(raw, "current_price"),
		CurrentValue: num(raw, "current_value"),
		PnL:          num(raw, "pnl"),
		PnLPercent:   num(raw, "pnl_percent"),
	}
}
