package views

import (
	"github.com/rustyeddy/terminal/market"
)

// DepthRows is the number of book levels the terminal displays.
const DepthRows = 5

// DepthRow pairs one bid level with one ask level for display.
type DepthRow struct {
	Bid market.DepthLevel `json:"bid"`
	Ask market.DepthLevel `json:"ask"`
}

// DepthView is the aggregated order book: always exactly DepthRows
// rows, with totals taken over every supplied level.
type DepthView struct {
	Rows        []DepthRow `json:"rows"`
	TotalBidQty int64      `json:"total_bid_qty"`
	TotalAskQty int64      `json:"total_ask_qty"`
}

// AggregateDepth pads or trims each side to exactly DepthRows rows,
// filling missing levels with the zero level. The totals sum quantity
// across ALL supplied levels, not just the displayed five.
func AggregateDepth(bids, asks []market.DepthLevel) DepthView {
	v := DepthView{Rows: make([]DepthRow, DepthRows)}
	for i := 0; i < DepthRows; i++ {
		if i < len(bids) {
			v.Rows[i].Bid = bids[i]
		}
		if i < len(asks) {
			v.Rows[i].Ask = asks[i]
		}
	}
	for _, b := range bids {
		v.TotalBidQty += b.Quantity
	}
	for _, a := range asks {
		v.TotalAskQty += a.Quantity
	}
	return v
}
