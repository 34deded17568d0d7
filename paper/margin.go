package paper

import (
	"github.com/rustyeddy/terminal/broker"
)

// Limits is the fixed paper account funds snapshot.
type Limits struct {
	AvailableCash   float64 `json:"available_cash"`
	UsedMargin      float64 `json:"used_margin"`
	AvailableMargin float64 `json:"available_margin"`
	TotalCollateral float64 `json:"total_collateral"`
}

// AccountLimits returns the simulated funds for the paper account.
func AccountLimits() Limits {
	return Limits{
		AvailableCash:   AvailableCash,
		AvailableMargin: AvailableCash,
	}
}

// MarginEstimate is the simplified paper margin calculation.
type MarginEstimate struct {
	RequiredMargin  float64 `json:"required_margin"`
	AvailableMargin float64 `json:"available_margin"`
	CanPlaceOrder   bool    `json:"can_place_order"`
}

// EstimateMargin approximates the margin an order needs: full value,
// scaled to 0.2 for intraday products (5x leverage) and 0.5 for NRML
// (2x).
func EstimateMargin(req broker.MarginRequest) MarginEstimate {
	margin := req.Price * float64(req.Quantity)
	switch req.Product {
	case "MIS", "INTRADAY":
		margin *= 0.2
	case "NRML":
		margin *= 0.5
	}

	return MarginEstimate{
		RequiredMargin:  margin,
		AvailableMargin: AvailableCash,
		CanPlaceOrder:   margin <= AvailableCash,
	}
}
