package risk

import (
	"fmt"
	"math"

	"github.com/rustyeddy/terminal/broker"
)

// Limits are the hard order-level limits enforced before any order,
// paper or live, reaches the backend.
type Limits struct {
	MaxOrderValue   float64 // max price*quantity of a single order
	MaxDailyLoss    float64 // circuit breaker on the session's realized P&L
	MaxPositionSize int64   // max quantity per order
}

// Violation is one failed check.
type Violation struct {
	Code string
	Msg  string
}

// Decision is the outcome of validating an order.
type Decision struct {
	Allowed    bool
	Violations []Violation
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Messages flattens the violations for an API response.
func (d Decision) Messages() []string {
	out := make([]string, 0, len(d.Violations))
	for _, v := range d.Violations {
		out = append(out, v.Msg)
	}
	return out
}

// Evaluate validates an order against the limits and the session's
// daily P&L. Every check runs; the decision carries the full list of
// violations.
func Evaluate(l Limits, req broker.OrderRequest, dailyPnL float64) Decision {
	d := Decision{Allowed: true}

	required := []struct{ name, value string }{
		{"trading_symbol", req.TradingSymbol},
		{"exchange_segment", req.ExchangeSegment},
		{"transaction_type", req.TransactionType},
		{"order_type", req.OrderType},
		{"product", req.Product},
	}
	for _, f := range required {
		if f.value == "" {
			d.add("MISSING_FIELD", fmt.Sprintf("missing required field: %s", f.name))
		}
	}
	if req.Quantity <= 0 {
		d.add("MISSING_FIELD", "missing required field: quantity")
	}

	if l.MaxPositionSize > 0 && req.Quantity > l.MaxPositionSize {
		d.add("POSITION_TOO_LARGE",
			fmt.Sprintf("quantity %d exceeds max position size %d", req.Quantity, l.MaxPositionSize))
	}

	if value := float64(req.Quantity) * req.Price; l.MaxOrderValue > 0 && value > l.MaxOrderValue {
		d.add("ORDER_VALUE_TOO_HIGH",
			fmt.Sprintf("order value %.2f exceeds max %.2f", value, l.MaxOrderValue))
	}

	if l.MaxDailyLoss > 0 && math.Abs(dailyPnL) >= l.MaxDailyLoss {
		d.add("DAILY_LOSS_LIMIT",
			fmt.Sprintf("daily loss limit of %.2f reached", l.MaxDailyLoss))
	}

	return d
}
