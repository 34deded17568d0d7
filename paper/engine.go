package paper

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rustyeddy/terminal/broker"
	"github.com/rustyeddy/terminal/market"
)

// AvailableCash is the fixed paper account balance.
const AvailableCash = 1_000_000.0

// Engine simulates order execution against live prices. It owns the
// paper order book, positions, and holdings for one session.
type Engine struct {
	mu        sync.Mutex
	orders    map[string]*Order
	positions map[string]*Position
	holdings  map[string]*Holding
	dailyPnL  float64

	now func() time.Time // test hook
}

func NewEngine() *Engine {
	return &Engine{
		orders:    make(map[string]*Order),
		positions: make(map[string]*Position),
		holdings:  make(map[string]*Holding),
		now:       time.Now,
	}
}

// orderID generates a paper order id. ULIDs keep ids time-sortable,
// which the order book relies on as a tiebreaker.
func orderID() string {
	return "PAPER_" + ulid.Make().String()
}

// PlaceOrder accepts a validated order. Market orders fill
// immediately; when the order carries no limit price the fill uses
// ltp, the instrument's last traded price (zero when unknown).
// Limit and stop orders rest as open.
func (e *Engine) PlaceOrder(req broker.OrderRequest, ltp float64) *Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	o := &Order{
		OrderID:           orderID(),
		TradingSymbol:     req.TradingSymbol,
		ExchangeSegment:   req.ExchangeSegment,
		TransactionType:   req.TransactionType,
		OrderType:         req.OrderType,
		Product:           req.Product,
		Quantity:          req.Quantity,
		Price:             req.Price,
		TriggerPrice:      req.TriggerPrice,
		DisclosedQuantity: req.DisclosedQuantity,
		Validity:          req.Validity,
		Status:            StatusOpen,
		OrderTime:         e.now(),
		IsPaper:           true,
		Tag:               req.Tag,
	}
	if o.Validity == "" {
		o.Validity = "DAY"
	}

	if o.OrderType == OrderTypeMarket {
		fill := o.Price
		if fill == 0 {
			fill = ltp
		}
		o.Status = StatusComplete
		o.FilledQuantity = o.Quantity
		o.AveragePrice = fill
	}

	e.orders[o.OrderID] = o
	return o
}

// ModifyOrder updates a resting order. Orders already complete,
// cancelled, or rejected refuse modification.
func (e *Engine) ModifyOrder(req broker.ModifyRequest) (*Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.orders[req.OrderID]
	if !ok {
		return nil, fmt.Errorf("order %s not found", req.OrderID)
	}
	if o.terminal() {
		return nil, fmt.Errorf("cannot modify order in %s status", o.Status)
	}

	if req.Price != nil {
		o.Price = *req.Price
	}
	if req.Quantity != nil {
		o.Quantity = *req.Quantity
	}
	if req.TriggerPrice != nil {
		o.TriggerPrice = *req.TriggerPrice
	}
	if req.Validity != nil {
		o.Validity = *req.Validity
	}
	if req.DisclosedQuantity != nil {
		o.DisclosedQuantity = *req.DisclosedQuantity
	}
	o.Status = StatusModified

	return o, nil
}

// CancelOrder cancels a resting order, with the same terminal-status
// guard as ModifyOrder.
func (e *Engine) CancelOrder(orderID string) (*Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	if o.terminal() {
		return nil, fmt.Errorf("cannot cancel order in %s status", o.Status)
	}
	o.Status = StatusCancelled

	return o, nil
}

// Orders returns the order book, newest first.
func (e *Engine) Orders() []Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Order, 0, len(e.orders))
	for _, o := range e.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderTime.Equal(out[j].OrderTime) {
			return out[i].OrderTime.After(out[j].OrderTime)
		}
		return out[i].OrderID > out[j].OrderID
	})
	return out
}

// Trades returns completed orders as the trade history, optionally
// filtered to one order id.
func (e *Engine) Trades(orderID string) []Order {
	out := e.Orders()
	trades := out[:0]
	for _, o := range out {
		if o.Status == StatusComplete && (orderID == "" || o.OrderID == orderID) {
			trades = append(trades, o)
		}
	}
	return trades
}

// ApplyFill books a fill into the position ledger, keyed
// symbol_segment_product.
func (e *Engine) ApplyFill(symbol, segment, product string, qty int64, price float64, side string, token string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := symbol + "_" + segment + "_" + product
	p, ok := e.positions[key]
	if !ok {
		p = &Position{
			TradingSymbol:   symbol,
			ExchangeSegment: segment,
			Product:         product,
			InstrumentToken: token,
			Multiplier:      1, GenNum: 1, GenDen: 1, PrcNum: 1, PrcDen: 1,
		}
		e.positions[key] = p
	}

	amount := float64(qty) * price
	if side == "S" {
		p.SellQuantity += qty
		p.SellAmount += amount
	} else {
		p.BuyQuantity += qty
		p.BuyAmount += amount
	}
	p.LTP = price
}

// ApplyQuote refreshes the last traded price of any position on the
// quoted instrument.
func (e *Engine) ApplyQuote(q market.Quote) {
	if q.InstrumentToken == "" || q.LTP == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.positions {
		if p.InstrumentToken == q.InstrumentToken {
			p.LTP = q.LTP
		}
	}
}

// Positions returns every paper position with P&L computed.
func (e *Engine) Positions() []PositionReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]string, 0, len(e.positions))
	for k := range e.positions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]PositionReport, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.positions[k].Report())
	}
	return out
}

// Holdings returns every paper holding with P&L computed.
func (e *Engine) Holdings() []HoldingReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]string, 0, len(e.holdings))
	for k := range e.holdings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]HoldingReport, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.holdings[k].Report())
	}
	return out
}

// AddHolding seeds a holding, keyed symbol_segment. Used by tests and
// the clear/reseed flow; paper fills only move positions.
func (e *Engine) AddHolding(h Holding) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.holdings[h.Symbol+"_"+h.ExchangeSegment] = &h
}

// DailyPnL is the session's realized P&L.
func (e *Engine) DailyPnL() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dailyPnL
}

// AddRealized books realized P&L against the daily loss breaker.
func (e *Engine) AddRealized(pnl float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dailyPnL += pnl
}

// Clear drops all paper orders, positions, and holdings and resets
// the daily P&L.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orders = make(map[string]*Order)
	e.positions = make(map[string]*Position)
	e.holdings = make(map[string]*Holding)
	e.dailyPnL = 0
}
