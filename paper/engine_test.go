package paper

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/terminal/broker"
	"github.com/rustyeddy/terminal/market"
)

func marketOrder(qty int64, price float64) broker.OrderRequest {
	return broker.OrderRequest{
		TradingSymbol:   "RELIANCE-EQ",
		ExchangeSegment: "nse_cm",
		TransactionType: "B",
		OrderType:       OrderTypeMarket,
		Product:         "MIS",
		Quantity:        qty,
		Price:           price,
	}
}

func TestMarketOrderFillsImmediately(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	o := e.PlaceOrder(marketOrder(10, 2500), 0)

	assert.True(t, strings.HasPrefix(o.OrderID, "PAPER_"))
	assert.Equal(t, StatusComplete, o.Status)
	assert.Equal(t, int64(10), o.FilledQuantity)
	assert.Equal(t, 2500.0, o.AveragePrice)
	assert.True(t, o.IsPaper)
	assert.Equal(t, "DAY", o.Validity)
}

func TestMarketOrderWithoutPriceFillsAtLTP(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	o := e.PlaceOrder(marketOrder(10, 0), 2487.5)
	assert.Equal(t, 2487.5, o.AveragePrice)
}

func TestLimitOrderRestsOpen(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	req := marketOrder(10, 2400)
	req.OrderType = OrderTypeLimit
	o := e.PlaceOrder(req, 0)

	assert.Equal(t, StatusOpen, o.Status)
	assert.Equal(t, int64(0), o.FilledQuantity)
	assert.Equal(t, 0.0, o.AveragePrice)
}

func TestModifyOpenOrder(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	req := marketOrder(10, 2400)
	req.OrderType = OrderTypeLimit
	o := e.PlaceOrder(req, 0)

	price := 2450.0
	qty := int64(20)
	mod, err := e.ModifyOrder(broker.ModifyRequest{OrderID: o.OrderID, Price: &price, Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, StatusModified, mod.Status)
	assert.Equal(t, 2450.0, mod.Price)
	assert.Equal(t, int64(20), mod.Quantity)
}

func TestModifyCompleteOrderRefused(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	o := e.PlaceOrder(marketOrder(10, 2500), 0)

	price := 2450.0
	_, err := e.ModifyOrder(broker.ModifyRequest{OrderID: o.OrderID, Price: &price})
	assert.ErrorContains(t, err, "complete")
}

func TestCancelOrder(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	req := marketOrder(10, 2400)
	req.OrderType = OrderTypeLimit
	o := e.PlaceOrder(req, 0)

	c, err := e.CancelOrder(o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, c.Status)

	_, err = e.CancelOrder(o.OrderID)
	assert.ErrorContains(t, err, "cancelled")
}

func TestCancelUnknownOrder(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	_, err := e.CancelOrder("PAPER_NOPE")
	assert.ErrorContains(t, err, "not found")
}

func TestOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	base := time.Date(2025, 1, 22, 9, 15, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(time.Minute), base.Add(2 * time.Minute)}
	i := 0
	e.now = func() time.Time { t := times[i]; i++; return t }

	first := e.PlaceOrder(marketOrder(1, 100), 0)
	second := e.PlaceOrder(marketOrder(2, 100), 0)
	third := e.PlaceOrder(marketOrder(3, 100), 0)

	book := e.Orders()
	require.Len(t, book, 3)
	assert.Equal(t, third.OrderID, book[0].OrderID)
	assert.Equal(t, second.OrderID, book[1].OrderID)
	assert.Equal(t, first.OrderID, book[2].OrderID)
}

func TestTradesAreCompletedOrders(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	done := e.PlaceOrder(marketOrder(10, 2500), 0)
	resting := marketOrder(5, 2400)
	resting.OrderType = OrderTypeLimit
	e.PlaceOrder(resting, 0)

	trades := e.Trades("")
	require.Len(t, trades, 1)
	assert.Equal(t, done.OrderID, trades[0].OrderID)

	assert.Len(t, e.Trades(done.OrderID), 1)
	assert.Empty(t, e.Trades("PAPER_OTHER"))
}

func TestFillsAccumulateIntoPositions(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.ApplyFill("RELIANCE-EQ", "nse_cm", "MIS", 10, 2500, "B", "2885")
	e.ApplyFill("RELIANCE-EQ", "nse_cm", "MIS", 4, 2600, "S", "2885")

	positions := e.Positions()
	require.Len(t, positions, 1)
	p := positions[0]

	assert.Equal(t, int64(10), p.TotalBuyQty)
	assert.Equal(t, int64(4), p.TotalSellQty)
	assert.Equal(t, int64(6), p.NetQty)
	assert.Equal(t, 25000.0, p.TotalBuyAmt)
	assert.Equal(t, 10400.0, p.TotalSellAmt)
	// realized = 10400-25000, unrealized = 6*2600
	assert.Equal(t, -14600.0, p.RealizedPnL)
	assert.Equal(t, 15600.0, p.UnrealizedPnL)
	assert.Equal(t, 1000.0, p.TotalPnL)
	assert.Equal(t, 2500.0, p.AvgPrice)
}

func TestPositionAvgPriceFromHeavierSide(t *testing.T) {
	t.Parallel()

	p := Position{
		SellQuantity: 10, SellAmount: 26000,
		BuyQuantity: 4, BuyAmount: 10000,
		Multiplier: 1, GenNum: 1, GenDen: 1, PrcNum: 1, PrcDen: 1,
	}
	r := p.Report()
	assert.Equal(t, int64(-6), r.NetQty)
	assert.Equal(t, 2600.0, r.AvgPrice) // sell side is heavier
}

func TestPositionLTPRefreshFromQuote(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.ApplyFill("RELIANCE-EQ", "nse_cm", "MIS", 10, 2500, "B", "2885")
	e.ApplyQuote(market.Quote{InstrumentToken: "2885", ExchangeSegment: "nse_cm", LTP: 2550})

	p := e.Positions()[0]
	assert.Equal(t, 2550.0, p.LTP)
	assert.Equal(t, 500.0, p.UnrealizedPnL)
}

func TestHoldingReport(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.AddHolding(Holding{
		Symbol:          "WIPRO",
		ExchangeSegment: "nse_cm",
		Quantity:        40,
		AveragePrice:    450,
		HoldingCost:     18000,
		CurrentPrice:    480,
	})

	holdings := e.Holdings()
	require.Len(t, holdings, 1)
	h := holdings[0]
	assert.Equal(t, 19200.0, h.CurrentValue)
	assert.Equal(t, 1200.0, h.PnL)
	assert.InDelta(t, 6.6667, h.PnLPercent, 0.001)
}

func TestHoldingPnLPercentGuard(t *testing.T) {
	t.Parallel()

	h := Holding{Quantity: 10, CurrentPrice: 100}
	assert.Equal(t, 0.0, h.Report().PnLPercent)
}

func TestAccountLimitsFixed(t *testing.T) {
	t.Parallel()

	l := AccountLimits()
	assert.Equal(t, 1_000_000.0, l.AvailableCash)
	assert.Equal(t, 1_000_000.0, l.AvailableMargin)
	assert.Equal(t, 0.0, l.UsedMargin)
	assert.Equal(t, 0.0, l.TotalCollateral)
}

func TestEstimateMargin(t *testing.T) {
	t.Parallel()

	cases := []struct {
		product string
		want    float64
	}{
		{"MIS", 5000.0},
		{"INTRADAY", 5000.0},
		{"NRML", 12500.0},
		{"CNC", 25000.0},
	}
	for _, tc := range cases {
		est := EstimateMargin(broker.MarginRequest{Price: 2500, Quantity: 10, Product: tc.product})
		assert.Equal(t, tc.want, est.RequiredMargin, tc.product)
		assert.True(t, est.CanPlaceOrder)
	}

	big := EstimateMargin(broker.MarginRequest{Price: 2500, Quantity: 10000, Product: "CNC"})
	assert.False(t, big.CanPlaceOrder)
}

func TestClearResetsEverything(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.PlaceOrder(marketOrder(10, 2500), 0)
	e.ApplyFill("RELIANCE-EQ", "nse_cm", "MIS", 10, 2500, "B", "2885")
	e.AddHolding(Holding{Symbol: "WIPRO", ExchangeSegment: "nse_cm", Quantity: 1})
	e.AddRealized(-500)

	e.Clear()

	assert.Empty(t, e.Orders())
	assert.Empty(t, e.Positions())
	assert.Empty(t, e.Holdings())
	assert.Equal(t, 0.0, e.DailyPnL())
}
