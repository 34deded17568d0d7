package terminal

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/rustyeddy/terminal/paper"
	"github.com/rustyeddy/terminal/views"
)

// Dashboard is the one-call account overview the terminal header shows.
type Dashboard struct {
	PositionsPnL    float64 `json:"positions_pnl"`
	HoldingsPnL     float64 `json:"holdings_pnl"`
	TotalPnL        float64 `json:"total_pnl"`
	AvailableMargin float64 `json:"available_margin"`
	PositionsCount  int     `json:"positions_count"`
	HoldingsCount   int     `json:"holdings_count"`
}

// DashboardView returns the account overview for the active mode.
func (s *Service) DashboardView(ctx context.Context) Response {
	if s.paperMode {
		return s.respond(s.paperDashboard())
	}
	d, err := s.liveDashboard(ctx)
	if err != nil {
		return failf("dashboard: %v", err)
	}
	return s.respond(d)
}

// LiveDashboardView bypasses paper mode.
func (s *Service) LiveDashboardView(ctx context.Context) Response {
	if _, ok := s.liveReady(); !ok {
		return failf("live trading not configured")
	}
	d, err := s.liveDashboard(ctx)
	if err != nil {
		return failf("dashboard: %v", err)
	}
	return respondLive(d)
}

func (s *Service) paperDashboard() Dashboard {
	d := Dashboard{AvailableMargin: paper.AccountLimits().AvailableMargin}

	positions := s.engine.Positions()
	for _, p := range positions {
		d.PositionsPnL += p.TotalPnL
	}
	d.PositionsCount = len(positions)

	holdings := s.engine.Holdings()
	for _, h := range holdings {
		d.HoldingsPnL += h.PnL
	}
	d.HoldingsCount = len(holdings)

	d.TotalPnL = d.PositionsPnL + d.HoldingsPnL
	return d
}

func (s *Service) liveDashboard(ctx context.Context) (Dashboard, error) {
	live, ok := s.liveReady()
	if !ok {
		return Dashboard{}, errNotConfigured
	}

	var d Dashboard

	positions, err := live.Positions(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	for _, p := range positions {
		d.PositionsPnL += livePositionPnL(p)
	}
	d.PositionsCount = len(positions)

	holdings, err := live.Holdings(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	for _, h := range holdings {
		ltp := gjson.GetBytes(h, "closingPrice").Float()
		avg := gjson.GetBytes(h, "averagePrice").Float()
		qty := gjson.GetBytes(h, "sellableQuantity").Float()
		d.HoldingsPnL += (ltp - avg) * qty
	}
	d.HoldingsCount = len(holdings)

	limits, err := live.Limits(ctx, "ALL", "ALL", "ALL")
	if err != nil {
		return Dashboard{}, err
	}
	d.AvailableMargin = availableMargin(limits)

	d.TotalPnL = d.PositionsPnL + d.HoldingsPnL
	return d, nil
}

// livePositionPnL applies the broker's day P&L formula to one raw
// position record: realized from the amount imbalance, unrealized
// from the net quantity marked at ltp with the contract price factor.
func livePositionPnL(raw views.Raw) float64 {
	buyAmt := gjson.GetBytes(raw, "cfBuyAmt").Float() + gjson.GetBytes(raw, "buyAmt").Float()
	sellAmt := gjson.GetBytes(raw, "cfSellAmt").Float() + gjson.GetBytes(raw, "sellAmt").Float()
	netQty := gjson.GetBytes(raw, "cfBuyQty").Float() + gjson.GetBytes(raw, "flBuyQty").Float() -
		gjson.GetBytes(raw, "cfSellQty").Float() - gjson.GetBytes(raw, "flSellQty").Float()

	factor := factorTerm(raw, "multiplier") *
		factorRatio(raw, "genNum", "genDen") *
		factorRatio(raw, "prcNum", "prcDen")

	ltp := gjson.GetBytes(raw, "ltp").Float()
	return (sellAmt - buyAmt) + netQty*ltp*factor
}

func factorTerm(raw views.Raw, key string) float64 {
	if v := gjson.GetBytes(raw, key).Float(); v != 0 {
		return v
	}
	return 1
}

func factorRatio(raw views.Raw, num, den string) float64 {
	n := gjson.GetBytes(raw, num).Float()
	d := gjson.GetBytes(raw, den).Float()
	if n == 0 || d == 0 {
		return 1
	}
	return n / d
}

// availableMargin reads the funds figure out of a limits record, which
// the broker reports under different keys per segment.
func availableMargin(raw views.Raw) float64 {
	for _, key := range []string{"availableMargin", "Net", "marginAvailable"} {
		if v := gjson.GetBytes(raw, key); v.Exists() {
			return v.Float()
		}
	}
	return 0
}
