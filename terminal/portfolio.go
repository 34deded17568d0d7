package terminal

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/rustyeddy/terminal/broker"
	"github.com/rustyeddy/terminal/paper"
	"github.com/rustyeddy/terminal/views"
)

// PositionsSummary totals a positions snapshot.
type PositionsSummary struct {
	TotalPositions int     `json:"total_positions"`
	TotalPnL       float64 `json:"total_pnl"`
}

// HoldingsSummary totals a holdings snapshot.
type HoldingsSummary struct {
	TotalHoldings     int     `json:"total_holdings"`
	TotalInvestment   float64 `json:"total_investment"`
	TotalCurrentValue float64 `json:"total_current_value"`
	TotalPnL          float64 `json:"total_pnl"`
}

// Positions returns the normalized positions for the active mode.
func (s *Service) Positions(ctx context.Context) Response {
	raws, resp, ok := s.positionRaws(ctx)
	if !ok {
		return resp
	}
	positions, summary := normalizePositions(raws)
	resp = s.respond(positions)
	resp.Summary = summary
	return resp
}

// LivePositions bypasses paper mode.
func (s *Service) LivePositions(ctx context.Context) Response {
	live, ok := s.liveReady()
	if !ok {
		return failf("live trading not configured")
	}
	raws, err := live.Positions(ctx)
	if err != nil {
		return failf("positions: %v", err)
	}
	positions, summary := normalizePositions(raws)
	resp := respondLive(positions)
	resp.Summary = summary
	return resp
}

func (s *Service) positionRaws(ctx context.Context) ([]views.Raw, Response, bool) {
	if s.paperMode {
		reports := s.engine.Positions()
		raws := make([]views.Raw, 0, len(reports))
		for _, r := range reports {
			raws = append(raws, rawOf(r))
		}
		return raws, Response{}, true
	}
	live, ok := s.liveReady()
	if !ok {
		return nil, failf("live trading not configured"), false
	}
	raws, err := live.Positions(ctx)
	if err != nil {
		return nil, failf("positions: %v", err), false
	}
	return raws, Response{}, true
}

func normalizePositions(raws []views.Raw) ([]views.PositionView, PositionsSummary) {
	out := make([]views.PositionView, 0, len(raws))
	summary := PositionsSummary{}
	for _, r := range raws {
		v := views.NormalizePosition(r)
		out = append(out, v)
		summary.TotalPnL += v.PnL
	}
	summary.TotalPositions = len(out)
	return out, summary
}

// Holdings returns the normalized holdings for the active mode. Live
// records are first mapped to the canonical holding shape with their
// P&L computed, then passed through the view layer untouched.
func (s *Service) Holdings(ctx context.Context) Response {
	if s.paperMode {
		return s.holdingsResponse(s.engine.Holdings(), s.respond)
	}
	live, ok := s.liveReady()
	if !ok {
		return failf("live trading not configured")
	}
	raws, err := live.Holdings(ctx)
	if err != nil {
		return failf("holdings: %v", err)
	}
	return s.holdingsResponse(liveHoldingReports(raws), s.respond)
}

// LiveHoldings bypasses paper mode.
func (s *Service) LiveHoldings(ctx context.Context) Response {
	live, ok := s.liveReady()
	if !ok {
		return failf("live trading not configured")
	}
	raws, err := live.Holdings(ctx)
	if err != nil {
		return failf("holdings: %v", err)
	}
	return s.holdingsResponse(liveHoldingReports(raws), respondLive)
}

func (s *Service) holdingsResponse(reports []paper.HoldingReport, envelope func(any) Response) Response {
	out := make([]views.HoldingView, 0, len(reports))
	summary := HoldingsSummary{}
	for _, r := range reports {
		out = append(out, views.NormalizeHolding(rawOf(r)))
		summary.TotalInvestment += r.HoldingCost
		summary.TotalCurrentValue += r.CurrentValue
	}
	summary.TotalHoldings = len(out)
	summary.TotalPnL = summary.TotalCurrentValue - summary.TotalInvestment

	resp := envelope(out)
	resp.Summary = summary
	return resp
}

// liveHoldingReports maps the broker's holding records into the
// canonical shape, computing value and P&L the same way the paper
// engine does.
func liveHoldingReports(raws []views.Raw) []paper.HoldingReport {
	out := make([]paper.HoldingReport, 0, len(raws))
	for _, r := range raws {
		h := paper.Holding{
			Symbol:           gjson.GetBytes(r, "displaySymbol").String(),
			TradingSymbol:    gjson.GetBytes(r, "symbol").String(),
			ExchangeSegment:  gjson.GetBytes(r, "exchangeSegment").String(),
			InstrumentToken:  gjson.GetBytes(r, "instrumentToken").String(),
			Quantity:         gjson.GetBytes(r, "quantity").Int(),
			AveragePrice:     gjson.GetBytes(r, "averagePrice").Float(),
			HoldingCost:      gjson.GetBytes(r, "holdingCost").Float(),
			CurrentPrice:     gjson.GetBytes(r, "closingPrice").Float(),
			SellableQuantity: gjson.GetBytes(r, "sellableQuantity").Int(),
		}
		if h.Symbol == "" {
			h.Symbol = h.TradingSymbol
		}
		out = append(out, h.Report())
	}
	return out
}

// Limits returns the funds snapshot for the active mode.
func (s *Service) Limits(ctx context.Context, segment, exchange, product string) Response {
	if s.paperMode {
		return s.respond(paper.AccountLimits())
	}
	live, ok := s.liveReady()
	if !ok {
		return failf("live trading not configured")
	}
	raw, err := live.Limits(ctx, segment, exchange, product)
	if err != nil {
		return failf("limits: %v", err)
	}
	return s.respond(raw)
}

// Margin estimates the margin an order needs.
func (s *Service) Margin(ctx context.Context, req broker.MarginRequest) Response {
	if s.paperMode {
		return s.respond(paper.EstimateMargin(req))
	}
	live, ok := s.liveReady()
	if !ok {
		return failf("live trading not configured")
	}
	raw, err := live.MarginRequired(ctx, req)
	if err != nil {
		return failf("margin required: %v", err)
	}
	return s.respond(raw)
}

// Search looks up equity scrips by symbol prefix.
func (s *Service) Search(ctx context.Context, exchange, query string) Response {
	if len(query) < 2 {
		return failf("query must be at least 2 characters")
	}
	live, ok := s.liveReady()
	if !ok {
		return failf("live trading not configured")
	}
	scrips, err := live.SearchScrip(ctx, exchange, query)
	if err != nil {
		return failf("search: %v", err)
	}
	return Response{Success: true, Data: scrips}
}
