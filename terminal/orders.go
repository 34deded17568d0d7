package terminal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rustyeddy/terminal/broker"
	"github.com/rustyeddy/terminal/journal"
	"github.com/rustyeddy/terminal/paper"
	"github.com/rustyeddy/terminal/risk"
	"github.com/rustyeddy/terminal/views"
)

// PlaceOrder validates and routes a new order. Paper fills move the
// position ledger immediately; the fill price falls back to the
// order's average price when no limit price was given.
func (s *Service) PlaceOrder(ctx context.Context, req broker.OrderRequest) Response {
	decision := risk.Evaluate(s.limits, req, s.engine.DailyPnL())
	if !decision.Allowed {
		return Response{
			Success: false,
			Error:   "Order validation failed",
			Details: decision.Messages(),
		}
	}

	if !s.paperMode {
		live, ok := s.liveReady()
		if !ok {
			return failf("live trading not configured")
		}
		raw, err := live.PlaceOrder(ctx, req)
		if err != nil {
			return failf("place order: %v", err)
		}
		v := views.NormalizeOrder(raw)
		s.journalOrder(v.OrderID, req, v.Status)
		return Response{Success: true, PaperMode: boolPtr(false), OrderID: v.OrderID, Status: v.Status, Data: raw}
	}

	ltp, _ := s.ltpFor(req.TradingSymbol, req.ExchangeSegment)
	o := s.engine.PlaceOrder(req, ltp)
	s.journalOrder(o.OrderID, req, o.Status)

	if o.Status == paper.StatusComplete {
		fillPrice := req.Price
		if fillPrice == 0 {
			fillPrice = o.AveragePrice
		}
		token := s.tokenFor(req.TradingSymbol, req.ExchangeSegment)
		s.engine.ApplyFill(req.TradingSymbol, req.ExchangeSegment, req.Product,
			o.FilledQuantity, fillPrice, req.TransactionType, token)

		if err := s.jrnl.RecordFill(journal.FillRecord{
			OrderID:  o.OrderID,
			Symbol:   o.TradingSymbol,
			Side:     o.TransactionType,
			Quantity: o.FilledQuantity,
			Price:    fillPrice,
			Value:    float64(o.FilledQuantity) * fillPrice,
			Time:     o.OrderTime,
		}); err != nil {
			s.log.Warn("journal fill", zap.Error(err))
		}
	}

	return Response{
		Success:   true,
		PaperMode: boolPtr(true),
		OrderID:   o.OrderID,
		Status:    o.Status,
		Message:   fmt.Sprintf("Paper order placed: %s %d %s", o.TransactionType, o.Quantity, o.TradingSymbol),
		Data:      o,
	}
}

// ModifyOrder routes an order modification.
func (s *Service) ModifyOrder(ctx context.Context, req broker.ModifyRequest) Response {
	if !s.paperMode {
		live, ok := s.liveReady()
		if !ok {
			return failf("live trading not configured")
		}
		raw, err := live.ModifyOrder(ctx, req)
		if err != nil {
			return failf("modify order: %v", err)
		}
		return Response{Success: true, PaperMode: boolPtr(false), Data: raw}
	}

	o, err := s.engine.ModifyOrder(req)
	if err != nil {
		return failf("%v", err)
	}
	return Response{
		Success:   true,
		PaperMode: boolPtr(true),
		Message:   fmt.Sprintf("Paper order %s modified", o.OrderID),
		Data:      o,
	}
}

// CancelOrder routes an order cancellation.
func (s *Service) CancelOrder(ctx context.Context, orderID string) Response {
	if !s.paperMode {
		live, ok := s.liveReady()
		if !ok {
			return failf("live trading not configured")
		}
		raw, err := live.CancelOrder(ctx, orderID, "NO")
		if err != nil {
			return failf("cancel order: %v", err)
		}
		return Response{Success: true, PaperMode: boolPtr(false), Data: raw}
	}

	o, err := s.engine.CancelOrder(orderID)
	if err != nil {
		return failf("%v", err)
	}
	return Response{
		Success:   true,
		PaperMode: boolPtr(true),
		Message:   fmt.Sprintf("Paper order %s cancelled", o.OrderID),
		Data:      o,
	}
}

// Orders returns the normalized order book for the active mode,
// newest first in paper mode.
func (s *Service) Orders(ctx context.Context) Response {
	if s.paperMode {
		return s.respond(normalizeOrders(paperOrderRaws(s.engine.Orders())))
	}
	live, ok := s.liveReady()
	if !ok {
		return failf("live trading not configured")
	}
	raws, err := live.OrderReport(ctx)
	if err != nil {
		return failf("order report: %v", err)
	}
	return s.respond(normalizeOrders(raws))
}

// Trades returns the normalized trade history for the active mode,
// optionally filtered to one order id.
func (s *Service) Trades(ctx context.Context, orderID string) Response {
	if s.paperMode {
		return s.respond(normalizeTrades(paperOrderRaws(s.engine.Trades(orderID))))
	}
	live, ok := s.liveReady()
	if !ok {
		return failf("live trading not configured")
	}
	raws, err := live.TradeReport(ctx, orderID)
	if err != nil {
		return failf("trade report: %v", err)
	}
	return s.respond(normalizeTrades(raws))
}

// LiveOrders bypasses paper mode and reads the broker order book.
func (s *Service) LiveOrders(ctx context.Context) Response {
	live, ok := s.liveReady()
	if !ok {
		return failf("live trading not configured")
	}
	raws, err := live.OrderReport(ctx)
	if err != nil {
		return failf("order report: %v", err)
	}
	return respondLive(normalizeOrders(raws))
}

// LiveTrades bypasses paper mode and reads the broker trade report.
func (s *Service) LiveTrades(ctx context.Context, orderID string) Response {
	live, ok := s.liveReady()
	if !ok {
		return failf("live trading not configured")
	}
	raws, err := live.TradeReport(ctx, orderID)
	if err != nil {
		return failf("trade report: %v", err)
	}
	return respondLive(normalizeTrades(raws))
}

func (s *Service) journalOrder(orderID string, req broker.OrderRequest, status string) {
	if err := s.jrnl.RecordOrder(journal.OrderRecord{
		OrderID:   orderID,
		Symbol:    req.TradingSymbol,
		Segment:   req.ExchangeSegment,
		Side:      req.TransactionType,
		OrderType: req.OrderType,
		Product:   req.Product,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Status:    status,
		Time:      s.now(),
	}); err != nil {
		s.log.Warn("journal order", zap.Error(err))
	}
}

// ltpFor finds the last traded price for a symbol via the quote cache.
func (s *Service) ltpFor(symbol, segment string) (float64, bool) {
	for _, q := range s.quotes.All() {
		if q.TradingSymbol == symbol && q.ExchangeSegment == segment {
			return q.LTP, true
		}
	}
	return 0, false
}

// tokenFor finds the instrument token for a symbol via the quote
// cache; empty when the symbol was never quoted.
func (s *Service) tokenFor(symbol, segment string) string {
	for _, q := range s.quotes.All() {
		if q.TradingSymbol == symbol && q.ExchangeSegment == segment {
			return q.InstrumentToken
		}
	}
	return ""
}

func paperOrderRaws(orders []paper.Order) []views.Raw {
	out := make([]views.Raw, 0, len(orders))
	for _, o := range orders {
		out = append(out, rawOf(o))
	}
	return out
}

func normalizeOrders(raws []views.Raw) []views.OrderView {
	out := make([]views.OrderView, 0, len(raws))
	for _, r := range raws {
		out = append(out, views.NormalizeOrder(r))
	}
	return out
}

func normalizeTrades(raws []views.Raw) []views.TradeView {
	out := make([]views.TradeView, 0, len(raws))
	for _, r := range raws {
		out = append(out, views.NormalizeTrade(r))
	}
	return out
}

func boolPtr(b bool) *bool {
	return &b
}
