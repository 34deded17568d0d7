package terminal

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/rustyeddy/terminal/feed"
	"github.com/rustyeddy/terminal/market"
	"github.com/rustyeddy/terminal/views"
)

// SubscribeRequest names instruments either directly or through the
// legacy "SYMBOL(TOKEN)" script form older clients still send.
type SubscribeRequest struct {
	InstrumentTokens []SubscribeInstrument `json:"instrument_tokens"`
	ScriptNames      []string              `json:"script_names"`
	IsIndex          bool                  `json:"is_index"`
	IsDepth          bool                  `json:"is_depth"`
}

// SubscribeInstrument is one directly named instrument.
type SubscribeInstrument struct {
	InstrumentToken string `json:"instrument_token"`
	ExchangeSegment string `json:"exchange_segment"`
	TradingSymbol   string `json:"trading_symbol"`
}

// Subscriptions is the bookkeeping snapshot of subscribed tokens.
type Subscriptions struct {
	Tokens      []string `json:"tokens"`
	IndexTokens []string `json:"index_tokens"`
	DepthTokens []string `json:"depth_tokens"`
	Count       int      `json:"count"`
}

// ModeInfo reports how the terminal is wired.
type ModeInfo struct {
	PaperMode      bool `json:"paper_mode"`
	LiveConfigured bool `json:"live_configured"`
	FeedConnected  bool `json:"feed_connected"`
}

var scriptPattern = regexp.MustCompile(`^(.+)\((\d+)\)$`)

// resolveInstruments merges the direct token list with parsed script
// names. Script names without a token suffix are dropped; parsed ones
// default to the cash segment.
func resolveInstruments(req SubscribeRequest) []SubscribeInstrument {
	out := make([]SubscribeInstrument, 0, len(req.InstrumentTokens)+len(req.ScriptNames))
	for _, in := range req.InstrumentTokens {
		if in.InstrumentToken == "" {
			continue
		}
		if in.ExchangeSegment == "" {
			in.ExchangeSegment = "nse_cm"
		}
		out = append(out, in)
	}
	for _, name := range req.ScriptNames {
		m := scriptPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		out = append(out, SubscribeInstrument{
			InstrumentToken: m[2],
			ExchangeSegment: "nse_cm",
			TradingSymbol:   m[1],
		})
	}
	return out
}

// Subscribe registers instruments with the watchlist and forwards the
// subscription to the push feed.
func (s *Service) Subscribe(req SubscribeRequest) Response {
	instruments := resolveInstruments(req)
	if len(instruments) == 0 {
		return failf("no instruments to subscribe")
	}

	tokens := make([]feed.Instrument, 0, len(instruments))
	s.mu.Lock()
	for _, in := range instruments {
		key := market.Key(in.InstrumentToken, in.ExchangeSegment)
		s.subs[key] = feed.Instrument{
			InstrumentToken: in.InstrumentToken,
			ExchangeSegment: in.ExchangeSegment,
		}
		if req.IsIndex {
			s.indexSubs[key] = true
		}
		if req.IsDepth {
			s.depthSubs[key] = true
		}
		s.watch.Subscribe(in.InstrumentToken, in.ExchangeSegment, in.TradingSymbol)
		tokens = append(tokens, s.subs[key])
	}
	s.mu.Unlock()

	if s.feed != nil {
		if err := s.feed.Subscribe(tokens, req.IsIndex, req.IsDepth); err != nil {
			return failf("subscribe: %v", err)
		}
	}
	return Response{
		Success: true,
		Message: fmt.Sprintf("Subscribed to %d instruments", len(tokens)),
	}
}

// Unsubscribe drops the subscription bookkeeping and clears the cached
// market data for the named instruments. Watchlist rows stay.
func (s *Service) Unsubscribe(req SubscribeRequest) Response {
	instruments := resolveInstruments(req)
	if len(instruments) == 0 {
		return failf("no instruments to unsubscribe")
	}

	tokens := make([]feed.Instrument, 0, len(instruments))
	s.mu.Lock()
	for _, in := range instruments {
		key := market.Key(in.InstrumentToken, in.ExchangeSegment)
		delete(s.subs, key)
		delete(s.indexSubs, key)
		delete(s.depthSubs, key)
		tokens = append(tokens, feed.Instrument{
			InstrumentToken: in.InstrumentToken,
			ExchangeSegment: in.ExchangeSegment,
		})
	}
	s.mu.Unlock()

	for _, in := range tokens {
		s.quotes.Delete(in.InstrumentToken, in.ExchangeSegment)
		s.depth.Delete(in.InstrumentToken, in.ExchangeSegment)
	}

	if s.feed != nil {
		if err := s.feed.Unsubscribe(tokens, req.IsIndex, req.IsDepth); err != nil {
			return failf("unsubscribe: %v", err)
		}
	}
	return Response{
		Success: true,
		Message: fmt.Sprintf("Unsubscribed from %d instruments", len(tokens)),
	}
}

// SubscribeOrderFeed asks the push feed for order lifecycle updates.
func (s *Service) SubscribeOrderFeed() Response {
	if s.feed == nil {
		return failf("feed not configured")
	}
	if err := s.feed.SubscribeOrderFeed(); err != nil {
		return failf("subscribe order feed: %v", err)
	}
	return Response{Success: true, Message: "Order feed subscribed"}
}

// SubscriptionList snapshots the subscription bookkeeping.
func (s *Service) SubscriptionList() Response {
	s.mu.Lock()
	snap := Subscriptions{
		Tokens:      sortedKeys(s.subs),
		IndexTokens: sortedFlags(s.indexSubs),
		DepthTokens: sortedFlags(s.depthSubs),
	}
	s.mu.Unlock()
	snap.Count = len(snap.Tokens)
	return Response{Success: true, Data: snap}
}

// WatchlistView returns the watchlist rows in subscription order.
func (s *Service) WatchlistView() Response {
	s.mu.Lock()
	entries := s.watch.Entries()
	s.mu.Unlock()
	return Response{Success: true, Data: entries}
}

// MarketData returns every cached quote, or one instrument's quote
// when token and exchange are given.
func (s *Service) MarketData(token, exchange string) Response {
	if token == "" {
		return Response{Success: true, Data: s.quotes.All()}
	}
	if exchange == "" {
		exchange = "nse_cm"
	}
	q, ok := s.quotes.Get(token, exchange)
	if !ok {
		return failf("no market data for %s", market.Key(token, exchange))
	}
	return Response{Success: true, Data: q}
}

// MarketDepth returns the aggregated five-row depth view for one
// instrument.
func (s *Service) MarketDepth(token, exchange string) Response {
	if token == "" {
		return failf("instrument_token is required")
	}
	if exchange == "" {
		exchange = "nse_cm"
	}
	d, ok := s.depth.Get(token, exchange)
	if !ok {
		return failf("no depth data for %s", market.Key(token, exchange))
	}
	return Response{Success: true, Data: views.AggregateDepth(d.Bids, d.Asks)}
}

// Mode reports the terminal wiring.
func (s *Service) Mode() Response {
	info := ModeInfo{
		PaperMode:      s.paperMode,
		LiveConfigured: s.live != nil,
	}
	if s.feed != nil {
		info.FeedConnected = s.feed.Connected()
	}
	return Response{Success: true, Data: info}
}

// ClearPaper drops all paper trading state.
func (s *Service) ClearPaper() Response {
	s.engine.Clear()
	return Response{Success: true, Message: "Paper trading data cleared"}
}

func sortedKeys(m map[string]feed.Instrument) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedFlags(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
