// Package terminal is the service layer of the trading terminal: it
// owns the paper-or-live mode switch, composes snapshots for the API,
// and tracks feed subscriptions and the watchlist.
package terminal

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/terminal/broker"
	"github.com/rustyeddy/terminal/feed"
	"github.com/rustyeddy/terminal/journal"
	"github.com/rustyeddy/terminal/market"
	"github.com/rustyeddy/terminal/paper"
	"github.com/rustyeddy/terminal/risk"
	"github.com/rustyeddy/terminal/views"
)

// Feed is the slice of the feed client the service drives.
type Feed interface {
	Subscribe(tokens []feed.Instrument, isIndex, isDepth bool) error
	Unsubscribe(tokens []feed.Instrument, isIndex, isDepth bool) error
	SubscribeOrderFeed() error
	Connected() bool
}

// Config wires a Service.
type Config struct {
	PaperMode bool
	Engine    *paper.Engine
	Live      broker.Broker
	Feed      Feed
	Quotes    *market.QuoteStore
	Depth     *market.DepthStore
	Journal   journal.Journal
	Limits    risk.Limits
	Logger    *zap.Logger
}

// Service is the single owner of terminal state. All responses are
// envelopes; a failed upstream call becomes success:false and leaves
// the caller's prior state untouched.
type Service struct {
	paperMode bool
	engine    *paper.Engine
	live      broker.Broker
	feed      Feed
	quotes    *market.QuoteStore
	depth     *market.DepthStore
	jrnl      journal.Journal
	limits    risk.Limits
	log       *zap.Logger

	mu        sync.Mutex
	watch     *views.Watchlist
	subs      map[string]feed.Instrument
	indexSubs map[string]bool
	depthSubs map[string]bool

	now func() time.Time
}

func New(cfg Config) *Service {
	if cfg.Engine == nil {
		cfg.Engine = paper.NewEngine()
	}
	if cfg.Quotes == nil {
		cfg.Quotes = market.NewQuoteStore()
	}
	if cfg.Depth == nil {
		cfg.Depth = market.NewDepthStore()
	}
	if cfg.Journal == nil {
		cfg.Journal = journal.Noop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Service{
		paperMode: cfg.PaperMode,
		engine:    cfg.Engine,
		live:      cfg.Live,
		feed:      cfg.Feed,
		quotes:    cfg.Quotes,
		depth:     cfg.Depth,
		jrnl:      cfg.Journal,
		limits:    cfg.Limits,
		log:       cfg.Logger,
		watch:     views.NewWatchlist(),
		subs:      make(map[string]feed.Instrument),
		indexSubs: make(map[string]bool),
		depthSubs: make(map[string]bool),
		now:       time.Now,
	}
}

// PaperMode reports the configured trading mode.
func (s *Service) PaperMode() bool {
	return s.paperMode
}

var errNotConfigured = errors.New("live trading not configured")

// liveReady guards live calls; a nil broker client means the session
// token was never configured.
func (s *Service) liveReady() (broker.Broker, bool) {
	return s.live, s.live != nil
}

// rawOf marshals an internal report into the raw form the normalizer
// consumes, so paper and live records travel the same path.
func rawOf(v any) views.Raw {
	b, err := json.Marshal(v)
	if err != nil {
		return views.Raw("{}")
	}
	return b
}

// --- feed.Sink ---

// OnPrice refreshes the watchlist row and any paper position on the
// quoted instrument.
func (s *Service) OnPrice(q market.Quote) {
	s.mu.Lock()
	s.watch.ApplyPrice(q.InstrumentToken, q.ExchangeSegment, q.LTP, q.ChangePercent)
	s.mu.Unlock()
	s.engine.ApplyQuote(q)
}

// OnDepth is a no-op; the feed client already caches depth.
func (s *Service) OnDepth(market.Depth) {}

// OnOrder journals every order transition and its fill, if any.
func (s *Service) OnOrder(o feed.OrderUpdate) {
	now := s.now()
	if err := s.jrnl.RecordOrder(journal.OrderRecord{
		OrderID:  o.OrderID,
		Symbol:   o.TradingSymbol,
		Segment:  o.ExchangeSegment,
		Side:     o.TransactionType,
		Quantity: o.Quantity,
		Price:    o.Price,
		Status:   o.Status,
		Time:     now,
	}); err != nil {
		s.log.Warn("journal order update", zap.Error(err))
	}

	if o.Status == paper.StatusComplete && o.FilledQuantity > 0 {
		if err := s.jrnl.RecordFill(journal.FillRecord{
			OrderID:  o.OrderID,
			Symbol:   o.TradingSymbol,
			Side:     o.TransactionType,
			Quantity: o.FilledQuantity,
			Price:    o.Price,
			Value:    float64(o.FilledQuantity) * o.Price,
			Time:     now,
		}); err != nil {
			s.log.Warn("journal fill", zap.Error(err))
		}
	}
}

// OnConnection logs feed connectivity transitions.
func (s *Service) OnConnection(st feed.ConnectionStatus) {
	s.log.Info("feed connection", zap.Bool("connected", st.Connected))
}
