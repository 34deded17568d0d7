// Package feed consumes the broker's push stream and routes frames
// into the market stores and typed events.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/rustyeddy/terminal/market"
)

// orderRingSize bounds the kept order-update history.
const orderRingSize = 100

// Client consumes one feed connection, decoding the broker's
// short-key frames into the quote and depth stores and fanning typed
// events out to sinks.
type Client struct {
	url       string
	dialer    Dialer
	quotes    *market.QuoteStore
	depth     *market.DepthStore
	paperMode bool
	log       *zap.Logger

	mu        sync.Mutex
	conn      Conn
	sinks     []Sink
	orders    []OrderUpdate
	connected bool

	now func() time.Time
}

func New(url string, dialer Dialer, quotes *market.QuoteStore, depth *market.DepthStore, paperMode bool, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		url:       url,
		dialer:    dialer,
		quotes:    quotes,
		depth:     depth,
		paperMode: paperMode,
		log:       log,
		now:       time.Now,
	}
}

// AddSink registers an event receiver. Sinks added after Run started
// miss earlier events.
func (c *Client) AddSink(s Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks = append(c.sinks, s)
}

// Connected reports whether the stream is up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// OrderUpdates returns the retained order-update history, oldest
// first, capped at the last 100.
func (c *Client) OrderUpdates() []OrderUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]OrderUpdate, len(c.orders))
	copy(out, c.orders)
	return out
}

// Run dials the feed and consumes frames until the stream closes or
// ctx is cancelled. Reconnection is the operator's problem, not ours:
// a closed stream ends Run with the close error.
func (c *Client) Run(ctx context.Context) error {
	conn, err := c.dialer.Dial(ctx, c.url)
	if err != nil {
		return fmt.Errorf("dial feed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	c.log.Info("feed connected", zap.String("url", c.url))
	c.emitConnection(ConnectionStatus{Connected: true, PaperMode: c.paperMode, Message: "Connected"})

	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.connected = false
		c.mu.Unlock()
		conn.Close()
		c.emitConnection(ConnectionStatus{Connected: false, PaperMode: c.paperMode, Message: "Disconnected"})
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read feed: %w", err)
		}
		c.HandleFrame(data)
	}
}

// subscribeMessage is the wire command for feed subscriptions.
type subscribeMessage struct {
	Type    string       `json:"type"`
	Tokens  []Instrument `json:"tokens"`
	IsIndex bool         `json:"is_index"`
	IsDepth bool         `json:"is_depth"`
}

// Subscribe asks the feed for quotes (and optionally depth) on the
// given instruments.
func (c *Client) Subscribe(tokens []Instrument, isIndex, isDepth bool) error {
	return c.send(subscribeMessage{Type: "subscribe", Tokens: tokens, IsIndex: isIndex, IsDepth: isDepth})
}

// Unsubscribe stops the feed for the given instruments.
func (c *Client) Unsubscribe(tokens []Instrument, isIndex, isDepth bool) error {
	return c.send(subscribeMessage{Type: "unsubscribe", Tokens: tokens, IsIndex: isIndex, IsDepth: isDepth})
}

// SubscribeOrderFeed asks for order state transitions.
func (c *Client) SubscribeOrderFeed() error {
	return c.send(subscribeMessage{Type: "orderfeed"})
}

func (c *Client) send(msg subscribeMessage) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("feed not connected")
	}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

// HandleFrame routes one raw frame. Stock frames come as name "sf",
// index as "if", depth as "dp"; anything carrying ordSt or nOrdNo is
// an order update, and unknown frames fall back to the stock handler.
func (c *Client) HandleFrame(data []byte) {
	frame := gjson.ParseBytes(data)
	if !frame.IsObject() {
		c.log.Debug("dropping non-object frame")
		return
	}

	switch frame.Get("name").String() {
	case "sf":
		c.handleStock(frame)
	case "if":
		c.handleIndex(frame)
	case "dp":
		c.handleDepth(frame)
	default:
		if frame.Get("ordSt").Exists() || frame.Get("nOrdNo").Exists() {
			c.handleOrder(frame)
			return
		}
		c.handleStock(frame)
	}
}

// fnum reads key as a float, keeping prior when the key is absent.
func fnum(frame gjson.Result, key string, prior float64) float64 {
	if v := frame.Get(key); v.Exists() {
		return v.Float()
	}
	return prior
}

// inum reads key as an integer, keeping prior when the key is absent.
func inum(frame gjson.Result, key string, prior int64) int64 {
	if v := frame.Get(key); v.Exists() {
		return v.Int()
	}
	return prior
}

func (c *Client) handleStock(frame gjson.Result) {
	token := frame.Get("tk").String()
	exchange := frame.Get("e").String()
	if token == "" {
		return
	}

	q, _ := c.quotes.Get(token, exchange)
	q.InstrumentToken = token
	q.ExchangeSegment = exchange
	if ts := frame.Get("ts"); ts.Exists() {
		q.TradingSymbol = ts.String()
	}
	q.LTP = fnum(frame, "ltp", q.LTP)
	q.LastTradedQty = inum(frame, "ltq", q.LastTradedQty)
	q.Volume = inum(frame, "v", q.Volume)
	q.OpenPrice = fnum(frame, "op", q.OpenPrice)
	q.HighPrice = fnum(frame, "h", q.HighPrice)
	q.LowPrice = fnum(frame, "lo", q.LowPrice)
	q.ClosePrice = fnum(frame, "c", q.ClosePrice)
	q.Change = fnum(frame, "cng", q.Change)
	q.ChangePercent = fnum(frame, "nc", q.ChangePercent)
	q.BidPrice = fnum(frame, "bp", q.BidPrice)
	q.AskPrice = fnum(frame, "sp", q.AskPrice)
	q.BidQty = inum(frame, "bq", q.BidQty)
	q.AskQty = inum(frame, "sq", q.AskQty)
	q.OpenInterest = inum(frame, "oi", q.OpenInterest)
	q.TotalBuyQty = inum(frame, "tbq", q.TotalBuyQty)
	q.TotalSellQty = inum(frame, "tsq", q.TotalSellQty)
	q.LowerCircuit = fnum(frame, "lcl", q.LowerCircuit)
	q.UpperCircuit = fnum(frame, "ucl", q.UpperCircuit)
	q.Week52High = fnum(frame, "yh", q.Week52High)
	q.Week52Low = fnum(frame, "yl", q.Week52Low)
	q.LastUpdate = c.now()

	c.quotes.Put(q)
	c.emitPrice(q)
}

func (c *Client) handleIndex(frame gjson.Result) {
	token := frame.Get("tk").String()
	exchange := frame.Get("e").String()
	if exchange == "" {
		exchange = "nse_cm"
	}
	if token == "" {
		return
	}

	q, _ := c.quotes.Get(token, exchange)
	q.InstrumentToken = token
	q.ExchangeSegment = exchange
	q.LTP = fnum(frame, "iv", q.LTP)
	q.ClosePrice = fnum(frame, "ic", q.ClosePrice)
	q.HighPrice = fnum(frame, "highPrice", q.HighPrice)
	q.LowPrice = fnum(frame, "lowPrice", q.LowPrice)
	q.OpenPrice = fnum(frame, "openingPrice", q.OpenPrice)
	q.Change = fnum(frame, "cng", q.Change)
	q.ChangePercent = fnum(frame, "nc", q.ChangePercent)
	q.LastUpdate = c.now()

	c.quotes.Put(q)
	c.emitPrice(q)
}

func (c *Client) handleDepth(frame gjson.Result) {
	token := frame.Get("tk").String()
	exchange := frame.Get("e").String()
	if token == "" {
		return
	}

	d := market.Depth{
		InstrumentToken: token,
		ExchangeSegment: exchange,
		TradingSymbol:   frame.Get("ts").String(),
		LastUpdate:      c.now(),
	}

	for i := 1; i <= 5; i++ {
		suffix := ""
		if i > 1 {
			suffix = fmt.Sprint(i)
		}
		d.Bids = append(d.Bids, market.DepthLevel{
			Price:    frame.Get("bp" + suffix).Float(),
			Quantity: frame.Get("bq" + suffix).Int(),
			Orders:   frame.Get(fmt.Sprintf("bno%d", i)).Int(),
		})
		// Ask sizes arrive under bs, not sq.
		d.Asks = append(d.Asks, market.DepthLevel{
			Price:    frame.Get("sp" + suffix).Float(),
			Quantity: frame.Get("bs" + suffix).Int(),
			Orders:   frame.Get(fmt.Sprintf("sno%d", i)).Int(),
		})
	}

	c.depth.Put(d)
	c.emitDepth(d)
}

func (c *Client) handleOrder(frame gjson.Result) {
	update := OrderUpdate{
		OrderID:         frame.Get("nOrdNo").String(),
		Status:          frame.Get("ordSt").String(),
		TradingSymbol:   frame.Get("trdSym").String(),
		Quantity:        frame.Get("qty").Int(),
		FilledQuantity:  frame.Get("fldQty").Int(),
		Price:           frame.Get("prc").Float(),
		TransactionType: frame.Get("trnsTp").String(),
		ExchangeSegment: frame.Get("exSeg").String(),
		RejectionReason: frame.Get("rejRsn").String(),
		Timestamp:       c.now().Format(time.RFC3339),
	}

	c.mu.Lock()
	c.orders = append(c.orders, update)
	if len(c.orders) > orderRingSize {
		c.orders = c.orders[len(c.orders)-orderRingSize:]
	}
	sinks := c.snapshotSinks()
	c.mu.Unlock()

	for _, s := range sinks {
		s.OnOrder(update)
	}
}

func (c *Client) snapshotSinks() []Sink {
	out := make([]Sink, len(c.sinks))
	copy(out, c.sinks)
	return out
}

func (c *Client) emitPrice(q market.Quote) {
	c.mu.Lock()
	sinks := c.snapshotSinks()
	c.mu.Unlock()
	for _, s := range sinks {
		s.OnPrice(q)
	}
}

func (c *Client) emitDepth(d market.Depth) {
	c.mu.Lock()
	sinks := c.snapshotSinks()
	c.mu.Unlock()
	for _, s := range sinks {
		s.OnDepth(d)
	}
}

func (c *Client) emitConnection(st ConnectionStatus) {
	c.mu.Lock()
	sinks := c.snapshotSinks()
	c.mu.Unlock()
	for _, s := range sinks {
		s.OnConnection(st)
	}
}
