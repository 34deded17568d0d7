package feed

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/terminal/market"
)

// fakeConn feeds scripted frames to the client and records writes.
type fakeConn struct {
	mu     sync.Mutex
	frames chan []byte
	writes []any
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{frames: make(chan []byte, 16)}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	data, ok := <-f.frames
	if !ok {
		return 0, nil, io.EOF
	}
	return 1, data, nil
}

func (f *fakeConn) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, v)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.frames)
	}
	return nil
}

type fakeDialer struct{ conn *fakeConn }

func (d fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	return d.conn, nil
}

// recorder collects every event for assertions.
type recorder struct {
	mu          sync.Mutex
	prices      []market.Quote
	depths      []market.Depth
	orders      []OrderUpdate
	connections []ConnectionStatus
}

func (r *recorder) OnPrice(q market.Quote) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prices = append(r.prices, q)
}

func (r *recorder) OnDepth(d market.Depth) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.depths = append(r.depths, d)
}

func (r *recorder) OnOrder(o OrderUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
}

func (r *recorder) OnConnection(s ConnectionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections = append(r.connections, s)
}

func newTestClient(t *testing.T) (*Client, *recorder) {
	t.Helper()
	c := New("ws://test", fakeDialer{newFakeConn()}, market.NewQuoteStore(), market.NewDepthStore(), true, nil)
	r := &recorder{}
	c.AddSink(r)
	return c, r
}

func TestStockFrameUpdatesQuoteStore(t *testing.T) {
	t.Parallel()

	c, r := newTestClient(t)
	c.HandleFrame([]byte(`{"name":"sf","tk":"2885","e":"nse_cm","ts":"RELIANCE-EQ","ltp":"2501.25","nc":"0.8","v":"1200000","tbq":"5000","tsq":"4000"}`))

	q, ok := c.quotes.Get("2885", "nse_cm")
	require.True(t, ok)
	assert.Equal(t, "RELIANCE-EQ", q.TradingSymbol)
	assert.Equal(t, 2501.25, q.LTP)
	assert.Equal(t, 0.8, q.ChangePercent)
	assert.Equal(t, int64(1200000), q.Volume)

	require.Len(t, r.prices, 1)
	assert.Equal(t, "2885", r.prices[0].InstrumentToken)
}

func TestStockFramePartialUpdateKeepsPriorFields(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	c.HandleFrame([]byte(`{"name":"sf","tk":"2885","e":"nse_cm","ts":"RELIANCE-EQ","ltp":2500,"op":2480}`))
	c.HandleFrame([]byte(`{"name":"sf","tk":"2885","e":"nse_cm","ltp":2510}`))

	q, _ := c.quotes.Get("2885", "nse_cm")
	assert.Equal(t, 2510.0, q.LTP)
	assert.Equal(t, 2480.0, q.OpenPrice)
	assert.Equal(t, "RELIANCE-EQ", q.TradingSymbol)
}

func TestIndexFrameDefaultsExchange(t *testing.T) {
	t.Parallel()

	c, r := newTestClient(t)
	c.HandleFrame([]byte(`{"name":"if","tk":"26000","iv":"23500.4","ic":"23410.1","cng":"90.3","nc":"0.39"}`))

	q, ok := c.quotes.Get("26000", "nse_cm")
	require.True(t, ok)
	assert.Equal(t, 23500.4, q.LTP)
	assert.Equal(t, 23410.1, q.ClosePrice)
	require.Len(t, r.prices, 1)
}

func TestDepthFrameDecodesFiveLevels(t *testing.T) {
	t.Parallel()

	c, r := newTestClient(t)
	c.HandleFrame([]byte(`{
		"name":"dp","tk":"2885","e":"nse_cm","ts":"RELIANCE-EQ",
		"bp":"100.5","bq":"50","bno1":"3",
		"bp2":"100.4","bq2":"30","bno2":"2",
		"sp":"100.6","bs":"40","sno1":"4",
		"sp2":"100.7","bs2":"20","sno2":"1"
	}`))

	d, ok := c.depth.Get("2885", "nse_cm")
	require.True(t, ok)
	require.Len(t, d.Bids, 5)
	require.Len(t, d.Asks, 5)

	assert.Equal(t, market.DepthLevel{Price: 100.5, Quantity: 50, Orders: 3}, d.Bids[0])
	assert.Equal(t, market.DepthLevel{Price: 100.4, Quantity: 30, Orders: 2}, d.Bids[1])
	assert.Equal(t, market.DepthLevel{Price: 100.6, Quantity: 40, Orders: 4}, d.Asks[0])
	assert.Equal(t, market.DepthLevel{}, d.Bids[2])
	assert.Equal(t, market.DepthLevel{}, d.Asks[4])

	require.Len(t, r.depths, 1)
}

func TestOrderFrameDetectedWithoutName(t *testing.T) {
	t.Parallel()

	c, r := newTestClient(t)
	c.HandleFrame([]byte(`{"nOrdNo":"250122000012345","ordSt":"complete","trdSym":"TCS-EQ","qty":"5","fldQty":"5","prc":"4100","trnsTp":"S","exSeg":"nse_cm"}`))

	require.Len(t, r.orders, 1)
	o := r.orders[0]
	assert.Equal(t, "250122000012345", o.OrderID)
	assert.Equal(t, "complete", o.Status)
	assert.Equal(t, int64(5), o.FilledQuantity)
	assert.Equal(t, "S", o.TransactionType)
	assert.NotEmpty(t, o.Timestamp)
}

func TestUnknownFrameFallsBackToStockHandler(t *testing.T) {
	t.Parallel()

	c, r := newTestClient(t)
	c.HandleFrame([]byte(`{"tk":"11536","e":"nse_cm","ltp":"4100"}`))

	_, ok := c.quotes.Get("11536", "nse_cm")
	assert.True(t, ok)
	assert.Len(t, r.prices, 1)
}

func TestMalformedFramesAreDropped(t *testing.T) {
	t.Parallel()

	c, r := newTestClient(t)
	c.HandleFrame([]byte(`not json`))
	c.HandleFrame([]byte(`[1,2,3]`))
	c.HandleFrame([]byte(`{"name":"sf","e":"nse_cm"}`)) // no token

	assert.Empty(t, r.prices)
	assert.Equal(t, 0, c.quotes.Len())
}

func TestOrderRingCapsAtHundred(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	for i := 0; i < 130; i++ {
		c.HandleFrame([]byte(fmt.Sprintf(`{"nOrdNo":"%d","ordSt":"open"}`, i)))
	}

	updates := c.OrderUpdates()
	require.Len(t, updates, 100)
	assert.Equal(t, "30", updates[0].OrderID)
	assert.Equal(t, "129", updates[99].OrderID)
}

func TestRunEmitsConnectionStatusAndEndsOnClose(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	c := New("ws://test", fakeDialer{conn}, market.NewQuoteStore(), market.NewDepthStore(), true, nil)
	r := &recorder{}
	c.AddSink(r)

	conn.frames <- []byte(`{"name":"sf","tk":"2885","e":"nse_cm","ltp":2500}`)

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.prices) == 1
	}, time.Second, 5*time.Millisecond)
	assert.True(t, c.Connected())

	conn.Close()
	err := <-errCh
	assert.Error(t, err)
	assert.False(t, c.Connected())

	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.connections, 2)
	assert.True(t, r.connections[0].Connected)
	assert.True(t, r.connections[0].PaperMode)
	assert.False(t, r.connections[1].Connected)
}

func TestSubscribeWritesCommand(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	c := New("ws://test", fakeDialer{conn}, market.NewQuoteStore(), market.NewDepthStore(), true, nil)

	// Not connected yet.
	assert.Error(t, c.Subscribe([]Instrument{{InstrumentToken: "2885", ExchangeSegment: "nse_cm"}}, false, false))

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(context.Background()) }()
	require.Eventually(t, c.Connected, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Subscribe([]Instrument{{InstrumentToken: "2885", ExchangeSegment: "nse_cm"}}, false, true))
	require.NoError(t, c.SubscribeOrderFeed())

	conn.mu.Lock()
	require.Len(t, conn.writes, 2)
	sub := conn.writes[0].(subscribeMessage)
	conn.mu.Unlock()
	assert.Equal(t, "subscribe", sub.Type)
	assert.True(t, sub.IsDepth)
	require.Len(t, sub.Tokens, 1)
	assert.Equal(t, "2885", sub.Tokens[0].InstrumentToken)

	conn.Close()
	<-errCh
}
