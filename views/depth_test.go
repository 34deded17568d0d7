package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/terminal/market"
)

func TestAggregateDepthPadsToFiveRows(t *testing.T) {
	t.Parallel()

	bids := []market.DepthLevel{
		{Price: 100.5, Quantity: 50, Orders: 3},
		{Price: 100.4, Quantity: 30, Orders: 2},
	}

	v := AggregateDepth(bids, nil)
	assert.Len(t, v.Rows, 5)
	assert.Equal(t, bids[0], v.Rows[0].Bid)
	assert.Equal(t, bids[1], v.Rows[1].Bid)
	for i := 2; i < 5; i++ {
		assert.Equal(t, market.DepthLevel{}, v.Rows[i].Bid)
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, market.DepthLevel{}, v.Rows[i].Ask)
	}
	assert.Equal(t, int64(80), v.TotalBidQty)
	assert.Equal(t, int64(0), v.TotalAskQty)
}

func TestAggregateDepthTotalsCountLevelsBeyondDisplay(t *testing.T) {
	t.Parallel()

	var asks []market.DepthLevel
	for i := 0; i < 7; i++ {
		asks = append(asks, market.DepthLevel{Price: 101 + float64(i), Quantity: 10})
	}

	v := AggregateDepth(nil, asks)
	assert.Len(t, v.Rows, 5)
	// All seven levels count toward the total, not just the five shown.
	assert.Equal(t, int64(70), v.TotalAskQty)
}

func TestAggregateDepthEmpty(t *testing.T) {
	t.Parallel()

	v := AggregateDepth(nil, nil)
	assert.Len(t, v.Rows, 5)
	assert.Equal(t, int64(0), v.TotalBidQty)
	assert.Equal(t, int64(0), v.TotalAskQty)
}
