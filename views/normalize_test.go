package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOrderPaperShape(t *testing.T) {
	t.Parallel()

	raw := Raw(`{
		"order_id": "PAPER_01ARZ3NDEKTSV4RRFFQ69G5FAV",
		"trading_symbol": "RELIANCE-EQ",
		"transaction_type": "B",
		"quantity": 10,
		"price": 2500.5,
		"status": "open",
		"order_time": "2025-01-22T14:28:01+05:30"
	}`)

	v := NormalizeOrder(raw)
	assert.Equal(t, "RELIANCE-EQ", v.Symbol)
	assert.Equal(t, Buy, v.Side)
	assert.Equal(t, int64(10), v.Quantity)
	assert.Equal(t, 2500.5, v.Price)
	assert.Equal(t, "open", v.Status)
	assert.Equal(t, "PAPER_01ARZ3NDEKTSV4RRFFQ69G5FAV", v.OrderID)
	assert.Equal(t, "14:28", v.Time)
}

func TestNormalizeOrderBrokerShape(t *testing.T) {
	t.Parallel()

	raw := Raw(`{
		"nOrdNo": "250122000012345",
		"trdSym": "TCS-EQ",
		"trnsTp": "S",
		"qty": "5",
		"prc": "4100.00",
		"ordSt": "complete",
		"ordDtTm": "22-Jan-2025 14:28:01"
	}`)

	v := NormalizeOrder(raw)
	assert.Equal(t, "TCS-EQ", v.Symbol)
	assert.Equal(t, Sell, v.Side)
	assert.Equal(t, int64(5), v.Quantity)
	assert.Equal(t, 4100.0, v.Price)
	assert.Equal(t, "complete", v.Status)
	assert.Equal(t, "250122000012345", v.OrderID)
	assert.Equal(t, "14:28", v.Time)
}

func TestNormalizeOrderPaperKeysWinOverAliases(t *testing.T) {
	t.Parallel()

	raw := Raw(`{"trading_symbol":"INFY-EQ","trdSym":"WRONG","price":100,"prc":999}`)
	v := NormalizeOrder(raw)
	assert.Equal(t, "INFY-EQ", v.Symbol)
	assert.Equal(t, 100.0, v.Price)
}

func TestNormalizeOrderDefaults(t *testing.T) {
	t.Parallel()

	v := NormalizeOrder(Raw(`{}`))
	assert.Equal(t, "N/A", v.Symbol)
	assert.Equal(t, Buy, v.Side)
	assert.Equal(t, int64(0), v.Quantity)
	assert.Equal(t, 0.0, v.Price)
	assert.Equal(t, "unknown", v.Status)
	assert.Equal(t, "", v.OrderID)
	assert.Equal(t, "--", v.Time)
}

func TestNormalizeOrderGarbageNumbers(t *testing.T) {
	t.Parallel()

	v := NormalizeOrder(Raw(`{"qty":"abc","prc":"not-a-price"}`))
	assert.Equal(t, int64(0), v.Quantity)
	assert.Equal(t, 0.0, v.Price)
}

func TestDisplayTimeTiers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		raw   string
		order string
		trade string
	}{
		{"broker layout", "22-Jan-2025 14:28:01", "14:28", "14:28"},
		{"rfc3339", "2025-01-22T09:15:00+05:30", "09:15", "09:15"},
		{"clock substring", "garbage14:28x", "14:28", "14:28"},
		{"no match", "n/a", "--", "n/a"},
		{"empty", "", "--", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := NormalizeOrder(Raw(`{"order_time":"` + tc.raw + `"}`))
			trade := NormalizeTrade(Raw(`{"order_time":"` + tc.raw + `"}`))
			assert.Equal(t, tc.order, order.Time)
			assert.Equal(t, tc.trade, trade.Time)
		})
	}
}

func TestNormalizeTradeValueAlwaysDerived(t *testing.T) {
	t.Parallel()

	v := NormalizeTrade(Raw(`{"filled_quantity":7,"average_price":50,"value":123456}`))
	assert.Equal(t, int64(7), v.FilledQuantity)
	assert.Equal(t, 50.0, v.AvgPrice)
	assert.Equal(t, 350.0, v.Value)
}

func TestNormalizeTradeBrokerShape(t *testing.T) {
	t.Parallel()

	raw := Raw(`{"trdSym":"SBIN-EQ","trnsTp":"SELL","fldQty":"20","avgPrc":"812.35","flTm":"22-Jan-2025 10:02:11"}`)
	v := NormalizeTrade(raw)
	assert.Equal(t, "SBIN-EQ", v.Symbol)
	assert.Equal(t, Sell, v.Side)
	assert.Equal(t, int64(20), v.FilledQuantity)
	assert.Equal(t, 812.35, v.AvgPrice)
	assert.InDelta(t, 16247.0, v.Value, 1e-9)
	assert.Equal(t, "10:02", v.Time)
}

func TestNormalizePositionNetQtyDerived(t *testing.T) {
	t.Parallel()

	raw := Raw(`{"trdSym":"HDFC-EQ","cfBuyQty":10,"flBuyQty":5,"cfSellQty":3,"flSellQty":2,"ltp":100,"avgPrc":100}`)
	v := NormalizePosition(raw)
	assert.Equal(t, int64(10), v.NetQuantity)
}

func TestNormalizePositionNetQtyGarbageFieldsCountZero(t *testing.T) {
	t.Parallel()

	raw := Raw(`{"cfBuyQty":"x","flBuyQty":5,"flSellQty":2}`)
	v := NormalizePosition(raw)
	assert.Equal(t, int64(3), v.NetQuantity)
}

func TestNormalizePositionPnLDerived(t *testing.T) {
	t.Parallel()

	raw := Raw(`{"net_qty":10,"ltp":105,"avg_price":100}`)
	v := NormalizePosition(raw)
	assert.Equal(t, 50.0, v.PnL)
}

func TestNormalizePositionPnLSupplied(t *testing.T) {
	t.Parallel()

	raw := Raw(`{"net_qty":10,"ltp":105,"avg_price":100,"total_pnl":-12.5}`)
	v := NormalizePosition(raw)
	assert.Equal(t, -12.5, v.PnL)
}

func TestNormalizePositionMissingPricesDeriveZeroPnL(t *testing.T) {
	t.Parallel()

	v := NormalizePosition(Raw(`{"net_qty":10}`))
	assert.Equal(t, 0.0, v.PnL)
	assert.Equal(t, 0.0, v.AvgPrice)
	assert.Equal(t, 0.0, v.LastPrice)
}

func TestNormalizeHoldingPassthrough(t *testing.T) {
	t.Parallel()

	raw := Raw(`{
		"symbol": "WIPRO",
		"quantity": 40,
		"average_price": 450.0,
		"current_price": 480.0,
		"current_value": 19200.0,
		"pnl": 1200.0,
		"pnl_percent": 6.67
	}`)
	v := NormalizeHolding(raw)
	assert.Equal(t, "WIPRO", v.Symbol)
	assert.Equal(t, int64(40), v.Quantity)
	assert.Equal(t, 19200.0, v.CurrentValue)
	assert.Equal(t, 1200.0, v.PnL)
	assert.Equal(t, 6.67, v.PnLPercent)
}

func TestSideOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Sell, SideOf("S"))
	assert.Equal(t, Sell, SideOf("s"))
	assert.Equal(t, Sell, SideOf("SELL"))
	assert.Equal(t, Sell, SideOf("sell"))
	assert.Equal(t, Buy, SideOf("B"))
	assert.Equal(t, Buy, SideOf("BUY"))
	assert.Equal(t, Buy, SideOf(""))
	assert.Equal(t, Buy, SideOf("garbage"))

	assert.Equal(t, "SELL", Sell.Label())
	assert.Equal(t, "BUY", Buy.Label())
	assert.Equal(t, -1, Sell.Sign())
	assert.Equal(t, 1, Buy.Sign())
}
