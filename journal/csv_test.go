package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWritesHeadersAndRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ordersPath := filepath.Join(dir, "orders.csv")
	fillsPath := filepath.Join(dir, "fills.csv")

	j, err := NewCSV(ordersPath, fillsPath)
	require.NoError(t, err)

	ts := time.Date(2025, 1, 22, 14, 28, 1, 0, time.UTC)
	require.NoError(t, j.RecordOrder(OrderRecord{
		OrderID: "PAPER_A", Symbol: "RELIANCE-EQ", Segment: "nse_cm",
		Side: "B", OrderType: "MKT", Product: "MIS",
		Quantity: 10, Price: 2500.5, Status: "complete", Time: ts,
	}))
	require.NoError(t, j.RecordFill(FillRecord{
		OrderID: "PAPER_A", Symbol: "RELIANCE-EQ", Side: "B",
		Quantity: 10, Price: 2500.5, Value: 25005, Time: ts,
	}))
	require.NoError(t, j.Close())

	of, err := os.Open(ordersPath)
	require.NoError(t, err)
	defer of.Close()
	orderRows, err := csv.NewReader(of).ReadAll()
	require.NoError(t, err)
	require.Len(t, orderRows, 2)
	assert.Equal(t, "order_id", orderRows[0][0])
	assert.Equal(t, "PAPER_A", orderRows[1][0])
	assert.Equal(t, "2500.50", orderRows[1][7])
	assert.Equal(t, "2025-01-22T14:28:01Z", orderRows[1][9])

	ff, err := os.Open(fillsPath)
	require.NoError(t, err)
	defer ff.Close()
	fillRows, err := csv.NewReader(ff).ReadAll()
	require.NoError(t, err)
	require.Len(t, fillRows, 2)
	assert.Equal(t, "25005.00", fillRows[1][5])
}

func TestNoopJournal(t *testing.T) {
	t.Parallel()

	var j Journal = Noop{}
	assert.NoError(t, j.RecordOrder(OrderRecord{}))
	assert.NoError(t, j.RecordFill(FillRecord{}))
	assert.NoError(t, j.Close())
}
