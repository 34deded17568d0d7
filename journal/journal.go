package journal

import (
	"time"
)

// OrderRecord is one accepted order command.
type OrderRecord struct {
	OrderID   string
	Symbol    string
	Segment   string
	Side      string
	OrderType string
	Product   string
	Quantity  int64
	Price     float64
	Status    string
	Time      time.Time
}

// FillRecord is one completed fill.
type FillRecord struct {
	OrderID  string
	Symbol   string
	Side     string
	Quantity int64
	Price    float64
	Value    float64
	Time     time.Time
}

// Journal records the session's order and fill events.
type Journal interface {
	RecordOrder(OrderRecord) error
	RecordFill(FillRecord) error
	Close() error
}

// Noop is the journal used when journaling is disabled.
type Noop struct{}

func (Noop) RecordOrder(OrderRecord) error { return nil }
func (Noop) RecordFill(FillRecord) error   { return nil }
func (Noop) Close() error                  { return nil }
