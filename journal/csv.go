// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSV struct {
	orders *csv.Writer
	fills  *csv.Writer
	of, ff *os.File
}

func NewCSV(ordersPath, fillsPath string) (*CSV, error) {
	of, err := os.Create(ordersPath)
	if err != nil {
		return nil, err
	}
	ff, err := os.Create(fillsPath)
	if err != nil {
		return nil, err
	}

	ow := csv.NewWriter(of)
	fw := csv.NewWriter(ff)

	if err := ow.Write([]string{"order_id", "symbol", "segment", "side", "order_type", "product", "quantity", "price", "status", "time"}); err != nil {
		return nil, err
	}
	if err := fw.Write([]string{"order_id", "symbol", "side", "quantity", "price", "value", "time"}); err != nil {
		return nil, err
	}

	ow.Flush()
	if err := ow.Error(); err != nil {
		return nil, err
	}
	fw.Flush()
	if err := fw.Error(); err != nil {
		return nil, err
	}

	return &CSV{ow, fw, of, ff}, nil
}

func (j *CSV) RecordOrder(o OrderRecord) error {
	j.orders.Write([]string{
		o.OrderID,
		o.Symbol,
		o.Segment,
		o.Side,
		o.OrderType,
		o.Product,
		strconv.FormatInt(o.Quantity, 10),
		f(o.Price),
		o.Status,
		o.Time.Format(time.RFC3339),
	})
	j.orders.Flush()
	return j.orders.Error()
}

func (j *CSV) RecordFill(r FillRecord) error {
	err := j.fills.Write([]string{
		r.OrderID,
		r.Symbol,
		r.Side,
		strconv.FormatInt(r.Quantity, 10),
		f(r.Price),
		f(r.Value),
		r.Time.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSV) Close() error {
	j.orders.Flush()
	if err := j.orders.Error(); err != nil {
		return err
	}
	j.fills.Flush()
	if err := j.fills.Error(); err != nil {
		return err
	}

	if err := j.of.Close(); err != nil {
		return err
	}
	if err := j.ff.Close(); err != nil {
		return err
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
