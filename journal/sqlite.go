package journal

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordOrder(o OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(order_id, symbol, segment, side, order_type, product, quantity, price, status, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderID, o.Symbol, o.Segment, o.Side, o.OrderType,
		o.Product, o.Quantity, o.Price, o.Status, o.Time,
	)
	return err
}

func (j *SQLite) RecordFill(f FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(order_id, symbol, side, quantity, price, value, time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.OrderID, f.Symbol, f.Side, f.Quantity, f.Price, f.Value, f.Time,
	)
	return err
}

// OrdersBySymbol returns the recorded orders for one symbol, oldest
// first.
func (j *SQLite) OrdersBySymbol(ctx context.Context, symbol string) ([]OrderRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT order_id, symbol, segment, side, order_type, product, quantity, price, status, time
		FROM orders WHERE symbol = ? ORDER BY time`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRecord
	for rows.Next() {
		var o OrderRecord
		if err := rows.Scan(&o.OrderID, &o.Symbol, &o.Segment, &o.Side, &o.OrderType,
			&o.Product, &o.Quantity, &o.Price, &o.Status, &o.Time); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// RealizedValue sums the fill values for one symbol, sells positive
// and buys negative.
func (j *SQLite) RealizedValue(ctx context.Context, symbol string) (float64, error) {
	var total sql.NullFloat64
	err := j.db.QueryRowContext(ctx, `
		SELECT SUM(CASE WHEN side = 'S' THEN value ELSE -value END)
		FROM fills WHERE symbol = ?`, symbol).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
