// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	order_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	segment TEXT NOT NULL,
	side TEXT NOT NULL,
	order_type TEXT NOT NULL,
	product TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price REAL NOT NULL,
	status TEXT NOT NULL,
	time DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS fills (
	order_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price REAL NOT NULL,
	value REAL NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_time ON orders(time);
CREATE INDEX IF NOT EXISTS idx_fills_time ON fills(time);
`
