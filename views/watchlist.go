package views

import (
	"github.com/rustyeddy/terminal/market"
)

// WatchlistEntry is one subscribed instrument on the watchlist.
type WatchlistEntry struct {
	Key           string  `json:"key"`
	Token         string  `json:"token"`
	Exchange      string  `json:"exchange"`
	Symbol        string  `json:"symbol"`
	LastPrice     float64 `json:"last_price"`
	ChangePercent float64 `json:"change_percent"`
}

// Watchlist is an ordered set of entries keyed token_exchange.
// Entries are created on subscribe and updated by price events; they
// are never removed (unsubscribing clears feed caches, not the list).
// Not safe for concurrent use; the terminal service is the single
// owner.
type Watchlist struct {
	order   []string
	entries map[string]*WatchlistEntry
}

func NewWatchlist() *Watchlist {
	return &Watchlist{entries: make(map[string]*WatchlistEntry)}
}

// Subscribe inserts an entry for token/exchange if one does not exist
// yet, and reports whether it was newly added. The symbol of an
// existing entry is filled in when it was previously unknown.
func (w *Watchlist) Subscribe(token, exchange, symbol string) bool {
	key := market.Key(token, exchange)
	if e, ok := w.entries[key]; ok {
		if e.Symbol == "" {
			e.Symbol = symbol
		}
		return false
	}
	w.entries[key] = &WatchlistEntry{
		Key:      key,
		Token:    token,
		Exchange: exchange,
		Symbol:   symbol,
	}
	w.order = append(w.order, key)
	return true
}

// ApplyPrice updates last price and change percent for a known key
// and reports whether the key was on the list.
func (w *Watchlist) ApplyPrice(token, exchange string, lastPrice, changePercent float64) bool {
	e, ok := w.entries[market.Key(token, exchange)]
	if !ok {
		return false
	}
	e.LastPrice = lastPrice
	e.ChangePercent = changePercent
	return true
}

// Entries returns the list in subscription order.
func (w *Watchlist) Entries() []WatchlistEntry {
	out := make([]WatchlistEntry, 0, len(w.order))
	for _, key := range w.order {
		out = append(out, *w.entries[key])
	}
	return out
}

// Len reports the number of entries.
func (w *Watchlist) Len() int {
	return len(w.entries)
}
