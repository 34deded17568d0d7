package market

import (
	"sync"
)

// QuoteStore is a mutex-guarded cache of the latest quote per
// instrument. Readers always get copies.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewQuoteStore() *QuoteStore {
	return &QuoteStore{quotes: make(map[string]Quote)}
}

// Get returns the cached quote for token/exchange, if any.
func (s *QuoteStore) Get(token, exchange string) (Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[Key(token, exchange)]
	return q, ok
}

// Put stores q under its own key, replacing any prior quote.
func (s *QuoteStore) Put(q Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[q.Key()] = q
}

// All returns a snapshot of every cached quote keyed token_exchange.
func (s *QuoteStore) All() map[string]Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Quote, len(s.quotes))
	for k, q := range s.quotes {
		out[k] = q
	}
	return out
}

// Delete drops the cached quote for token/exchange.
func (s *QuoteStore) Delete(token, exchange string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, Key(token, exchange))
}

// Len reports the number of cached quotes.
func (s *QuoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quotes)
}

// DepthStore is a mutex-guarded cache of the latest order book per
// instrument.
type DepthStore struct {
	mu    sync.RWMutex
	depth map[string]Depth
}

func NewDepthStore() *DepthStore {
	return &DepthStore{depth: make(map[string]Depth)}
}

// Get returns the cached depth for token/exchange, if any.
func (s *DepthStore) Get(token, exchange string) (Depth, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.depth[Key(token, exchange)]
	return d, ok
}

// Put stores d under its own key, replacing any prior snapshot.
func (s *DepthStore) Put(d Depth) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depth[d.Key()] = d
}

// Delete drops the cached depth for token/exchange.
func (s *DepthStore) Delete(token, exchange string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.depth, Key(token, exchange))
}
