// Package series holds the historical series store: per-SKU daily sales and
// inventory records loaded once up front from the input table and read-only
// to the forecasting core.
package series

import (
	"sort"
	"time"

	"github.com/holoo/stockcast/internal/domain"
)

// Store is an in-memory snapshot of the input table, keyed by SKU.
type Store struct {
	histories map[string]domain.SKUHistory
}

// NewStore builds a store from already-validated histories.
func NewStore(histories []domain.SKUHistory) *Store {
	m := make(map[string]domain.SKUHistory, len(histories))
	for _, h := range histories {
		m[h.SKUID] = h
	}
	return &Store{histories: m}
}

// SKUs returns all SKU ids in lexical order.
func (s *Store) SKUs() []string {
	ids := make([]string, 0, len(s.histories))
	for id := range s.histories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get returns the history for a SKU.
func (s *Store) Get(skuID string) (domain.SKUHistory, bool) {
	h, ok := s.histories[skuID]
	return h, ok
}

// Len returns the number of SKUs.
func (s *Store) Len() int { return len(s.histories) }

// TotalRecords returns the number of daily records across all SKUs.
func (s *Store) TotalRecords() int {
	var n int
	for _, h := range s.histories {
		n += len(h.Records)
	}
	return n
}

// LastDate returns the most recent record date across all SKUs, or the zero
// time for an empty store.
func (s *Store) LastDate() (last time.Time) {
	for _, h := range s.histories {
		if cutoff := h.CutoffDate(); cutoff.After(last) {
			last = cutoff
		}
	}
	return last
}
