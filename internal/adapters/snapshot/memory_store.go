package snapshot

import (
	"context"
	"crossing-delta/internal/domain"
	"sort"
)

// MemoryStore is an in-process TableStore. Tables are copied on the way in
// and out, so callers never share state with the store.
type MemoryStore struct {
	tables map[string]*domain.DistanceTable
	saves  map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string]*domain.DistanceTable),
		saves:  make(map[string]int),
	}
}

func (s *MemoryStore) Load(ctx context.Context, name string) (*domain.DistanceTable, error) {
	t, ok := s.tables[name]
	if !ok {
		return domain.NewDistanceTable(), nil
	}
	return domain.NewDistanceTable().Merge(t), nil
}

func (s *MemoryStore) Save(ctx context.Context, name string, t *domain.DistanceTable) error {
	s.tables[name] = domain.NewDistanceTable().Merge(t)
	s.saves[name]++
	return nil
}

// Saves reports how many times the named table was written.
func (s *MemoryStore) Saves(name string) int { return s.saves[name] }

// Names lists the stored tables, sorted.
func (s *MemoryStore) Names() []string {
	out := make([]string, 0, len(s.tables))
	for n := range s.tables {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
