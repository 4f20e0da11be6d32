package storage

import (
	"context"
	"sync"

	"github.com/rl1809/rental-ledger/internal/core/domain"
	"github.com/rl1809/rental-ledger/internal/port"
)

// MemoryStore keeps records in a map. Not durable; used for tests and
// local development.
type MemoryStore[T any] struct {
	mu      sync.RWMutex
	records map[domain.Identifier]T
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{records: make(map[domain.Identifier]T)}
}

func (s *MemoryStore[T]) Insert(ctx context.Context, id domain.Identifier, record T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *T
	if existing, ok := s.records[id]; ok {
		prev = &existing
	}
	s.records[id] = record
	return prev, nil
}

func (s *MemoryStore[T]) Get(ctx context.Context, id domain.Identifier) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Len reports the number of stored records.
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// MemoryStores is the in-memory counterpart of SQLStores.
type MemoryStores struct {
	Owners    *MemoryStore[domain.BusinessOwner]
	Customers *MemoryStore[domain.Customer]
	Items     *MemoryStore[domain.RentalItem]
	Leases    *MemoryStore[domain.Lease]
}

func NewMemoryStores() *MemoryStores {
	return &MemoryStores{
		Owners:    NewMemoryStore[domain.BusinessOwner](),
		Customers: NewMemoryStore[domain.Customer](),
		Items:     NewMemoryStore[domain.RentalItem](),
		Leases:    NewMemoryStore[domain.Lease](),
	}
}

func (s *MemoryStores) Stores() port.Stores {
	return port.Stores{
		Owners:    s.Owners,
		Customers: s.Customers,
		Items:     s.Items,
		Leases:    s.Leases,
		Writer:    s,
	}
}

func (s *MemoryStores) ApplyLease(ctx context.Context, item domain.RentalItem, lease domain.Lease) error {
	if _, err := s.Items.Insert(ctx, item.ID, item); err != nil {
		return err
	}
	_, err := s.Leases.Insert(ctx, lease.ID, lease)
	return err
}
