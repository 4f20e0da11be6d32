package service

import (
	"context"
	"fmt"

	"github.com/rl1809/rental-ledger/internal/core/domain"
	"github.com/rl1809/rental-ledger/internal/port"
)

type BusinessOwnerService struct {
	owners port.Store[domain.BusinessOwner]
}

func NewBusinessOwnerService(owners port.Store[domain.BusinessOwner]) *BusinessOwnerService {
	return &BusinessOwnerService{owners: owners}
}

// Create allocates an id, persists the record, and returns it. The name is
// accepted as given, empty text included.
func (s *BusinessOwnerService) Create(ctx context.Context, name string) (domain.BusinessOwner, error) {
	owner := domain.BusinessOwner{
		ID:   domain.NewIdentifier(),
		Name: name,
	}

	if _, err := s.owners.Insert(ctx, owner.ID, owner); err != nil {
		return domain.BusinessOwner{}, fmt.Errorf("insert business owner: %w", err)
	}

	return owner, nil
}

// GetByID returns the owner under id, or nil if absent.
func (s *BusinessOwnerService) GetByID(ctx context.Context, id domain.Identifier) (*domain.BusinessOwner, error) {
	return s.owners.Get(ctx, id)
}
