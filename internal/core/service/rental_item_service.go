package service

import (
	"context"
	"fmt"

	"github.com/rl1809/rental-ledger/internal/core/domain"
	"github.com/rl1809/rental-ledger/internal/port"
)

type RentalItemService struct {
	items port.Store[domain.RentalItem]
}

func NewRentalItemService(items port.Store[domain.RentalItem]) *RentalItemService {
	return &RentalItemService{items: items}
}

// Create persists a new rental item with the quantity as given. The caller
// is trusted at creation time; only lease creation mutates quantity later.
func (s *RentalItemService) Create(ctx context.Context, items string, quantity uint64) (domain.RentalItem, error) {
	item := domain.RentalItem{
		ID:       domain.NewIdentifier(),
		Items:    items,
		Quantity: quantity,
	}

	if _, err := s.items.Insert(ctx, item.ID, item); err != nil {
		return domain.RentalItem{}, fmt.Errorf("insert rental item: %w", err)
	}

	return item, nil
}

func (s *RentalItemService) GetByID(ctx context.Context, id domain.Identifier) (*domain.RentalItem, error) {
	return s.items.Get(ctx, id)
}
