package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rl1809/rental-ledger/internal/core/domain"
	"github.com/rl1809/rental-ledger/internal/port"
)

// LeaseService performs the one composite operation: validate the three
// referenced entities, decrement the rental item quantity, and record the
// lease. A mutex serializes CreateLease so two concurrent calls cannot
// read the same pre-decrement quantity and double-spend stock; the
// decrement and the lease insert themselves land in one storage
// transaction via LeaseWriter.
type LeaseService struct {
	owners    port.Store[domain.BusinessOwner]
	customers port.Store[domain.Customer]
	items     port.Store[domain.RentalItem]
	leases    port.Store[domain.Lease]
	writer    port.LeaseWriter
	now       func() time.Time

	mu sync.Mutex
}

func NewLeaseService(stores port.Stores) *LeaseService {
	return &LeaseService{
		owners:    stores.Owners,
		customers: stores.Customers,
		items:     stores.Items,
		leases:    stores.Leases,
		writer:    stores.Writer,
		now:       time.Now,
	}
}

// CreateLease validates sequentially and short-circuits on the first
// failure; no state is mutated unless every check passes.
func (s *LeaseService) CreateLease(ctx context.Context, businessOwnerID, customerID, rentalItemID domain.Identifier, numberOfItem uint64, endTime string) (domain.Lease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, err := s.owners.Get(ctx, businessOwnerID)
	if err != nil {
		return domain.Lease{}, fmt.Errorf("lookup business owner: %w", err)
	}
	if owner == nil {
		return domain.Lease{}, &NotFoundError{Entity: EntityBusinessOwner, ID: businessOwnerID}
	}

	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return domain.Lease{}, fmt.Errorf("lookup customer: %w", err)
	}
	if customer == nil {
		return domain.Lease{}, &NotFoundError{Entity: EntityCustomer, ID: customerID}
	}

	item, err := s.items.Get(ctx, rentalItemID)
	if err != nil {
		return domain.Lease{}, fmt.Errorf("lookup rental item: %w", err)
	}
	if item == nil {
		return domain.Lease{}, &NotFoundError{Entity: EntityRentalItem, ID: rentalItemID}
	}

	if numberOfItem > item.Quantity {
		return domain.Lease{}, &InsufficientStockError{
			RentalItem: rentalItemID,
			Requested:  numberOfItem,
			Available:  item.Quantity,
		}
	}
	item.Quantity -= numberOfItem

	lease := domain.Lease{
		ID:            domain.NewIdentifier(),
		BusinessOwner: businessOwnerID,
		Customer:      customerID,
		RentalItem:    rentalItemID,
		NumberOfItem:  numberOfItem,
		StartTime:     s.now().UTC().Format(time.RFC3339),
		EndTime:       endTime,
	}

	if err := s.writer.ApplyLease(ctx, *item, lease); err != nil {
		return domain.Lease{}, fmt.Errorf("persist lease: %w", err)
	}

	return lease, nil
}

// GetByID returns the lease under id, or nil if absent.
func (s *LeaseService) GetByID(ctx context.Context, id domain.Identifier) (*domain.Lease, error) {
	return s.leases.Get(ctx, id)
}
