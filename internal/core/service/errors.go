package service

import (
	"fmt"

	"github.com/rl1809/rental-ledger/internal/core/domain"
)

// Entity kinds reported by NotFoundError.
const (
	EntityBusinessOwner = "business_owner"
	EntityCustomer      = "customer"
	EntityRentalItem    = "rental_item"
)

// NotFoundError reports that a lease referenced an id absent from its
// store at creation time.
type NotFoundError struct {
	Entity string
	ID     domain.Identifier
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InsufficientStockError reports a lease that would drive the rental item
// quantity negative.
type InsufficientStockError struct {
	RentalItem domain.Identifier
	Requested  uint64
	Available  uint64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("rental item %s has %d left, %d requested", e.RentalItem, e.Available, e.Requested)
}
