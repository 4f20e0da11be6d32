package port

import (
	"context"

	"github.com/rl1809/rental-ledger/internal/core/domain"
)

// Store is a durable mapping from identifier to one record type. Absence is
// a normal outcome, reported as a nil pointer rather than an error.
type Store[T any] interface {
	// Insert persists record under id and returns whatever was previously
	// stored there, if anything. The store does not enforce key uniqueness;
	// callers use freshly generated ids so overwrites cannot occur in
	// practice.
	Insert(ctx context.Context, id domain.Identifier, record T) (*T, error)

	// Get returns the record stored under id, or nil if absent.
	Get(ctx context.Context, id domain.Identifier) (*T, error)
}

// LeaseWriter persists a new lease together with the decremented rental
// item it draws from. Both writes land or neither does.
type LeaseWriter interface {
	ApplyLease(ctx context.Context, item domain.RentalItem, lease domain.Lease) error
}

// Stores bundles what a storage adapter provides: the four entity stores
// plus the transactional lease writer.
type Stores struct {
	Owners    Store[domain.BusinessOwner]
	Customers Store[domain.Customer]
	Items     Store[domain.RentalItem]
	Leases    Store[domain.Lease]
	Writer    LeaseWriter
}
