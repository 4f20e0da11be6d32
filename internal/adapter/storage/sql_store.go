package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rl1809/rental-ledger/internal/core/domain"
	"github.com/rl1809/rental-ledger/internal/port"
)

// Table per entity store, each an ordered key-value mapping: identifier
// primary key, record serialized as a JSON blob.
const (
	tableOwners    = "business_owners"
	tableCustomers = "customers"
	tableItems     = "rental_items"
	tableLeases    = "leases"
)

// SQLStores exposes the four entity stores over one SQL database. The
// upsert statement is the only dialect-specific part; OpenMySQL and
// OpenSQLite supply it.
type SQLStores struct {
	Owners    *SQLStore[domain.BusinessOwner]
	Customers *SQLStore[domain.Customer]
	Items     *SQLStore[domain.RentalItem]
	Leases    *SQLStore[domain.Lease]

	db     *sql.DB
	upsert func(table string) string
}

func newSQLStores(db *sql.DB, upsert func(table string) string) *SQLStores {
	return &SQLStores{
		Owners:    &SQLStore[domain.BusinessOwner]{db: db, table: tableOwners, upsert: upsert(tableOwners)},
		Customers: &SQLStore[domain.Customer]{db: db, table: tableCustomers, upsert: upsert(tableCustomers)},
		Items:     &SQLStore[domain.RentalItem]{db: db, table: tableItems, upsert: upsert(tableItems)},
		Leases:    &SQLStore[domain.Lease]{db: db, table: tableLeases, upsert: upsert(tableLeases)},
		db:        db,
		upsert:    upsert,
	}
}

// Stores adapts the bundle to the port the services consume.
func (s *SQLStores) Stores() port.Stores {
	return port.Stores{
		Owners:    s.Owners,
		Customers: s.Customers,
		Items:     s.Items,
		Leases:    s.Leases,
		Writer:    s,
	}
}

func (s *SQLStores) Close() error {
	return s.db.Close()
}

// ApplyLease writes the decremented rental item and the new lease in a
// single transaction, so a crash cannot leave the quantity spent without a
// lease recorded.
func (s *SQLStores) ApplyLease(ctx context.Context, item domain.RentalItem, lease domain.Lease) error {
	itemPayload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode rental item: %w", err)
	}
	leasePayload, err := json.Marshal(lease)
	if err != nil {
		return fmt.Errorf("encode lease: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.upsert(tableItems), item.ID.String(), itemPayload); err != nil {
		return fmt.Errorf("update rental item: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.upsert(tableLeases), lease.ID.String(), leasePayload); err != nil {
		return fmt.Errorf("insert lease: %w", err)
	}

	return tx.Commit()
}

// SQLStore is one entity store backed by a key-value table.
type SQLStore[T any] struct {
	db     *sql.DB
	table  string
	upsert string
}

func (s *SQLStore[T]) Insert(ctx context.Context, id domain.Identifier, record T) (*T, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	prev, err := scanRecord[T](tx.QueryRowContext(ctx,
		`SELECT record FROM `+s.table+` WHERE id = ?`, id.String()))
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, s.upsert, id.String(), payload); err != nil {
		return nil, fmt.Errorf("upsert %s: %w", s.table, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return prev, nil
}

func (s *SQLStore[T]) Get(ctx context.Context, id domain.Identifier) (*T, error) {
	return scanRecord[T](s.db.QueryRowContext(ctx,
		`SELECT record FROM `+s.table+` WHERE id = ?`, id.String()))
}

func scanRecord[T any](row *sql.Row) (*T, error) {
	var payload []byte
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan record: %w", err)
	}
	var record T
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &record, nil
}
