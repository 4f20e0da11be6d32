package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS %s (
	id TEXT NOT NULL PRIMARY KEY,
	record TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

func sqliteUpsert(table string) string {
	return `INSERT INTO ` + table + ` (id, record) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET record = excluded.record, updated_at = CURRENT_TIMESTAMP`
}

// OpenSQLite opens (creating if needed) a SQLite database file and returns
// the store bundle. Suited to single-binary deployments with no external
// database.
func OpenSQLite(ctx context.Context, path string) (*SQLStores, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The driver does not support concurrent writers on one connection pool.
	db.SetMaxOpenConns(1)

	for _, table := range []string{tableOwners, tableCustomers, tableItems, tableLeases} {
		if _, err := db.ExecContext(ctx, fmt.Sprintf(sqliteSchema, table)); err != nil {
			db.Close()
			return nil, fmt.Errorf("create table %s: %w", table, err)
		}
	}

	return newSQLStores(db, sqliteUpsert), nil
}
