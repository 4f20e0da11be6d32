package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const mysqlSchema = `CREATE TABLE IF NOT EXISTS %s (
	id VARCHAR(64) NOT NULL PRIMARY KEY,
	record JSON NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

func mysqlUpsert(table string) string {
	return `INSERT INTO ` + table + ` (id, record) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE record = VALUES(record)`
}

// OpenMySQL connects to MySQL, creates the store tables if needed, and
// returns the store bundle.
func OpenMySQL(ctx context.Context, dsn string) (*SQLStores, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	for _, table := range []string{tableOwners, tableCustomers, tableItems, tableLeases} {
		if _, err := db.ExecContext(ctx, fmt.Sprintf(mysqlSchema, table)); err != nil {
			db.Close()
			return nil, fmt.Errorf("create table %s: %w", table, err)
		}
	}

	return newSQLStores(db, mysqlUpsert), nil
}
