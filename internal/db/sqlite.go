package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens an existing SQLite file read-only
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	// The driver would otherwise create a missing file.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat database file: %w", err)
	}

	dsn := (&url.URL{Scheme: "file", Opaque: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Ping succeeds on non-database files; reading the catalog does not.
	var n int
	if err := db.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}

// SQLiteReader reads user tables from SQLite
type SQLiteReader struct {
	sqlReader
	client *SQLiteClient
}

// NewSQLiteReader creates a catalog reader over an open client
func NewSQLiteReader(client *SQLiteClient) *SQLiteReader {
	return &SQLiteReader{
		client: client,
		sqlReader: sqlReader{
			db: client.GetDB(),
			listQuery: `
				SELECT name
				FROM sqlite_master
				WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
				ORDER BY name
			`,
			quote: quoteDouble,
		},
	}
}

// Close closes the underlying client
func (r *SQLiteReader) Close() error {
	return r.client.Close()
}
