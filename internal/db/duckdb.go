package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/duckdb/duckdb-go/v2"
)

// DuckDBClient manages the connection to a DuckDB file
type DuckDBClient struct {
	db *sql.DB
}

// NewDuckDBClient opens an existing DuckDB file read-only
func NewDuckDBClient(ctx context.Context, path string) (*DuckDBClient, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat database file: %w", err)
	}

	db, err := sql.Open("duckdb", path+"?access_mode=read_only")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DuckDBClient{db: db}, nil
}

// Close closes the database connection
func (c *DuckDBClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *DuckDBClient) GetDB() *sql.DB {
	return c.db
}

// DuckDBReader reads base tables of the main schema
type DuckDBReader struct {
	sqlReader
	client *DuckDBClient
}

// NewDuckDBReader creates a catalog reader over an open client
func NewDuckDBReader(client *DuckDBClient) *DuckDBReader {
	return &DuckDBReader{
		client: client,
		sqlReader: sqlReader{
			db: client.GetDB(),
			listQuery: `
				SELECT table_name
				FROM information_schema.tables
				WHERE table_schema = 'main' AND table_type = 'BASE TABLE'
				ORDER BY table_name
			`,
			quote: quoteDouble,
		},
	}
}

// Close closes the underlying client
func (r *DuckDBReader) Close() error {
	return r.client.Close()
}
