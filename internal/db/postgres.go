package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tordrt/merlindb/internal/schema"
)

// PostgresClient manages the connection to PostgreSQL
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{conn: conn}, nil
}

// Close closes the database connection
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// GetConnection returns the underlying connection
func (c *PostgresClient) GetConnection() *pgx.Conn {
	return c.conn
}

// PostgresReader reads base tables of one PostgreSQL schema
type PostgresReader struct {
	client *PostgresClient
	schema string
}

// NewPostgresReader creates a catalog reader for the given schema
func NewPostgresReader(client *PostgresClient, schemaName string) *PostgresReader {
	return &PostgresReader{
		client: client,
		schema: schemaName,
	}
}

// ListTables returns the base tables of the schema
func (r *PostgresReader) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := r.client.GetConnection().Query(ctx, query, r.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	return sortedUnique(names), nil
}

// DecodeTable reads every row, tagging columns by their PostgreSQL type
func (r *PostgresReader) DecodeTable(ctx context.Context, name string) (*schema.Table, error) {
	conn := r.client.GetConnection()
	rows, err := conn.Query(ctx, "SELECT * FROM "+pgx.Identifier{r.schema, name}.Sanitize())
	if err != nil {
		return nil, fmt.Errorf("failed to query table: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	t := &schema.Table{Name: name, Columns: make([]schema.Column, len(fields))}
	for i, fd := range fields {
		typeName := "unknown"
		if pgType, ok := conn.TypeMap().TypeForOID(fd.DataTypeOID); ok {
			typeName = pgType.Name
		}
		t.Columns[i] = schema.Column{Name: fd.Name, Type: columnTypeFromSQL(typeName), Values: []any{}}
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		for i := range t.Columns {
			t.Columns[i].Values = append(t.Columns[i].Values, normalizeValue(t.Columns[i].Type, postgresValue(values[i])))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// postgresValue unwraps pgtype values that have no plain Go form.
func postgresValue(v any) any {
	switch n := v.(type) {
	case pgtype.Numeric:
		if !n.Valid {
			return nil
		}
		s, err := n.Value()
		if err != nil {
			return nil
		}
		return s
	default:
		return v
	}
}

// Close closes the underlying connection
func (r *PostgresReader) Close() error {
	return r.client.Close(context.Background())
}
