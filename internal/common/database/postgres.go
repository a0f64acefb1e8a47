// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"valuation-leads/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database handle
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client. With the default MaxIdle of 0
// every connection is closed as soon as it is released.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)

	return &PostgresClient{DB: db}, nil
}

// NewPostgresFromDB wraps an existing handle, e.g. one from sqlmock.
func NewPostgresFromDB(db *sql.DB) *PostgresClient {
	return &PostgresClient{DB: db}
}

// ConnectPostgres opens the handle and pings it. A handle that fails the ping
// is closed before the error is returned.
func ConnectPostgres(ctx context.Context, cfg config.PostgresConfig) (*PostgresClient, error) {
	client, err := NewPostgres(cfg)
	if err != nil {
		return nil, err
	}
	if err := client.verify(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *PostgresClient) verify(ctx context.Context) error {
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database handle
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Conn reserves a single connection for the caller, who must Close it.
func (c *PostgresClient) Conn(ctx context.Context) (*sql.Conn, error) {
	return c.DB.Conn(ctx)
}

// Exec executes a statement that doesn't return rows
func (c *PostgresClient) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.DB.ExecContext(ctx, query, args...)
}
