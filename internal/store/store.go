package store

import (
	"context"
	"fmt"
	"time"

	"catalog-service/internal/catalog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// getNamed runs a named-parameter query expecting a single row
func (s *Store) getNamed(ctx context.Context, dest interface{}, query string, args map[string]interface{}) error {
	q, bound, err := sqlx.Named(query, args)
	if err != nil {
		return fmt.Errorf("failed to bind query: %w", err)
	}
	q = s.db.Rebind(q)
	return s.db.GetContext(ctx, dest, q, bound...)
}

// selectNamed runs a named-parameter query expecting multiple rows
func (s *Store) selectNamed(ctx context.Context, dest interface{}, query string, args map[string]interface{}) error {
	q, bound, err := sqlx.Named(query, args)
	if err != nil {
		return fmt.Errorf("failed to bind query: %w", err)
	}
	q = s.db.Rebind(q)
	return s.db.SelectContext(ctx, dest, q, bound...)
}

// countNamed runs a count query built from a shared predicate
func (s *Store) countNamed(ctx context.Context, query string, pred *catalog.Predicate) (int, error) {
	var total int
	if err := s.getNamed(ctx, &total, query, pred.Args()); err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return total, nil
}
