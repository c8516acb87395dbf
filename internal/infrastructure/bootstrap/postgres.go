package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds the connection settings for a PostgresSource.
type PostgresConfig struct {
	// URL is a postgres:// connection string.
	URL string

	// Table holds one row per document: (name text primary key, body jsonb).
	Table string

	// MaxConns is the maximum number of pooled connections.
	MaxConns int32

	// ConnectTimeout bounds pool creation and the initial ping.
	ConnectTimeout time.Duration
}

// DefaultPostgresConfig returns sensible defaults.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Table:          "bootstrap_documents",
		MaxConns:       2,
		ConnectTimeout: 10 * time.Second,
	}
}

// rowQuerier is the subset of *pgxpool.Pool used to fetch documents.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSource reads bootstrap documents from a database table.
type PostgresSource struct {
	db    rowQuerier
	pool  *pgxpool.Pool
	query string
}

// NewPostgresSource connects to the database described by cfg.
func NewPostgresSource(ctx context.Context, cfg PostgresConfig) (*PostgresSource, error) {
	if cfg.URL == "" {
		return nil, errors.New("postgres: database URL is required")
	}
	if cfg.Table == "" {
		cfg.Table = DefaultPostgresConfig().Table
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	src := newPostgresSource(pool, cfg.Table)
	src.pool = pool
	return src, nil
}

func newPostgresSource(db rowQuerier, table string) *PostgresSource {
	return &PostgresSource{
		db:    db,
		query: fmt.Sprintf("SELECT body::text FROM %s WHERE name = $1", pgx.Identifier{table}.Sanitize()),
	}
}

// Open implements Source.
func (s *PostgresSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	var body string
	err := s.db.QueryRow(ctx, s.query, name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: query document %s: %w", name, err)
	}
	return io.NopCloser(bytes.NewReader([]byte(body))), nil
}

// Close releases the connection pool. Documents are only read at startup,
// so callers close the source right after Load.
func (s *PostgresSource) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
