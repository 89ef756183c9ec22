package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"go-page-cache/internal/interfaces"
	"go-page-cache/internal/models"
)

const (
	dialectSQLite   = "sqlite"
	dialectPostgres = "postgres"
)

// Ensure SQLStore implements interfaces.Store
var _ interfaces.Store = (*SQLStore)(nil)

// SQLStore keeps entries in a single SQLite or Postgres table
type SQLStore struct {
	db      *sql.DB
	dialect string
	logger  *zap.Logger
}

// NewSQLiteStore opens a SQLite database file
func NewSQLiteStore(dsn string, logger *zap.Logger) (interfaces.Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("sqlite dsn is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite page cache: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)
	return &SQLStore{db: db, dialect: dialectSQLite, logger: logger}, nil
}

// NewPostgresStore opens a Postgres connection pool
func NewPostgresStore(dsn string, logger *zap.Logger) (interfaces.Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres page cache: %w", err)
	}
	return &SQLStore{db: db, dialect: dialectPostgres, logger: logger}, nil
}

// Init checks connectivity and creates the table
func (s *SQLStore) Init(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s page cache: %w", s.dialect, err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS page_cache (
	cache_key TEXT PRIMARY KEY,
	body BLOB NOT NULL,
	stored_at BIGINT NOT NULL
);`
	if s.dialect == dialectPostgres {
		ddl = `
CREATE TABLE IF NOT EXISTS page_cache (
	cache_key TEXT PRIMARY KEY,
	body BYTEA NOT NULL,
	stored_at BIGINT NOT NULL
);`
	}

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("initialize page cache schema: %w", err)
	}
	s.logger.Info("Page cache table ready", zap.String("dialect", s.dialect))
	return nil
}

// Read loads one entry
func (s *SQLStore) Read(ctx context.Context, key string) (*models.CacheEntry, error) {
	q := s.bind(`SELECT body, stored_at FROM page_cache WHERE cache_key = ?`)

	var (
		body     []byte
		storedAt int64
	)
	err := s.db.QueryRowContext(ctx, q, key).Scan(&body, &storedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEntryNotFound
		}
		return nil, fmt.Errorf("read page cache entry: %w", err)
	}

	return &models.CacheEntry{Data: body, StoredAt: time.Unix(0, storedAt)}, nil
}

// Write inserts or replaces one entry
func (s *SQLStore) Write(ctx context.Context, key string, entry *models.CacheEntry) error {
	q := s.bind(`INSERT INTO page_cache(cache_key, body, stored_at) VALUES(?, ?, ?)
	ON CONFLICT(cache_key) DO UPDATE SET body = excluded.body, stored_at = excluded.stored_at`)

	body := entry.Data
	if body == nil {
		body = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, q, key, body, entry.StoredAt.UnixNano()); err != nil {
		return fmt.Errorf("write page cache entry: %w", err)
	}
	return nil
}

// Delete removes one entry; a missing row is not an error
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	q := s.bind(`DELETE FROM page_cache WHERE cache_key = ?`)
	if _, err := s.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("delete page cache entry: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLStore) bind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var (
		b      strings.Builder
		argNum = 1
	)
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			b.WriteString(fmt.Sprintf("$%d", argNum))
			argNum++
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
