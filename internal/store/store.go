// Package store implements the Index Store: the embedded relational
// database, its prepared-statement layer, the LRU+TTL file-row cache, and
// transactional multi-row upserts described in spec.md §4.1.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/atomicobject/diskdex/internal/cache"

	_ "modernc.org/sqlite"
)

// Store is the single shared surface through which entities are read or
// written. It owns one *sql.DB connection, a lazily-populated prepared
// statement cache keyed by logical operation, and a cache.Cache fronting
// get_cached_file.
//
// Concurrency model (§5): writes are serialized by running each multi-row
// mutation inside its own *sql.Tx; modernc.org/sqlite allows concurrent
// readers, so plain SELECTs are not additionally serialized here.
type Store struct {
	db    *sql.DB
	cache *cache.Cache

	stmtMu sync.Mutex
	stmts  map[string]*sql.Stmt
}

// Options configures Store construction.
type Options struct {
	// CacheSize bounds the LRU+TTL file-row cache (§4.2). Zero uses a
	// sensible default.
	CacheSize int
	// CacheTTL bounds how long a cached row is trusted before a fresh read
	// is required. Zero disables TTL-based eviction.
	CacheTTL int64 // milliseconds; 0 disables.
}

// Open opens (or creates) the SQLite-backed index at path and ensures the
// schema exists, following the teacher's Open() in
// pkg/embeddings/sqlite/store.go: create the parent directory, open the
// driver, then run schema migration before returning.
func Open(path string, opts Options) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store: %w: path is required", ErrInvalidInput)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// modernc.org/sqlite serializes writers per-connection; a single
	// connection keeps the "at most one transaction in flight" story
	// simple while still allowing the driver's own internal read
	// concurrency.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = 2048
	}
	var ttl time.Duration
	if opts.CacheTTL > 0 {
		ttl = time.Duration(opts.CacheTTL) * time.Millisecond
	}

	return &Store{
		db:    db,
		cache: cache.New(cache.Options{MaxSize: cacheSize, TTL: ttl}),
		stmts: make(map[string]*sql.Stmt),
	}, nil
}

// DB exposes the underlying connection for internal/search, which issues
// ranking queries (all_items, applications, file_tags⋈tags) that don't fit
// the single-row/single-statement shape the rest of Store's methods use.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the database connection and all prepared statements.
func (s *Store) Close() error {
	s.stmtMu.Lock()
	for _, stmt := range s.stmts {
		_ = stmt.Close()
	}
	s.stmts = nil
	s.stmtMu.Unlock()
	return s.db.Close()
}

// stmt returns the prepared statement cached under key, preparing and
// caching it on first use. This is the single owner of lazy prepared-
// statement initialization called out in the design (no ambient
// if (!stmt) prepare() pattern scattered through call sites).
func (s *Store) stmt(ctx context.Context, key, query string) (*sql.Stmt, error) {
	s.stmtMu.Lock()
	defer s.stmtMu.Unlock()

	if st, ok := s.stmts[key]; ok {
		return st, nil
	}
	st, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare statement %q: %w", key, err)
	}
	s.stmts[key] = st
	return st, nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any error or panic, exactly as the teacher's
// UpsertNoteEmbedding/UpsertNoteChunks in pkg/embeddings/sqlite/store.go do.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ErrStoreError, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStoreError, err)
	}
	committed = true
	return nil
}
