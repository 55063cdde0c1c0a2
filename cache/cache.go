// Package cache stores completed analyses so that unchanged modules are not
// checked again.  Entries are keyed by a content hash of the module's AST
// document and the checker version.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/xxh3"
	_ "modernc.org/sqlite"

	"xuc/common"
	"xuc/walk"
)

// Cache is an on-disk analysis cache.  It is safe for concurrent use.
type Cache struct {
	db *sql.DB
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cache: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Open opens the cache database in dir, creating both as needed.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	// The pragmas apply to every pooled connection.  Other processes may hold
	// the database, so writers wait rather than fail.
	dsn := "file:" + filepath.Join(dir, common.CacheFileName) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite admits a single writer.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS analyses (
		key TEXT PRIMARY KEY,
		module TEXT NOT NULL,
		payload BLOB NOT NULL,
		created INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key computes the cache key of an AST document.
func Key(document []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(document)) + "-" + common.XucVersion
}

// Lookup returns the cached analysis for key.  The boolean is false if there
// is no such entry.
func (c *Cache) Lookup(ctx context.Context, key string) (*walk.Result, bool, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx, "SELECT payload FROM analyses WHERE key = ?", key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying analysis: %w", err)
	}

	var res walk.Result
	if err := cbor.Unmarshal(payload, &res); err != nil {
		return nil, false, fmt.Errorf("decoding cached analysis: %w", err)
	}

	return &res, true, nil
}

// Store saves an analysis under key, replacing any previous entry.
func (c *Cache) Store(ctx context.Context, key string, res *walk.Result) error {
	payload, err := cborEncMode.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}

	_, err = c.db.ExecContext(
		ctx,
		"INSERT OR REPLACE INTO analyses (key, module, payload, created) VALUES (?, ?, ?, ?)",
		key, res.Module, payload, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}

	return nil
}

// Len returns the number of cached analyses.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyses").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting analyses: %w", err)
	}

	return n, nil
}
