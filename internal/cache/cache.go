// Package cache keeps a local sqlite copy of CMS reference data so the
// console can start and fill pickers without waiting on the API.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dleads/stakeados.app-sub003/internal/domain"
	_ "modernc.org/sqlite"
)

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	c := &Cache{readDB: readDB, writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS reference_items (
			kind       TEXT NOT NULL,
			id         TEXT NOT NULL,
			name       TEXT NOT NULL,
			slug       TEXT NOT NULL DEFAULT '',
			fetched_at DATETIME NOT NULL,
			PRIMARY KEY (kind, id)
		);
		CREATE INDEX IF NOT EXISTS idx_reference_kind_name ON reference_items(kind, name);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	return errors.Join(errs...)
}

func fetchedKey(kind domain.RefKind) string { return "fetched:" + string(kind) }

// ReplaceReference swaps the cached rows of kind for items in one
// transaction and records fetchedAt as the kind's refresh time.
func (c *Cache) ReplaceReference(kind domain.RefKind, items []domain.RefItem, fetchedAt time.Time) error {
	if !kind.IsValid() {
		return fmt.Errorf("unknown reference kind %q", kind)
	}

	tx, err := c.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reference_items WHERE kind = ?`, kind); err != nil {
		return fmt.Errorf("clearing %s: %w", kind, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO reference_items (kind, id, name, slug, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			name = excluded.name,
			slug = excluded.slug,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.Exec(kind, it.ID, it.Name, it.Slug, fetchedAt.UTC()); err != nil {
			return fmt.Errorf("inserting %s %s: %w", kind, it.ID, err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, fetchedKey(kind), fetchedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("recording refresh of %s: %w", kind, err)
	}

	return tx.Commit()
}

// GetReference returns the cached rows of kind ordered by name.
func (c *Cache) GetReference(kind domain.RefKind) ([]domain.RefItem, error) {
	rows, err := c.readDB.Query(`
		SELECT id, name, slug, fetched_at FROM reference_items
		WHERE kind = ?
		ORDER BY name COLLATE NOCASE, id
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", kind, err)
	}
	defer rows.Close()

	var items []domain.RefItem
	for rows.Next() {
		var it domain.RefItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Slug, &it.FetchedAt); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// LastFetched reports when kind was last replaced. ok is false when the
// kind has never been stored.
func (c *Cache) LastFetched(kind domain.RefKind) (t time.Time, ok bool) {
	value, err := c.getMeta(fetchedKey(kind))
	if err != nil {
		return time.Time{}, false
	}
	t, err = time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NeedsRefresh reports whether kind is missing or older than ttl.
func (c *Cache) NeedsRefresh(kind domain.RefKind, ttl time.Duration) bool {
	t, ok := c.LastFetched(kind)
	if !ok {
		return true
	}
	return time.Since(t) >= ttl
}

// Prune drops the cached rows of the given kinds, or of every kind when none
// are named, and returns the number of rows removed.
func (c *Cache) Prune(kinds ...domain.RefKind) (int64, error) {
	if len(kinds) == 0 {
		kinds = domain.AllRefKinds()
	}

	tx, err := c.writeDB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var deleted int64
	for _, kind := range kinds {
		res, err := tx.Exec(`DELETE FROM reference_items WHERE kind = ?`, kind)
		if err != nil {
			return 0, fmt.Errorf("pruning %s: %w", kind, err)
		}
		n, _ := res.RowsAffected()
		deleted += n
		if _, err := tx.Exec(`DELETE FROM meta WHERE key = ?`, fetchedKey(kind)); err != nil {
			return 0, fmt.Errorf("pruning %s: %w", kind, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	if _, err := c.writeDB.Exec("VACUUM"); err != nil {
		return deleted, fmt.Errorf("vacuum: %w", err)
	}
	return deleted, nil
}

// Stats reports per-kind row counts and the size of the file at dbPath.
func (c *Cache) Stats(dbPath string) (Stats, error) {
	st := Stats{Path: dbPath}
	for _, kind := range domain.AllRefKinds() {
		ks := KindStats{Kind: kind}
		if err := c.readDB.QueryRow(`SELECT COUNT(*) FROM reference_items WHERE kind = ?`, kind).Scan(&ks.Count); err != nil {
			return Stats{}, fmt.Errorf("counting %s: %w", kind, err)
		}
		ks.LastFetched, _ = c.LastFetched(kind)
		st.Kinds = append(st.Kinds, ks)
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		return Stats{}, fmt.Errorf("stat cache file: %w", err)
	}
	st.Size = info.Size()
	return st, nil
}

func (c *Cache) getMeta(key string) (string, error) {
	var value string
	err := c.readDB.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	return value, err
}
