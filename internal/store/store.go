// Package store provides SQLite persistence for the watchlist and reviews.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"
)

type Store struct {
	sqldb *sql.DB
	db    *bun.DB
}

var hasColumnCache sync.Map

// Entry is one saved movie. The title/year/poster columns are a snapshot of
// the catalog details at the time the movie was added or refreshed.
type Entry struct {
	bun.BaseModel `bun:"table:watchlist,alias:w"`

	MovieID    int64            `bun:"movie_id,pk"`
	Title      string           `bun:"title,notnull"`
	Year       sql.Null[int64]  `bun:"year,nullzero"`
	PosterPath sql.Null[string] `bun:"poster_path,nullzero"`
	Status     string           `bun:"status,notnull"`
	Note       sql.Null[string] `bun:"note,nullzero"`

	CreatedAt string `bun:"created_at,notnull"`
	UpdatedAt string `bun:"updated_at,notnull"`
}

type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	ID      string           `bun:"id,pk"`
	MovieID int64            `bun:"movie_id,notnull"`
	Rating  int64            `bun:"rating,notnull"`
	Body    sql.Null[string] `bun:"body,nullzero"`

	CreatedAt string `bun:"created_at,notnull"`
	UpdatedAt string `bun:"updated_at,notnull"`
}

type ListFilters struct {
	Status string
	Sort   string
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("DB_PATH is required")
	}

	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}

	sqldb, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := sqldb.PingContext(ctx); err != nil {
		if cerr := sqldb.Close(); cerr != nil {
			return nil, fmt.Errorf("ping db: %w; close failed: %w", err, cerr)
		}
		return nil, err
	}

	if err := initSchema(ctx, sqldb); err != nil {
		if cerr := sqldb.Close(); cerr != nil {
			return nil, fmt.Errorf("init schema: %w; close failed: %w", err, cerr)
		}
		return nil, err
	}

	bdb := bun.NewDB(sqldb, sqlitedialect.New())
	return &Store{sqldb: sqldb, db: bdb}, nil
}

func (s *Store) Close() error { return s.sqldb.Close() }

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS watchlist (
	movie_id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	year INTEGER,
	poster_path TEXT,
	status TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_watchlist_status ON watchlist(status);
CREATE TABLE IF NOT EXISTS reviews (
	id TEXT PRIMARY KEY,
	movie_id INTEGER NOT NULL,
	rating INTEGER NOT NULL,
	body TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_movie ON reviews(movie_id);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}

	return addColumnIfMissing(ctx, db, "watchlist", "note", "ALTER TABLE watchlist ADD COLUMN note TEXT")
}

func addColumnIfMissing(ctx context.Context, db *sql.DB, table, column, statement string) error {
	has, err := hasColumn(ctx, db, table, column)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = db.ExecContext(ctx, statement)
	if err == nil {
		hasColumnCache.Store(table+"."+column, true)
	}
	return err
}

func hasColumn(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	cacheKey := table + "." + column
	if cached, ok := hasColumnCache.Load(cacheKey); ok {
		return cached.(bool), nil
	}

	//nolint:gosec // table is controlled in this package.
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}

	found := false
	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dflt sql.Null[string]
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			if cerr := rows.Close(); cerr != nil {
				return false, cerr
			}
			return false, err
		}
		if name == column {
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		if cerr := rows.Close(); cerr != nil {
			return false, cerr
		}
		return false, err
	}
	if cerr := rows.Close(); cerr != nil {
		return false, cerr
	}

	// Only positive answers are cached: a missing column is about to be
	// added by the caller.
	if found {
		hasColumnCache.Store(cacheKey, true)
	}
	return found, nil
}

// UpsertEntry inserts a watchlist entry or, when the movie is already saved,
// refreshes its snapshot and status. Last write wins.
func (s *Store) UpsertEntry(ctx context.Context, entry *Entry) error {
	now := time.Now().UTC().Format(time.RFC3339)

	// Copy to avoid mutating caller-owned object.
	e := *entry
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := s.db.NewInsert().
		Model(&e).
		Column(
			"movie_id",
			"title",
			"year",
			"poster_path",
			"status",
			"note",
			"created_at",
			"updated_at",
		).
		On("CONFLICT (movie_id) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("year = EXCLUDED.year").
		Set("poster_path = EXCLUDED.poster_path").
		Set("status = EXCLUDED.status").
		// A NULL incoming note means the writer had none; it never erases
		// an existing one.
		Set("note = COALESCE(EXCLUDED.note, note)").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) GetEntry(ctx context.Context, movieID int64) (Entry, error) {
	var e Entry
	err := s.db.NewSelect().
		Model(&e).
		Where("movie_id = ?", movieID).
		Limit(1).
		Scan(ctx)
	return e, err
}

// IsMember reports whether a movie is on the watchlist.
func (s *Store) IsMember(ctx context.Context, movieID int64) (bool, error) {
	count, err := s.db.NewSelect().
		Model((*Entry)(nil)).
		Where("movie_id = ?", movieID).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) UpdateStatus(ctx context.Context, movieID int64, status string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	res, err := s.db.NewUpdate().
		Table("watchlist").
		Set("status = ?", status).
		Set("updated_at = ?", now).
		Where("movie_id = ?", movieID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectRowsAffected(res)
}

func (s *Store) DeleteEntry(ctx context.Context, movieID int64) error {
	res, err := s.db.NewDelete().
		Table("watchlist").
		Where("movie_id = ?", movieID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectRowsAffected(res)
}

func (s *Store) ListEntries(ctx context.Context, filters ListFilters) (out []Entry, err error) {
	q := s.db.NewSelect().Model(&out)

	if filters.Status != "" && filters.Status != "all" {
		q = q.Where("status = ?", filters.Status)
	}

	switch filters.Sort {
	case "title":
		q = q.OrderExpr("title COLLATE NOCASE ASC")
	case "year":
		q = q.OrderExpr("year DESC")
	default:
		q = q.OrderExpr("updated_at DESC")
	}

	err = q.Scan(ctx)
	return out, err
}

func (s *Store) CreateReview(ctx context.Context, review *Review) error {
	now := time.Now().UTC().Format(time.RFC3339)

	rv := *review
	rv.CreatedAt = now
	rv.UpdatedAt = now

	_, err := s.db.NewInsert().Model(&rv).Exec(ctx)
	return err
}

func (s *Store) GetReview(ctx context.Context, id string) (Review, error) {
	var rv Review
	err := s.db.NewSelect().
		Model(&rv).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	return rv, err
}

func (s *Store) ListReviews(ctx context.Context, movieID int64) (out []Review, err error) {
	err = s.db.NewSelect().
		Model(&out).
		Where("movie_id = ?", movieID).
		OrderExpr("created_at DESC").
		Scan(ctx)
	return out, err
}

func (s *Store) UpdateReview(ctx context.Context, id string, rating int64, body sql.Null[string]) error {
	now := time.Now().UTC().Format(time.RFC3339)

	res, err := s.db.NewUpdate().
		Table("reviews").
		Set("rating = ?", rating).
		Set("body = ?", body).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectRowsAffected(res)
}

func (s *Store) DeleteReview(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().
		Table("reviews").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectRowsAffected(res)
}

func expectRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
