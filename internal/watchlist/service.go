// Package watchlist implements the browse core's watchlist service on top
// of the local store, enriching new entries from the catalog.
package watchlist

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/moviedesk/moviedesk/internal/browse"
	"github.com/moviedesk/moviedesk/internal/store"
)

// Catalog is the slice of the catalog client the service needs.
type Catalog interface {
	FetchDetails(ctx context.Context, movieID int64) (browse.MovieSummary, error)
}

type Service struct {
	store   *store.Store
	catalog Catalog
}

func New(st *store.Store, catalog Catalog) *Service {
	return &Service{store: st, catalog: catalog}
}

func (s *Service) IsMember(ctx context.Context, movieID int64) (bool, error) {
	return s.store.IsMember(ctx, movieID)
}

// Add saves a movie, snapshotting its catalog details first so the entry is
// renderable without another upstream round trip.
func (s *Service) Add(ctx context.Context, movieID int64, initialStatus string) (browse.WatchlistEntry, error) {
	status := NormalizeStatus(initialStatus)

	detail, err := s.catalog.FetchDetails(ctx, movieID)
	if err != nil {
		return browse.WatchlistEntry{}, fmt.Errorf("fetch details: %w", err)
	}

	entry := EntryFromSummary(&detail, status)
	if err := s.store.UpsertEntry(ctx, &entry); err != nil {
		return browse.WatchlistEntry{}, fmt.Errorf("upsert entry: %w", err)
	}

	return browse.WatchlistEntry{
		MovieID: entry.MovieID,
		Title:   entry.Title,
		Status:  entry.Status,
	}, nil
}

// NormalizeStatus maps arbitrary input onto the two statuses the store
// accepts, defaulting to planned.
func NormalizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "watched":
		return "watched"
	default:
		return "planned"
	}
}

func EntryFromSummary(m *browse.MovieSummary, status string) store.Entry {
	var year sql.Null[int64]
	if m.Year > 0 {
		year = sql.Null[int64]{Valid: true, V: int64(m.Year)}
	}

	var poster sql.Null[string]
	if strings.TrimSpace(m.PosterPath) != "" {
		poster = sql.Null[string]{Valid: true, V: m.PosterPath}
	}

	return store.Entry{
		MovieID:    m.ID,
		Title:      m.Title,
		Year:       year,
		PosterPath: poster,
		Status:     status,
	}
}
