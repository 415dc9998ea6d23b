package watchlist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviedesk/moviedesk/internal/browse"
	"github.com/moviedesk/moviedesk/internal/store"
)

type fakeCatalog struct {
	movies map[int64]browse.MovieSummary
	err    error
	calls  int
}

func (c *fakeCatalog) FetchDetails(_ context.Context, movieID int64) (browse.MovieSummary, error) {
	c.calls++
	if c.err != nil {
		return browse.MovieSummary{}, c.err
	}
	m, ok := c.movies[movieID]
	if !ok {
		return browse.MovieSummary{}, errors.New("movie not found")
	}
	return m, nil
}

func newTestService(t *testing.T, catalog *fakeCatalog) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "wl.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})
	return New(st, catalog), st
}

func TestAddSnapshotsCatalogDetails(t *testing.T) {
	catalog := &fakeCatalog{movies: map[int64]browse.MovieSummary{
		603: {ID: 603, Title: "The Matrix", Year: 1999, PosterPath: "/matrix.jpg"},
	}}
	svc, st := newTestService(t, catalog)
	ctx := context.Background()

	entry, err := svc.Add(ctx, 603, "")
	require.NoError(t, err)
	assert.Equal(t, int64(603), entry.MovieID)
	assert.Equal(t, "The Matrix", entry.Title)
	assert.Equal(t, "planned", entry.Status)

	stored, err := st.GetEntry(ctx, 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", stored.Title)
	require.True(t, stored.Year.Valid)
	assert.Equal(t, int64(1999), stored.Year.V)
	require.True(t, stored.PosterPath.Valid)
	assert.Equal(t, "/matrix.jpg", stored.PosterPath.V)
}

func TestAddFailsWithoutCatalogDetails(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("catalog down")}
	svc, st := newTestService(t, catalog)
	ctx := context.Background()

	_, err := svc.Add(ctx, 42, "planned")
	require.Error(t, err)

	member, err := st.IsMember(ctx, 42)
	require.NoError(t, err)
	assert.False(t, member, "a failed add must leave no partial entry")
}

func TestAddTwiceIsLastWriteWins(t *testing.T) {
	catalog := &fakeCatalog{movies: map[int64]browse.MovieSummary{
		7: {ID: 7, Title: "Se7en", Year: 1995},
	}}
	svc, st := newTestService(t, catalog)
	ctx := context.Background()

	_, err := svc.Add(ctx, 7, "planned")
	require.NoError(t, err)
	_, err = svc.Add(ctx, 7, "watched")
	require.NoError(t, err)

	stored, err := st.GetEntry(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "watched", stored.Status)
	assert.Equal(t, 2, catalog.calls)
}

func TestIsMemberDelegatesToStore(t *testing.T) {
	catalog := &fakeCatalog{movies: map[int64]browse.MovieSummary{
		1: {ID: 1, Title: "x"},
	}}
	svc, _ := newTestService(t, catalog)
	ctx := context.Background()

	member, err := svc.IsMember(ctx, 1)
	require.NoError(t, err)
	assert.False(t, member)

	_, err = svc.Add(ctx, 1, "planned")
	require.NoError(t, err)

	member, err = svc.IsMember(ctx, 1)
	require.NoError(t, err)
	assert.True(t, member)
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, "watched", NormalizeStatus("watched"))
	assert.Equal(t, "watched", NormalizeStatus("  Watched "))
	assert.Equal(t, "planned", NormalizeStatus("planned"))
	assert.Equal(t, "planned", NormalizeStatus(""))
	assert.Equal(t, "planned", NormalizeStatus("whatever"))
}

func TestEntryFromSummaryHandlesMissingFields(t *testing.T) {
	entry := EntryFromSummary(&browse.MovieSummary{ID: 5, Title: "Untitled"}, "planned")

	assert.False(t, entry.Year.Valid)
	assert.False(t, entry.PosterPath.Valid)
	assert.Equal(t, "planned", entry.Status)
}
