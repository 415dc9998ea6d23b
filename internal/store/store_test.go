package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestOpenIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repeat.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// A second open against the same file must tolerate the existing schema.
	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestUpsertEntryInsertsAndRefreshes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entry := Entry{
		MovieID: 603,
		Title:   "The Matrix",
		Year:    sql.Null[int64]{Valid: true, V: 1999},
		Status:  "planned",
	}
	require.NoError(t, s.UpsertEntry(ctx, &entry))

	got, err := s.GetEntry(ctx, 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", got.Title)
	assert.Equal(t, "planned", got.Status)
	require.True(t, got.Year.Valid)
	assert.Equal(t, int64(1999), got.Year.V)

	// Re-adding the same movie refreshes the snapshot instead of failing.
	entry.Title = "The Matrix (1999)"
	entry.Status = "watched"
	require.NoError(t, s.UpsertEntry(ctx, &entry))

	got, err = s.GetEntry(ctx, 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix (1999)", got.Title)
	assert.Equal(t, "watched", got.Status)
}

func TestUpsertEntryNoteFollowsLastWriter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertEntry(ctx, &Entry{MovieID: 1, Title: "a", Status: "planned"}))

	withNote := Entry{
		MovieID: 1,
		Title:   "a",
		Status:  "watched",
		Note:    sql.Null[string]{Valid: true, V: "imported note"},
	}
	require.NoError(t, s.UpsertEntry(ctx, &withNote))

	got, err := s.GetEntry(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "watched", got.Status)
	require.True(t, got.Note.Valid)
	assert.Equal(t, "imported note", got.Note.V)

	// A later write without a note refreshes the snapshot but keeps it.
	require.NoError(t, s.UpsertEntry(ctx, &Entry{MovieID: 1, Title: "a2", Status: "planned"}))

	got, err = s.GetEntry(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a2", got.Title)
	require.True(t, got.Note.Valid)
	assert.Equal(t, "imported note", got.Note.V)
}

func TestIsMember(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	member, err := s.IsMember(ctx, 42)
	require.NoError(t, err)
	assert.False(t, member)

	require.NoError(t, s.UpsertEntry(ctx, &Entry{MovieID: 42, Title: "x", Status: "planned"}))

	member, err = s.IsMember(ctx, 42)
	require.NoError(t, err)
	assert.True(t, member)
}

func TestUpdateStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.ErrorIs(t, s.UpdateStatus(ctx, 1, "watched"), sql.ErrNoRows)

	require.NoError(t, s.UpsertEntry(ctx, &Entry{MovieID: 1, Title: "a", Status: "planned"}))
	require.NoError(t, s.UpdateStatus(ctx, 1, "watched"))

	got, err := s.GetEntry(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "watched", got.Status)
}

func TestDeleteEntry(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.ErrorIs(t, s.DeleteEntry(ctx, 9), sql.ErrNoRows)

	require.NoError(t, s.UpsertEntry(ctx, &Entry{MovieID: 9, Title: "gone", Status: "planned"}))
	require.NoError(t, s.DeleteEntry(ctx, 9))

	member, err := s.IsMember(ctx, 9)
	require.NoError(t, err)
	assert.False(t, member)
}

func TestListEntriesFiltersAndSorts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed := []Entry{
		{MovieID: 1, Title: "zulu", Year: sql.Null[int64]{Valid: true, V: 1964}, Status: "watched"},
		{MovieID: 2, Title: "Alien", Year: sql.Null[int64]{Valid: true, V: 1979}, Status: "planned"},
		{MovieID: 3, Title: "brazil", Year: sql.Null[int64]{Valid: true, V: 1985}, Status: "planned"},
	}
	for i := range seed {
		require.NoError(t, s.UpsertEntry(ctx, &seed[i]))
	}

	all, err := s.ListEntries(ctx, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	planned, err := s.ListEntries(ctx, ListFilters{Status: "planned"})
	require.NoError(t, err)
	require.Len(t, planned, 2)
	for _, e := range planned {
		assert.Equal(t, "planned", e.Status)
	}

	byTitle, err := s.ListEntries(ctx, ListFilters{Sort: "title"})
	require.NoError(t, err)
	require.Len(t, byTitle, 3)
	assert.Equal(t, "Alien", byTitle[0].Title)
	assert.Equal(t, "brazil", byTitle[1].Title)
	assert.Equal(t, "zulu", byTitle[2].Title)

	byYear, err := s.ListEntries(ctx, ListFilters{Sort: "year"})
	require.NoError(t, err)
	require.Len(t, byYear, 3)
	assert.Equal(t, int64(1985), byYear[0].Year.V)
	assert.Equal(t, int64(1964), byYear[2].Year.V)
}

func TestReviewCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rv := Review{
		ID:      "rev-1",
		MovieID: 603,
		Rating:  9,
		Body:    sql.Null[string]{Valid: true, V: "still holds up"},
	}
	require.NoError(t, s.CreateReview(ctx, &rv))
	require.NoError(t, s.CreateReview(ctx, &Review{ID: "rev-2", MovieID: 603, Rating: 6}))
	require.NoError(t, s.CreateReview(ctx, &Review{ID: "rev-3", MovieID: 100, Rating: 7}))

	got, err := s.GetReview(ctx, "rev-1")
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.Rating)
	require.True(t, got.Body.Valid)
	assert.Equal(t, "still holds up", got.Body.V)

	list, err := s.ListReviews(ctx, 603)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.UpdateReview(ctx, "rev-1", 8, sql.Null[string]{}))
	got, err = s.GetReview(ctx, "rev-1")
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.Rating)
	assert.False(t, got.Body.Valid)

	require.ErrorIs(t, s.UpdateReview(ctx, "missing", 5, sql.Null[string]{}), sql.ErrNoRows)

	require.NoError(t, s.DeleteReview(ctx, "rev-1"))
	require.ErrorIs(t, s.DeleteReview(ctx, "rev-1"), sql.ErrNoRows)

	list, err = s.ListReviews(ctx, 603)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
