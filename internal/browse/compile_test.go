package browse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileDefaultsCarryOnlyPaging(t *testing.T) {
	req := Compile(DefaultFilters())

	assert.Equal(t, 0, req.Page)
	assert.Equal(t, DefaultPageSize, req.Size)

	assert.Nil(t, req.Query)
	assert.Nil(t, req.Overview)
	assert.Empty(t, req.Genres)
	assert.Nil(t, req.MinScore)
	assert.Nil(t, req.MaxScore)
	assert.Nil(t, req.MinRating)
	assert.Nil(t, req.MaxRating)
	assert.Nil(t, req.MinVotes)
	assert.Nil(t, req.MinYear)
	assert.Nil(t, req.MaxYear)
	assert.Nil(t, req.MinRuntime)
	assert.Nil(t, req.MaxRuntime)
	assert.Nil(t, req.Popular)
	assert.Nil(t, req.TopRated)
	assert.Nil(t, req.NewReleases)
	assert.Nil(t, req.IncludeForeign)
	assert.Nil(t, req.SortBy)
	assert.Nil(t, req.SortDir)

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":0,"size":20}`, string(raw))
}

func TestCompileRangeBoundsAreIndependent(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FilterState)
		present func(*testing.T, SearchRequest)
	}{
		{
			name:   "min year raised, max year default",
			mutate: func(f *FilterState) { f.MinYear = 2000 },
			present: func(t *testing.T, req SearchRequest) {
				require.NotNil(t, req.MinYear)
				assert.Equal(t, 2000, *req.MinYear)
				assert.Nil(t, req.MaxYear)
			},
		},
		{
			name:   "max year lowered, min year default",
			mutate: func(f *FilterState) { f.MaxYear = 2010 },
			present: func(t *testing.T, req SearchRequest) {
				require.NotNil(t, req.MaxYear)
				assert.Equal(t, 2010, *req.MaxYear)
				assert.Nil(t, req.MinYear)
			},
		},
		{
			name:   "min score only",
			mutate: func(f *FilterState) { f.MinScore = 6.5 },
			present: func(t *testing.T, req SearchRequest) {
				require.NotNil(t, req.MinScore)
				assert.InDelta(t, 6.5, *req.MinScore, 0)
				assert.Nil(t, req.MaxScore)
			},
		},
		{
			name:   "max runtime only",
			mutate: func(f *FilterState) { f.MaxRuntime = 120 },
			present: func(t *testing.T, req SearchRequest) {
				require.NotNil(t, req.MaxRuntime)
				assert.Equal(t, 120, *req.MaxRuntime)
				assert.Nil(t, req.MinRuntime)
			},
		},
		{
			name:   "external rating bounds both moved",
			mutate: func(f *FilterState) { f.MinRating, f.MaxRating = 3, 8 },
			present: func(t *testing.T, req SearchRequest) {
				require.NotNil(t, req.MinRating)
				require.NotNil(t, req.MaxRating)
				assert.InDelta(t, 3.0, *req.MinRating, 0)
				assert.InDelta(t, 8.0, *req.MaxRating, 0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFilters()
			tt.mutate(&f)
			tt.present(t, Compile(f))
		})
	}
}

func TestCompileConstrainedRequestPinsSort(t *testing.T) {
	f := DefaultFilters()
	f.Genres = []string{"Action", "Drama"}
	f.MinYear = 2000

	req := Compile(f)

	assert.Equal(t, []string{"Action", "Drama"}, req.Genres)
	require.NotNil(t, req.MinYear)
	assert.Equal(t, 2000, *req.MinYear)
	assert.Nil(t, req.MaxYear)
	assert.Nil(t, req.Query)
	assert.Nil(t, req.MinScore)
	assert.Nil(t, req.IncludeForeign)

	require.NotNil(t, req.SortBy)
	require.NotNil(t, req.SortDir)
	assert.Equal(t, "popularity", *req.SortBy)
	assert.Equal(t, "desc", *req.SortDir)
	assert.Equal(t, 0, req.Page)
	assert.Equal(t, 20, req.Size)
}

func TestCompileForeignToggleOnlyWhenDisabled(t *testing.T) {
	f := DefaultFilters()
	assert.Nil(t, Compile(f).IncludeForeign)

	f.IncludeForeign = false
	req := Compile(f)
	require.NotNil(t, req.IncludeForeign)
	assert.False(t, *req.IncludeForeign)
}

func TestCompileSortOnlySelection(t *testing.T) {
	f := DefaultFilters()
	f.SortBy = "year"
	f.SortDir = "asc"

	req := Compile(f)

	require.NotNil(t, req.SortBy)
	require.NotNil(t, req.SortDir)
	assert.Equal(t, "year", *req.SortBy)
	assert.Equal(t, "asc", *req.SortDir)
	assert.False(t, req.constrained())
}

func TestCompileIsDeterministic(t *testing.T) {
	f := DefaultFilters()
	f.Query = "heat"
	f.Genres = []string{"Crime"}
	f.MinVotes = 500
	f.TopRated = true
	f.Page = 3

	first, err := json.Marshal(Compile(f))
	require.NoError(t, err)
	second, err := json.Marshal(Compile(f))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestCompileDoesNotAliasGenres(t *testing.T) {
	f := DefaultFilters()
	f.Genres = []string{"Action"}

	req := Compile(f)
	f.Genres[0] = "Horror"

	assert.Equal(t, []string{"Action"}, req.Genres)
}

func TestPopularRequestShape(t *testing.T) {
	req := popularRequest(20)

	require.NotNil(t, req.Popular)
	assert.True(t, *req.Popular)
	require.NotNil(t, req.SortBy)
	assert.Equal(t, "popularity", *req.SortBy)
	require.NotNil(t, req.SortDir)
	assert.Equal(t, "desc", *req.SortDir)
	assert.Equal(t, 0, req.Page)
	assert.Equal(t, 20, req.Size)

	assert.Nil(t, req.Query)
	assert.Nil(t, req.MinYear)
}
