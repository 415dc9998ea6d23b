// Package browse implements the catalog browsing core: the filter state and
// its canonical search request, the search lifecycle with stale-response
// protection, the per-movie watchlist status overlay, and paging.
package browse

// Neutral defaults. A filter field at its default means "no constraint" and
// is omitted from the compiled request entirely.
const (
	DefaultMinScore   = 0.0
	DefaultMaxScore   = 10.0
	DefaultMinRating  = 0.0
	DefaultMaxRating  = 10.0
	DefaultMinVotes   = 0
	DefaultMinYear    = 1990
	DefaultMaxYear    = 2025
	DefaultMinRuntime = 0
	DefaultMaxRuntime = 300

	DefaultSortBy   = "popularity"
	DefaultSortDir  = "desc"
	DefaultPageSize = 20
)

// FilterState holds the user's current search selections. It is owned by a
// single Session and mutated only through Session methods.
type FilterState struct {
	Query    string
	Overview string
	Genres   []string

	MinScore  float64
	MaxScore  float64
	MinRating float64
	MaxRating float64
	MinVotes  int

	MinYear    int
	MaxYear    int
	MinRuntime int
	MaxRuntime int

	Popular        bool
	TopRated       bool
	NewReleases    bool
	IncludeForeign bool

	SortBy  string
	SortDir string

	Page int
	Size int
}

func DefaultFilters() FilterState {
	return FilterState{
		MinScore:       DefaultMinScore,
		MaxScore:       DefaultMaxScore,
		MinRating:      DefaultMinRating,
		MaxRating:      DefaultMaxRating,
		MinVotes:       DefaultMinVotes,
		MinYear:        DefaultMinYear,
		MaxYear:        DefaultMaxYear,
		MinRuntime:     DefaultMinRuntime,
		MaxRuntime:     DefaultMaxRuntime,
		IncludeForeign: true,
		SortBy:         DefaultSortBy,
		SortDir:        DefaultSortDir,
		Page:           0,
		Size:           DefaultPageSize,
	}
}

// Clone returns a copy that shares no slices with the receiver.
func (f FilterState) Clone() FilterState {
	out := f
	if len(f.Genres) > 0 {
		out.Genres = append([]string(nil), f.Genres...)
	}
	return out
}
