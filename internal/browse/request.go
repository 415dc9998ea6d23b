package browse

// SearchRequest is the canonical payload sent to the search service. Every
// field except Page and Size is optional and present only when the filter it
// mirrors departs from its neutral default, so the remote query stays
// unconstrained wherever the user made no choice.
type SearchRequest struct {
	Query    *string  `json:"query,omitempty"`
	Overview *string  `json:"overview,omitempty"`
	Genres   []string `json:"genres,omitempty"`

	MinScore  *float64 `json:"minScore,omitempty"`
	MaxScore  *float64 `json:"maxScore,omitempty"`
	MinRating *float64 `json:"minRating,omitempty"`
	MaxRating *float64 `json:"maxRating,omitempty"`
	MinVotes  *int     `json:"minVotes,omitempty"`

	MinYear    *int `json:"minYear,omitempty"`
	MaxYear    *int `json:"maxYear,omitempty"`
	MinRuntime *int `json:"minRuntime,omitempty"`
	MaxRuntime *int `json:"maxRuntime,omitempty"`

	Popular        *bool `json:"popular,omitempty"`
	TopRated       *bool `json:"topRated,omitempty"`
	NewReleases    *bool `json:"newReleases,omitempty"`
	IncludeForeign *bool `json:"includeForeign,omitempty"`

	SortBy  *string `json:"sortBy,omitempty"`
	SortDir *string `json:"sortDirection,omitempty"`

	Page int `json:"page"`
	Size int `json:"size"`
}

// Compile turns a FilterState into its canonical SearchRequest. Pure and
// deterministic: the same state always yields the same request. Each range
// bound is compared against its own default independently, so raising
// MinYear does not drag a defaulted MaxYear into the request.
//
// A request that constrains anything also pins the sort order, even when the
// sort selection equals the default; an unconstrained request carries only
// page and size.
func Compile(f FilterState) SearchRequest {
	req := SearchRequest{Page: f.Page, Size: f.Size}

	if f.Query != "" {
		req.Query = ptr(f.Query)
	}
	if f.Overview != "" {
		req.Overview = ptr(f.Overview)
	}
	if len(f.Genres) > 0 {
		req.Genres = append([]string(nil), f.Genres...)
	}

	if f.MinScore != DefaultMinScore {
		req.MinScore = ptr(f.MinScore)
	}
	if f.MaxScore != DefaultMaxScore {
		req.MaxScore = ptr(f.MaxScore)
	}
	if f.MinRating != DefaultMinRating {
		req.MinRating = ptr(f.MinRating)
	}
	if f.MaxRating != DefaultMaxRating {
		req.MaxRating = ptr(f.MaxRating)
	}
	if f.MinVotes != DefaultMinVotes {
		req.MinVotes = ptr(f.MinVotes)
	}

	if f.MinYear != DefaultMinYear {
		req.MinYear = ptr(f.MinYear)
	}
	if f.MaxYear != DefaultMaxYear {
		req.MaxYear = ptr(f.MaxYear)
	}
	if f.MinRuntime != DefaultMinRuntime {
		req.MinRuntime = ptr(f.MinRuntime)
	}
	if f.MaxRuntime != DefaultMaxRuntime {
		req.MaxRuntime = ptr(f.MaxRuntime)
	}

	if f.Popular {
		req.Popular = ptr(true)
	}
	if f.TopRated {
		req.TopRated = ptr(true)
	}
	if f.NewReleases {
		req.NewReleases = ptr(true)
	}
	if !f.IncludeForeign {
		req.IncludeForeign = ptr(false)
	}

	if f.SortBy != DefaultSortBy || f.SortDir != DefaultSortDir || req.constrained() {
		sortBy := f.SortBy
		if sortBy == "" {
			sortBy = DefaultSortBy
		}
		sortDir := f.SortDir
		if sortDir == "" {
			sortDir = DefaultSortDir
		}
		req.SortBy = ptr(sortBy)
		req.SortDir = ptr(sortDir)
	}

	return req
}

func (r SearchRequest) constrained() bool {
	return r.Query != nil ||
		r.Overview != nil ||
		len(r.Genres) > 0 ||
		r.MinScore != nil || r.MaxScore != nil ||
		r.MinRating != nil || r.MaxRating != nil ||
		r.MinVotes != nil ||
		r.MinYear != nil || r.MaxYear != nil ||
		r.MinRuntime != nil || r.MaxRuntime != nil ||
		r.Popular != nil || r.TopRated != nil || r.NewReleases != nil ||
		r.IncludeForeign != nil
}

// popularRequest is the implicit request issued on first activation and
// after a filter reset, bypassing the (all-default) filter state.
func popularRequest(size int) SearchRequest {
	if size <= 0 {
		size = DefaultPageSize
	}
	return SearchRequest{
		Popular: ptr(true),
		SortBy:  ptr(DefaultSortBy),
		SortDir: ptr(DefaultSortDir),
		Page:    0,
		Size:    size,
	}
}

func ptr[T any](v T) *T { return &v }
