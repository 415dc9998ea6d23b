package handlers

import (
	"github.com/moviedesk/moviedesk/internal/browse"
	"github.com/moviedesk/moviedesk/internal/store"
)

type ErrorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

// FiltersRequest carries the complete filter selection; an absent field
// means the neutral default.
type FiltersRequest struct {
	Query    *string  `json:"query"`
	Overview *string  `json:"overview"`
	Genres   []string `json:"genres"`

	MinScore  *float64 `json:"minScore"`
	MaxScore  *float64 `json:"maxScore"`
	MinRating *float64 `json:"minRating"`
	MaxRating *float64 `json:"maxRating"`
	MinVotes  *int     `json:"minVotes"`

	MinYear    *int `json:"minYear"`
	MaxYear    *int `json:"maxYear"`
	MinRuntime *int `json:"minRuntime"`
	MaxRuntime *int `json:"maxRuntime"`

	Popular        *bool `json:"popular"`
	TopRated       *bool `json:"topRated"`
	NewReleases    *bool `json:"newReleases"`
	IncludeForeign *bool `json:"includeForeign"`

	SortBy  *string `json:"sortBy"`
	SortDir *string `json:"sortDirection"`
}

type PageSizeRequest struct {
	Size int `json:"size"`
}

type BrowseResult struct {
	browse.MovieSummary
	InWatchlist     bool   `json:"inWatchlist"`
	WatchlistStatus string `json:"watchlistStatus"`
}

type BrowseResponse struct {
	Results      []BrowseResult `json:"results"`
	Page         int            `json:"page"`
	Size         int            `json:"size"`
	TotalPages   int            `json:"totalPages"`
	TotalResults int            `json:"totalResults"`
	Searching    bool           `json:"searching"`
	Error        string         `json:"error,omitempty"`
	TookMS       int64          `json:"tookMs"`
}

type AddWatchlistRequest struct {
	MovieID int64  `json:"movieId"`
	Status  string `json:"status"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type WatchlistEntryPayload struct {
	MovieID    int64   `json:"movieId"`
	Title      string  `json:"title"`
	Year       *int64  `json:"year"`
	PosterPath *string `json:"posterPath"`
	Status     string  `json:"status"`
	Note       *string `json:"note"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

type WatchlistResponse struct {
	Entries []WatchlistEntryPayload `json:"entries"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type ReviewRequest struct {
	Rating int64   `json:"rating"`
	Body   *string `json:"body"`
}

type ReviewPayload struct {
	ID        string  `json:"id"`
	MovieID   int64   `json:"movieId"`
	Rating    int64   `json:"rating"`
	Body      *string `json:"body"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

type ReviewsResponse struct {
	Reviews []ReviewPayload `json:"reviews"`
}

type GenresResponse struct {
	Genres []GenrePayload `json:"genres"`
}

type GenrePayload struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func toEntryPayload(e *store.Entry) WatchlistEntryPayload {
	return WatchlistEntryPayload{
		MovieID:    e.MovieID,
		Title:      e.Title,
		Year:       fromSQLNull(e.Year),
		PosterPath: fromSQLNull(e.PosterPath),
		Status:     e.Status,
		Note:       fromSQLNull(e.Note),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func toReviewPayload(rv *store.Review) ReviewPayload {
	return ReviewPayload{
		ID:        rv.ID,
		MovieID:   rv.MovieID,
		Rating:    rv.Rating,
		Body:      fromSQLNull(rv.Body),
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}
}
