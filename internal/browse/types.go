package browse

import (
	"context"
	"time"
)

// MovieSummary is the read-only projection of a movie as returned by the
// search service. The browse core never mutates one.
type MovieSummary struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Year       int      `json:"year"`
	Score      float64  `json:"score"`
	Rating     float64  `json:"rating"`
	VoteCount  int      `json:"voteCount"`
	Runtime    int      `json:"runtime"`
	Genres     []string `json:"genres,omitempty"`
	Overview   string   `json:"overview,omitempty"`
	PosterPath string   `json:"posterPath,omitempty"`
	Popularity float64  `json:"popularity"`
}

// SearchResultPage is one page of search results in server order. Pages are
// replaced wholesale on every successful search, never merged.
type SearchResultPage struct {
	Results      []MovieSummary
	Page         int
	TotalPages   int
	TotalResults int
	Took         time.Duration
}

// WatchlistEntry is the watchlist service's view of a saved movie.
type WatchlistEntry struct {
	MovieID int64  `json:"movieId"`
	Title   string `json:"title"`
	Status  string `json:"status"`
}

// SearchService executes a compiled search request against the catalog.
type SearchService interface {
	Search(ctx context.Context, req SearchRequest) (SearchResultPage, error)
}

// WatchlistService answers membership questions and accepts adds.
type WatchlistService interface {
	IsMember(ctx context.Context, movieID int64) (bool, error)
	Add(ctx context.Context, movieID int64, initialStatus string) (WatchlistEntry, error)
}

// SessionProvider reports whether the current actor is authenticated. It is
// queried at the point of each action, never cached by the browse core.
type SessionProvider interface {
	IsAuthenticated(ctx context.Context) bool
}
