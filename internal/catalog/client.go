// Package catalog wraps the remote movie catalog API: compiled searches,
// per-movie details, and the genre list.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/moviedesk/moviedesk/internal/browse"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type searchResponse struct {
	Page         int `json:"page"`
	TotalPages   int `json:"totalPages"`
	TotalResults int `json:"totalResults"`
	Results      []movieResponse `json:"results"`
}

type movieResponse struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Year       int      `json:"year"`
	Score      float64  `json:"score"`
	Rating     float64  `json:"rating"`
	VoteCount  int      `json:"voteCount"`
	Runtime    int      `json:"runtime"`
	Genres     []string `json:"genres"`
	Overview   string   `json:"overview"`
	PosterPath string   `json:"posterPath"`
	Popularity float64  `json:"popularity"`
}

type genresResponse struct {
	Genres []Genre `json:"genres"`
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Search executes a compiled search request. Only fields present on the
// request become query parameters; an omitted field leaves the remote query
// unconstrained.
func (c *Client) Search(ctx context.Context, req browse.SearchRequest) (browse.SearchResultPage, error) {
	values := url.Values{}
	setString(values, "query", req.Query)
	setString(values, "overview", req.Overview)
	if len(req.Genres) > 0 {
		values.Set("genres", strings.Join(req.Genres, ","))
	}
	setFloat(values, "min_score", req.MinScore)
	setFloat(values, "max_score", req.MaxScore)
	setFloat(values, "min_rating", req.MinRating)
	setFloat(values, "max_rating", req.MaxRating)
	setInt(values, "min_votes", req.MinVotes)
	setInt(values, "min_year", req.MinYear)
	setInt(values, "max_year", req.MaxYear)
	setInt(values, "min_runtime", req.MinRuntime)
	setInt(values, "max_runtime", req.MaxRuntime)
	setBool(values, "popular", req.Popular)
	setBool(values, "top_rated", req.TopRated)
	setBool(values, "new_releases", req.NewReleases)
	setBool(values, "include_foreign", req.IncludeForeign)
	setString(values, "sort_by", req.SortBy)
	setString(values, "sort_dir", req.SortDir)
	values.Set("page", strconv.Itoa(req.Page))
	values.Set("size", strconv.Itoa(req.Size))

	endpoint := c.baseURL + "/v1/movies/search?" + values.Encode()

	var payload searchResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return browse.SearchResultPage{}, err
	}

	out := make([]browse.MovieSummary, 0, len(payload.Results))
	for i := range payload.Results {
		out = append(out, summaryFromResponse(&payload.Results[i]))
	}
	return browse.SearchResultPage{
		Results:      out,
		Page:         payload.Page,
		TotalPages:   payload.TotalPages,
		TotalResults: payload.TotalResults,
	}, nil
}

// FetchDetails returns the full summary for one movie.
func (c *Client) FetchDetails(ctx context.Context, movieID int64) (browse.MovieSummary, error) {
	if movieID <= 0 {
		return browse.MovieSummary{}, errors.New("invalid movie id")
	}
	endpoint := fmt.Sprintf("%s/v1/movies/%d", c.baseURL, movieID)

	var payload movieResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return browse.MovieSummary{}, err
	}
	return summaryFromResponse(&payload), nil
}

// FetchGenres returns the catalog's genre list for filter pickers.
func (c *Client) FetchGenres(ctx context.Context) ([]Genre, error) {
	var payload genresResponse
	if err := c.getJSON(ctx, c.baseURL+"/v1/genres", &payload); err != nil {
		return nil, err
	}

	out := make([]Genre, 0, len(payload.Genres))
	for _, g := range payload.Genres {
		if strings.TrimSpace(g.Name) == "" {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	c.applyAuth(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		statusErr := fmt.Errorf("catalog request failed: %s", resp.Status)
		if cerr := resp.Body.Close(); cerr != nil {
			return errors.Join(statusErr, cerr)
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			return errors.Join(err, cerr)
		}
		return err
	}
	return resp.Body.Close()
}

func (c *Client) applyAuth(req *http.Request) {
	if strings.TrimSpace(c.token) == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.token))
}

func summaryFromResponse(r *movieResponse) browse.MovieSummary {
	return browse.MovieSummary{
		ID:         r.ID,
		Title:      r.Title,
		Year:       r.Year,
		Score:      r.Score,
		Rating:     r.Rating,
		VoteCount:  r.VoteCount,
		Runtime:    r.Runtime,
		Genres:     r.Genres,
		Overview:   r.Overview,
		PosterPath: r.PosterPath,
		Popularity: r.Popularity,
	}
}

func setString(values url.Values, key string, val *string) {
	if val == nil {
		return
	}
	values.Set(key, *val)
}

func setInt(values url.Values, key string, val *int) {
	if val == nil {
		return
	}
	values.Set(key, strconv.Itoa(*val))
}

func setFloat(values url.Values, key string, val *float64) {
	if val == nil {
		return
	}
	values.Set(key, strconv.FormatFloat(*val, 'f', -1, 64))
}

func setBool(values url.Values, key string, val *bool) {
	if val == nil {
		return
	}
	values.Set(key, strconv.FormatBool(*val))
}
