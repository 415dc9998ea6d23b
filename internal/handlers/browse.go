package handlers

import (
	"net/http"
	"strings"

	"github.com/moviedesk/moviedesk/internal/browse"
)

func (h *Handler) getBrowse(w http.ResponseWriter, r *http.Request) error {
	sess := h.browseSession(w, r)
	writeJSON(w, http.StatusOK, toBrowseResponse(sess.View()))
	return nil
}

func (h *Handler) postBrowseFilters(w http.ResponseWriter, r *http.Request) error {
	sess := h.browseSession(w, r)

	var req FiltersRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("bad request")
	}

	filters, err := filtersFromRequest(&req)
	if err != nil {
		return badRequest(err.Error())
	}

	sess.SetFilters(detachedCtx(r), filters)
	writeJSON(w, http.StatusOK, toBrowseResponse(sess.View()))
	return nil
}

func (h *Handler) postBrowseNext(w http.ResponseWriter, r *http.Request) error {
	sess := h.browseSession(w, r)
	sess.NextPage(detachedCtx(r))
	writeJSON(w, http.StatusOK, toBrowseResponse(sess.View()))
	return nil
}

func (h *Handler) postBrowsePrev(w http.ResponseWriter, r *http.Request) error {
	sess := h.browseSession(w, r)
	sess.PrevPage(detachedCtx(r))
	writeJSON(w, http.StatusOK, toBrowseResponse(sess.View()))
	return nil
}

func (h *Handler) postBrowsePageSize(w http.ResponseWriter, r *http.Request) error {
	sess := h.browseSession(w, r)

	var req PageSizeRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("bad request")
	}
	if !sess.SetPageSize(detachedCtx(r), req.Size) {
		return badRequest("invalid page size")
	}

	writeJSON(w, http.StatusOK, toBrowseResponse(sess.View()))
	return nil
}

func (h *Handler) postBrowseClear(w http.ResponseWriter, r *http.Request) error {
	sess := h.browseSession(w, r)
	sess.ClearFilters(detachedCtx(r))
	writeJSON(w, http.StatusOK, toBrowseResponse(sess.View()))
	return nil
}

// filtersFromRequest lays the provided fields over the neutral defaults and
// validates what the UI is supposed to have enforced.
func filtersFromRequest(req *FiltersRequest) (browse.FilterState, error) {
	f := browse.DefaultFilters()

	if req.Query != nil {
		f.Query = strings.TrimSpace(*req.Query)
	}
	if req.Overview != nil {
		f.Overview = strings.TrimSpace(*req.Overview)
	}
	for _, g := range req.Genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		f.Genres = append(f.Genres, g)
	}

	if req.MinScore != nil {
		f.MinScore = *req.MinScore
	}
	if req.MaxScore != nil {
		f.MaxScore = *req.MaxScore
	}
	if req.MinRating != nil {
		f.MinRating = *req.MinRating
	}
	if req.MaxRating != nil {
		f.MaxRating = *req.MaxRating
	}
	if req.MinVotes != nil {
		f.MinVotes = *req.MinVotes
	}
	if req.MinYear != nil {
		f.MinYear = *req.MinYear
	}
	if req.MaxYear != nil {
		f.MaxYear = *req.MaxYear
	}
	if req.MinRuntime != nil {
		f.MinRuntime = *req.MinRuntime
	}
	if req.MaxRuntime != nil {
		f.MaxRuntime = *req.MaxRuntime
	}

	if req.Popular != nil {
		f.Popular = *req.Popular
	}
	if req.TopRated != nil {
		f.TopRated = *req.TopRated
	}
	if req.NewReleases != nil {
		f.NewReleases = *req.NewReleases
	}
	if req.IncludeForeign != nil {
		f.IncludeForeign = *req.IncludeForeign
	}

	if req.SortBy != nil && strings.TrimSpace(*req.SortBy) != "" {
		f.SortBy = strings.TrimSpace(*req.SortBy)
	}
	if req.SortDir != nil {
		switch strings.TrimSpace(*req.SortDir) {
		case "asc", "desc":
			f.SortDir = strings.TrimSpace(*req.SortDir)
		case "":
		default:
			return browse.FilterState{}, errInvalidRange("sortDirection")
		}
	}

	switch {
	case f.MinScore > f.MaxScore:
		return browse.FilterState{}, errInvalidRange("score")
	case f.MinRating > f.MaxRating:
		return browse.FilterState{}, errInvalidRange("rating")
	case f.MinYear > f.MaxYear:
		return browse.FilterState{}, errInvalidRange("year")
	case f.MinRuntime > f.MaxRuntime:
		return browse.FilterState{}, errInvalidRange("runtime")
	}
	return f, nil
}

type rangeError string

func (e rangeError) Error() string { return "invalid " + string(e) + " range" }

func errInvalidRange(name string) error { return rangeError(name) }

func toBrowseResponse(v browse.View) *BrowseResponse {
	results := make([]BrowseResult, 0, len(v.Results))
	for _, m := range v.Results {
		status := v.Statuses[m.ID]
		results = append(results, BrowseResult{
			MovieSummary:    m,
			InWatchlist:     status.InWatchlist(),
			WatchlistStatus: status.String(),
		})
	}
	return &BrowseResponse{
		Results:      results,
		Page:         v.Page,
		Size:         v.Size,
		TotalPages:   v.TotalPages,
		TotalResults: v.TotalResults,
		Searching:    v.Searching,
		Error:        v.Err,
		TookMS:       v.Took.Milliseconds(),
	}
}
