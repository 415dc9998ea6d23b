package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/moviedesk/moviedesk/internal/catalog"
)

func (h *Handler) getGenres(w http.ResponseWriter, r *http.Request) error {
	genres, err := h.fetchGenreList(r.Context())
	if err != nil {
		return badGateway(err)
	}

	out := make([]GenrePayload, 0, len(genres))
	for _, g := range genres {
		out = append(out, GenrePayload{ID: g.ID, Name: g.Name})
	}
	writeJSON(w, http.StatusOK, &GenresResponse{Genres: out})
	return nil
}

func (h *Handler) fetchGenreList(ctx context.Context) ([]catalog.Genre, error) {
	const cacheTTL = 24 * time.Hour

	h.genres.mu.RLock()
	if h.genres.items != nil && time.Since(h.genres.fetchedAt) < cacheTTL {
		cached := append([]catalog.Genre(nil), h.genres.items...)
		h.genres.mu.RUnlock()
		return cached, nil
	}
	h.genres.mu.RUnlock()

	// The refresh runs under the write lock so concurrent misses wait for
	// one upstream call instead of fanning out their own.
	h.genres.mu.Lock()
	defer h.genres.mu.Unlock()
	if h.genres.items != nil && time.Since(h.genres.fetchedAt) < cacheTTL {
		return append([]catalog.Genre(nil), h.genres.items...), nil
	}

	genres, err := h.catalog.FetchGenres(ctx)
	if err != nil {
		return nil, err
	}

	h.genres.items = append([]catalog.Genre(nil), genres...)
	h.genres.fetchedAt = time.Now()
	return append([]catalog.Genre(nil), genres...), nil
}
