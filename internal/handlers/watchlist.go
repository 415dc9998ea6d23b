package handlers

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/moviedesk/moviedesk/internal/browse"
	"github.com/moviedesk/moviedesk/internal/store"
	"github.com/moviedesk/moviedesk/internal/watchlist"
)

func (h *Handler) getWatchlist(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	entries, err := h.store.ListEntries(ctx, store.ListFilters{
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		Sort:   strings.TrimSpace(r.URL.Query().Get("sort")),
	})
	if err != nil {
		h.log.Warn("list watchlist failed", slog.Any("err", err))
		return internal(err)
	}

	out := make([]WatchlistEntryPayload, 0, len(entries))
	for i := range entries {
		out = append(out, toEntryPayload(&entries[i]))
	}
	writeJSON(w, http.StatusOK, &WatchlistResponse{Entries: out})
	return nil
}

func (h *Handler) postWatchlist(w http.ResponseWriter, r *http.Request) error {
	var req AddWatchlistRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("bad request")
	}
	if req.MovieID <= 0 {
		return badRequest("movieId required")
	}

	sess := h.browseSession(w, r)
	entry, err := sess.Overlay().Add(detachedCtx(r), req.MovieID, req.Status)
	switch {
	case errors.Is(err, browse.ErrNotAuthenticated):
		return &Error{Status: http.StatusUnauthorized, Message: "login required", Redirect: "/login"}
	case errors.Is(err, browse.ErrAddInFlight):
		// Already requested; send the client to the detail view instead of
		// issuing a second write.
		return &Error{
			Status:   http.StatusConflict,
			Message:  "add already requested",
			Redirect: fmt.Sprintf("/movies/%d", req.MovieID),
		}
	case err != nil:
		h.log.Warn("watchlist add failed", slog.Int64("movie_id", req.MovieID), slog.Any("err", err))
		return badGateway(err)
	}

	writeJSON(w, http.StatusOK, entry)
	return nil
}

func (h *Handler) postWatchlistStatus(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := idParam(r, "id")
	if err != nil {
		return notFound("not found")
	}

	var req StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("bad request")
	}

	if err := h.store.UpdateStatus(ctx, id, watchlist.NormalizeStatus(req.Status)); err != nil {
		if isNoRows(err) {
			return notFound("not found")
		}
		return internal(err)
	}

	entry, err := h.store.GetEntry(ctx, id)
	if err != nil {
		return internal(err)
	}
	writeJSON(w, http.StatusOK, toEntryPayload(&entry))
	return nil
}

func (h *Handler) deleteWatchlist(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := idParam(r, "id")
	if err != nil {
		return notFound("not found")
	}

	if err := h.store.DeleteEntry(ctx, id); err != nil {
		if isNoRows(err) {
			return notFound("not found")
		}
		return internal(err)
	}

	// Only the caller's cached status is dropped; other sessions converge on
	// their next lookup (last write wins).
	h.browseSession(w, r).Overlay().Forget(id)

	w.WriteHeader(http.StatusNoContent)
	return nil
}

var csvHeader = []string{"movie_id", "title", "year", "status", "note"}

func (h *Handler) getWatchlistExport(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	entries, err := h.store.ListEntries(ctx, store.ListFilters{Status: "all"})
	if err != nil {
		return internal(err)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=watchlist.csv")

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return internal(err)
	}
	for i := range entries {
		e := &entries[i]
		year := ""
		if e.Year.Valid {
			year = strconv.FormatInt(e.Year.V, 10)
		}
		note := ""
		if e.Note.Valid {
			note = e.Note.V
		}
		record := []string{
			strconv.FormatInt(e.MovieID, 10),
			e.Title,
			year,
			e.Status,
			note,
		}
		if err := cw.Write(record); err != nil {
			return internal(err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.log.Warn("csv export write failed", slog.Any("err", err))
	}
	return nil
}

func (h *Handler) postWatchlistImport(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	cr := csv.NewReader(r.Body)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil || !equalHeader(header, csvHeader) {
		return badRequest("expected csv header: " + strings.Join(csvHeader, ","))
	}

	imported := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return badRequest("malformed csv: " + err.Error())
		}

		entry, err := entryFromRecord(record)
		if err != nil {
			return badRequest(err.Error())
		}
		if err := h.store.UpsertEntry(ctx, &entry); err != nil {
			return internal(err)
		}
		imported++
	}

	writeJSON(w, http.StatusOK, &ImportResponse{Imported: imported})
	return nil
}

func entryFromRecord(record []string) (store.Entry, error) {
	movieID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil || movieID <= 0 {
		return store.Entry{}, errors.New("bad movie_id: " + record[0])
	}
	title := strings.TrimSpace(record[1])
	if title == "" {
		return store.Entry{}, errors.New("missing title for movie " + record[0])
	}

	var year sql.Null[int64]
	if raw := strings.TrimSpace(record[2]); raw != "" {
		y, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return store.Entry{}, errors.New("bad year: " + raw)
		}
		year = sql.Null[int64]{Valid: true, V: y}
	}

	var note sql.Null[string]
	if raw := strings.TrimSpace(record[4]); raw != "" {
		note = sql.Null[string]{Valid: true, V: raw}
	}

	return store.Entry{
		MovieID: movieID,
		Title:   title,
		Year:    year,
		Status:  watchlist.NormalizeStatus(record[3]),
		Note:    note,
	}, nil
}

func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return false
		}
	}
	return true
}
