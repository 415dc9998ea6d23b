package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moviedesk/moviedesk/internal/store"
)

func (h *Handler) getReviews(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := idParam(r, "id")
	if err != nil {
		return notFound("not found")
	}

	reviews, err := h.store.ListReviews(ctx, id)
	if err != nil {
		return internal(err)
	}

	out := make([]ReviewPayload, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewPayload(&reviews[i]))
	}
	writeJSON(w, http.StatusOK, &ReviewsResponse{Reviews: out})
	return nil
}

func (h *Handler) postReview(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := idParam(r, "id")
	if err != nil {
		return notFound("not found")
	}

	var req ReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("bad request")
	}
	if req.Rating < 1 || req.Rating > 10 {
		return badRequest("rating must be 1-10")
	}

	review := store.Review{
		ID:      uuid.NewString(),
		MovieID: id,
		Rating:  req.Rating,
		Body:    reviewBody(req.Body),
	}
	if err := h.store.CreateReview(ctx, &review); err != nil {
		return internal(err)
	}

	stored, err := h.store.GetReview(ctx, review.ID)
	if err != nil {
		return internal(err)
	}
	writeJSON(w, http.StatusOK, toReviewPayload(&stored))
	return nil
}

func (h *Handler) putReview(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		return notFound("not found")
	}

	var req ReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("bad request")
	}
	if req.Rating < 1 || req.Rating > 10 {
		return badRequest("rating must be 1-10")
	}

	if err := h.store.UpdateReview(ctx, id, req.Rating, reviewBody(req.Body)); err != nil {
		if isNoRows(err) {
			return notFound("not found")
		}
		return internal(err)
	}

	stored, err := h.store.GetReview(ctx, id)
	if err != nil {
		return internal(err)
	}
	writeJSON(w, http.StatusOK, toReviewPayload(&stored))
	return nil
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		return notFound("not found")
	}

	if err := h.store.DeleteReview(ctx, id); err != nil {
		if isNoRows(err) {
			return notFound("not found")
		}
		return internal(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func reviewBody(val *string) sql.Null[string] {
	if val == nil || strings.TrimSpace(*val) == "" {
		return sql.Null[string]{}
	}
	return sql.Null[string]{Valid: true, V: strings.TrimSpace(*val)}
}
