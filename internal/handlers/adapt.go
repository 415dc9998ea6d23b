package handlers

import (
	"errors"
	"net/http"
	"strconv"
)

type HandlerWithErr func(w http.ResponseWriter, r *http.Request) error

type Error struct {
	Status   int
	Message  string
	Redirect string
}

func (e Error) Error() string {
	return e.Message + " code=" + strconv.FormatInt(int64(e.Status), 10)
}

func Adapt(h HandlerWithErr) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			var statusErr *Error
			if errors.As(err, &statusErr) {
				writeJSON(w, statusErr.Status, &ErrorResponse{
					Error:    statusErr.Message,
					Redirect: statusErr.Redirect,
				})
				return
			}
			writeJSON(w, http.StatusInternalServerError, &ErrorResponse{Error: err.Error()})
		}
	})
}
