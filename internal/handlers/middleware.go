package handlers

import (
	"context"
	"net/http"
)

type ctxKey int

const authCtxKey ctxKey = iota

// MiddlewareSession resolves the auth cookie once per request and stores the
// result on the context, where the browse core's session provider reads it
// at the point of each action.
func (h *Handler) MiddlewareSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), authCtxKey, h.isAuthenticated(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) MiddlewareRequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authedFromContext(r.Context()) {
			writeJSON(w, http.StatusUnauthorized, &ErrorResponse{Error: "unauthorized", Redirect: "/login"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func authedFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(authCtxKey).(bool)
	return v
}

// ctxSessionProvider implements browse.SessionProvider from the per-request
// auth flag.
type ctxSessionProvider struct{}

func (ctxSessionProvider) IsAuthenticated(ctx context.Context) bool {
	return authedFromContext(ctx)
}
