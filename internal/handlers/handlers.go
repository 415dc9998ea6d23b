// Package handlers wires HTTP routing and API handlers.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moviedesk/moviedesk/internal/browse"
	"github.com/moviedesk/moviedesk/internal/catalog"
	"github.com/moviedesk/moviedesk/internal/store"
)

// Catalog is the slice of the catalog client the handlers need.
type Catalog interface {
	browse.SearchService
	FetchDetails(ctx context.Context, movieID int64) (browse.MovieSummary, error)
	FetchGenres(ctx context.Context) ([]catalog.Genre, error)
}

type Handler struct {
	store     *store.Store
	catalog   Catalog
	watchlist browse.WatchlistService
	password  string
	passHash  string
	log       *slog.Logger

	sessions struct {
		mu   sync.Mutex
		byID map[string]*browse.Session
	}
	genres genreCache
}

type Config struct {
	Store     *store.Store
	Catalog   Catalog
	Watchlist browse.WatchlistService
	Password  string
	Logger    *slog.Logger
}

type genreCache struct {
	mu        sync.RWMutex
	items     []catalog.Genre
	fetchedAt time.Time
}

func New(cfg *Config) (*Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Catalog == nil {
		return nil, errors.New("catalog client is required")
	}
	if cfg.Watchlist == nil {
		return nil, errors.New("watchlist service is required")
	}
	if strings.TrimSpace(cfg.Password) == "" {
		return nil, errors.New("password is required")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := &Handler{
		store:     cfg.Store,
		catalog:   cfg.Catalog,
		watchlist: cfg.Watchlist,
		password:  cfg.Password,
		passHash:  hashPassword(cfg.Password),
		log:       log,
	}
	h.sessions.byID = make(map[string]*browse.Session)
	return h, nil
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Use(h.MiddlewareSession)

	r.Method(http.MethodGet, "/session", Adapt(h.getSession))
	r.Method(http.MethodPost, "/login", Adapt(h.postLogin))
	r.Method(http.MethodPost, "/logout", Adapt(h.postLogout))

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/browse", Adapt(h.getBrowse))
		r.Method(http.MethodPost, "/browse/filters", Adapt(h.postBrowseFilters))
		r.Method(http.MethodPost, "/browse/next", Adapt(h.postBrowseNext))
		r.Method(http.MethodPost, "/browse/prev", Adapt(h.postBrowsePrev))
		r.Method(http.MethodPost, "/browse/page-size", Adapt(h.postBrowsePageSize))
		r.Method(http.MethodPost, "/browse/clear", Adapt(h.postBrowseClear))
		r.Method(http.MethodGet, "/genres", Adapt(h.getGenres))

		// Add goes through the overlay so the unauthenticated precondition
		// and the duplicate-submission guard apply before any write.
		r.Method(http.MethodPost, "/watchlist", Adapt(h.postWatchlist))

		r.Group(func(r chi.Router) {
			r.Use(h.MiddlewareRequireAuth)

			r.Method(http.MethodGet, "/watchlist", Adapt(h.getWatchlist))
			r.Method(http.MethodGet, "/watchlist/export", Adapt(h.getWatchlistExport))
			r.Method(http.MethodPost, "/watchlist/import", Adapt(h.postWatchlistImport))
			r.Method(http.MethodPost, "/watchlist/{id:[0-9]+}/status", Adapt(h.postWatchlistStatus))
			r.Method(http.MethodDelete, "/watchlist/{id:[0-9]+}", Adapt(h.deleteWatchlist))

			r.Method(http.MethodGet, "/movies/{id:[0-9]+}/reviews", Adapt(h.getReviews))
			r.Method(http.MethodPost, "/movies/{id:[0-9]+}/reviews", Adapt(h.postReview))
			r.Method(http.MethodPut, "/reviews/{id}", Adapt(h.putReview))
			r.Method(http.MethodDelete, "/reviews/{id}", Adapt(h.deleteReview))
		})
	})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, &SessionResponse{Authenticated: h.isAuthenticated(r)})
	return nil
}

func (h *Handler) postLogin(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		return badRequest("bad request")
	}

	if req.Password != h.password {
		h.log.Warn("login: invalid password", slog.String("remote", r.RemoteAddr))
		return unauthorized("invalid password")
	}

	setAuthCookie(w, h.passHash)
	writeJSON(w, http.StatusOK, &SessionResponse{Authenticated: true})
	return nil
}

func (h *Handler) postLogout(w http.ResponseWriter, r *http.Request) error {
	clearAuthCookie(w)
	writeJSON(w, http.StatusOK, &SessionResponse{Authenticated: false})
	return nil
}

// browseSession finds the caller's browse session by cookie, creating and
// activating a fresh one (implicit popular search) on first contact.
func (h *Handler) browseSession(w http.ResponseWriter, r *http.Request) *browse.Session {
	if c, err := r.Cookie(browseCookieName); err == nil && c.Value != "" {
		h.sessions.mu.Lock()
		if sess, ok := h.sessions.byID[c.Value]; ok {
			h.sessions.mu.Unlock()
			return sess
		}
		h.sessions.mu.Unlock()
	}

	id := uuid.NewString()
	overlay := browse.NewOverlay(h.watchlist, ctxSessionProvider{}, h.log)
	sess := browse.NewSession(h.catalog, overlay, h.log)

	h.sessions.mu.Lock()
	h.sessions.byID[id] = sess
	h.sessions.mu.Unlock()

	setBrowseCookie(w, id)
	sess.Activate(detachedCtx(r))
	return sess
}

// detachedCtx keeps the request's values (notably the auth flag) but not its
// cancellation: searches and lookups resolve after the handler returns.
func detachedCtx(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}
