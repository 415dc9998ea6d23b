package browse

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var (
	// ErrNotAuthenticated rejects watchlist mutations before they reach the
	// service. Callers redirect to login instead of retrying.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrAddInFlight rejects a repeated add for a movie whose add is still
	// pending. Callers treat the movie as already requested.
	ErrAddInFlight = errors.New("watchlist add already in flight")
)

// AddState tracks a single movie's add mutation.
type AddState int

const (
	AddIdle AddState = iota
	AddInFlight
	AddDone
	AddError
)

// Overlay resolves and caches per-movie watchlist membership for whatever
// result page is currently displayed, and guards add mutations against
// duplicate submission. Lookups for distinct movies are independent: they
// resolve in any order and a failure never affects a sibling.
type Overlay struct {
	svc   WatchlistService
	auth  SessionProvider
	cache *StatusCache
	log   *slog.Logger

	mu   sync.Mutex
	adds map[int64]AddState
}

func NewOverlay(svc WatchlistService, auth SessionProvider, log *slog.Logger) *Overlay {
	if log == nil {
		log = slog.Default()
	}
	return &Overlay{
		svc:   svc,
		auth:  auth,
		cache: NewStatusCache(),
		log:   log,
		adds:  make(map[int64]AddState),
	}
}

func (o *Overlay) Cache() *StatusCache { return o.cache }

// Resolve starts a membership lookup for every id that has no cache entry
// yet and returns the number of lookups started. Unauthenticated sessions
// start none: every id stays absent and renders as not saved.
func (o *Overlay) Resolve(ctx context.Context, ids []int64) int {
	if o.svc == nil || !o.auth.IsAuthenticated(ctx) {
		return 0
	}

	started := 0
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if o.cache.Get(id) != StatusAbsent {
			continue
		}
		o.cache.Set(id, StatusPending)
		started++
		go o.lookup(ctx, id)
	}
	return started
}

func (o *Overlay) lookup(ctx context.Context, id int64) {
	member, err := o.svc.IsMember(ctx, id)
	if err != nil {
		// Back to absent so a later page retries; the movie renders as not
		// saved in the meantime.
		o.log.Warn("watchlist lookup failed", slog.Int64("movie_id", id), slog.Any("err", err))
		o.cache.Clear(id)
		return
	}
	if member {
		o.cache.Set(id, StatusMember)
	} else {
		o.cache.Set(id, StatusNotMember)
	}
}

// Add submits an add mutation for one movie. While an add for that movie is
// in flight, further adds for it fail with ErrAddInFlight; adds for other
// movies are unaffected.
func (o *Overlay) Add(ctx context.Context, movieID int64, initialStatus string) (WatchlistEntry, error) {
	if !o.auth.IsAuthenticated(ctx) {
		return WatchlistEntry{}, ErrNotAuthenticated
	}

	o.mu.Lock()
	if o.adds[movieID] == AddInFlight {
		o.mu.Unlock()
		return WatchlistEntry{}, ErrAddInFlight
	}
	o.adds[movieID] = AddInFlight
	o.mu.Unlock()

	entry, err := o.svc.Add(ctx, movieID, initialStatus)

	o.mu.Lock()
	if err != nil {
		o.adds[movieID] = AddError
	} else {
		o.adds[movieID] = AddDone
	}
	o.mu.Unlock()

	if err != nil {
		return WatchlistEntry{}, err
	}
	o.cache.Set(movieID, StatusMember)
	return entry, nil
}

// AddState reports the add state machine for one movie.
func (o *Overlay) AddState(movieID int64) AddState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.adds[movieID]
}

// Forget drops the cached status for a movie, typically after a removal.
func (o *Overlay) Forget(movieID int64) {
	o.cache.Clear(movieID)
	o.mu.Lock()
	delete(o.adds, movieID)
	o.mu.Unlock()
}
