package browse

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Session owns one user's browse state: the filter selections, the current
// result page and error, and the watchlist overlay. Remote calls resolve
// asynchronously; only the most recently issued search is authoritative, so
// every outgoing request carries a sequence tag and completions whose tag is
// no longer the latest are dropped.
type Session struct {
	search  SearchService
	overlay *Overlay
	log     *slog.Logger

	mu        sync.Mutex
	filters   FilterState
	page      *SearchResultPage
	errMsg    string
	searching bool
	seq       uint64
}

func NewSession(search SearchService, overlay *Overlay, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		search:  search,
		overlay: overlay,
		log:     log,
		filters: DefaultFilters(),
	}
}

// View is an immutable snapshot of the session for rendering.
type View struct {
	Results      []MovieSummary
	Statuses     map[int64]Status
	Page         int
	Size         int
	TotalPages   int
	TotalResults int
	Searching    bool
	Err          string
	Took         time.Duration
}

// Activate issues the implicit popular-movies request. Call once when the
// session is created, before any filter has been touched.
func (s *Session) Activate(ctx context.Context) {
	s.mu.Lock()
	size := s.filters.Size
	s.mu.Unlock()
	s.issue(ctx, popularRequest(size))
}

// SetFilters replaces the filter selections and issues a search for the
// first page of the new criteria.
func (s *Session) SetFilters(ctx context.Context, f FilterState) {
	s.mu.Lock()
	f.Page = 0
	if f.Size <= 0 {
		f.Size = s.filters.Size
	}
	s.filters = f.Clone()
	req := Compile(s.filters)
	s.mu.Unlock()
	s.issue(ctx, req)
}

// ClearFilters resets every selection to its neutral default and re-issues
// the implicit popular-movies request.
func (s *Session) ClearFilters(ctx context.Context) {
	s.mu.Lock()
	s.filters = DefaultFilters()
	s.mu.Unlock()
	s.issue(ctx, popularRequest(DefaultPageSize))
}

// Search re-issues a search for the current filter state, e.g. to retry
// after a failure.
func (s *Session) Search(ctx context.Context) {
	s.mu.Lock()
	req := Compile(s.filters)
	s.mu.Unlock()
	s.issue(ctx, req)
}

// PrevPage moves one page back and searches. At page zero it is a no-op and
// issues no request. Reports whether a search was issued.
func (s *Session) PrevPage(ctx context.Context) bool {
	s.mu.Lock()
	if s.filters.Page == 0 {
		s.mu.Unlock()
		return false
	}
	s.filters.Page--
	req := Compile(s.filters)
	s.mu.Unlock()
	s.issue(ctx, req)
	return true
}

// NextPage moves one page forward and searches. On the last known page, or
// before any page has resolved, it is a no-op and issues no request.
func (s *Session) NextPage(ctx context.Context) bool {
	s.mu.Lock()
	if s.page == nil || s.filters.Page >= s.page.TotalPages-1 {
		s.mu.Unlock()
		return false
	}
	s.filters.Page++
	req := Compile(s.filters)
	s.mu.Unlock()
	s.issue(ctx, req)
	return true
}

// SetPageSize changes the page size, jumps back to the first page and
// searches with all other selections unchanged. Sizes outside 1..100 are
// rejected without a request.
func (s *Session) SetPageSize(ctx context.Context, size int) bool {
	if size < 1 || size > 100 {
		return false
	}
	s.mu.Lock()
	s.filters.Size = size
	s.filters.Page = 0
	req := Compile(s.filters)
	s.mu.Unlock()
	s.issue(ctx, req)
	return true
}

// Filters returns a copy of the current filter state.
func (s *Session) Filters() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}

// Overlay exposes the session's watchlist overlay.
func (s *Session) Overlay() *Overlay { return s.overlay }

// View snapshots the session for rendering. The prior result list stays
// visible while a newer search is in flight.
func (s *Session) View() View {
	s.mu.Lock()
	v := View{
		Page:      s.filters.Page,
		Size:      s.filters.Size,
		Searching: s.searching,
		Err:       s.errMsg,
	}
	if s.page != nil {
		v.Results = append([]MovieSummary(nil), s.page.Results...)
		v.TotalPages = s.page.TotalPages
		v.TotalResults = s.page.TotalResults
		v.Took = s.page.Took
	}
	s.mu.Unlock()

	if s.overlay != nil && len(v.Results) > 0 {
		ids := make([]int64, 0, len(v.Results))
		for i := range v.Results {
			ids = append(ids, v.Results[i].ID)
		}
		v.Statuses = s.overlay.Cache().Snapshot(ids)
	}
	return v
}

func (s *Session) issue(ctx context.Context, req SearchRequest) {
	s.mu.Lock()
	s.seq++
	tag := s.seq
	s.searching = true
	s.errMsg = ""
	s.mu.Unlock()

	go func() {
		start := time.Now()
		page, err := s.search.Search(ctx, req)
		s.complete(ctx, tag, page, err, time.Since(start))
	}()
}

func (s *Session) complete(ctx context.Context, tag uint64, page SearchResultPage, err error, took time.Duration) {
	s.mu.Lock()
	if tag != s.seq {
		s.mu.Unlock()
		s.log.Debug("stale search response dropped",
			slog.Uint64("tag", tag),
			slog.Uint64("latest", s.seq))
		return
	}
	s.searching = false

	if err != nil {
		// Clear the stale results so they never render next to an error
		// banner; pagination stays put so the user can retry.
		s.page = nil
		s.errMsg = err.Error()
		s.mu.Unlock()
		s.log.Warn("search failed", slog.Any("err", err))
		return
	}

	page.Took = took
	s.page = &page
	s.errMsg = ""
	ids := make([]int64, 0, len(page.Results))
	for i := range page.Results {
		ids = append(ids, page.Results[i].ID)
	}
	s.mu.Unlock()

	if s.overlay != nil {
		s.overlay.Resolve(ctx, ids)
	}
}
