package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Searcher produces listings for a query. Implementations return listings in
// the order they should be shown.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Listing, error)
}

// Tailorer produces tailored resume text for a job. resume is nil when
// nothing has been uploaded.
type Tailorer interface {
	Tailor(ctx context.Context, job Listing, resume *Resume) (string, error)
}

// Session is one user's state. All methods are safe for concurrent use; each
// action is applied atomically and in the order the lock is acquired.
type Session struct {
	id       uuid.UUID
	searcher Searcher
	tailorer Tailorer
	now      func() time.Time

	mu           sync.Mutex
	state        State
	shown        map[Listing]struct{}
	lastActive   time.Time
	searchSeq    uint64
	cancelSearch context.CancelFunc
	tailorSeq    uint64
	cancelTailor context.CancelFunc
	watchers     map[uint64]chan State
	nextWatcher  uint64
	closed       bool
	done         chan struct{}
}

// New creates a session that searches with searcher and tailors with tailorer.
func New(searcher Searcher, tailorer Tailorer) *Session {
	return newSession(uuid.New(), searcher, tailorer, time.Now)
}

func newSession(id uuid.UUID, searcher Searcher, tailorer Tailorer, now func() time.Time) *Session {
	return &Session{
		id:         id,
		searcher:   searcher,
		tailorer:   tailorer,
		now:        now,
		state:      NewState(),
		shown:      make(map[Listing]struct{}),
		lastActive: now(),
		watchers:   make(map[uint64]chan State),
		done:       make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// LastActive returns when the session last handled an action.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// UploadResume replaces the held resume. A nil file is a cancelled upload and
// changes nothing.
func (s *Session) UploadResume(file *Resume) State {
	return s.dispatch(UploadResume{File: file})
}

// SetQuery stores the search box text without searching.
func (s *Session) SetQuery(query string) State {
	return s.dispatch(SetQuery{Query: query})
}

// Search stores query, runs it against the search source and replaces the
// results. A newer Search on the same session cancels this one, which then
// returns ErrSuperseded. On any error the previous results are kept.
func (s *Session) Search(ctx context.Context, query string) (State, error) {
	s.mu.Lock()
	s.apply(SetQuery{Query: query})
	if s.cancelSearch != nil {
		s.cancelSearch()
	}
	s.searchSeq++
	seq := s.searchSeq
	ctx, cancel := context.WithCancel(ctx)
	s.cancelSearch = cancel
	s.mu.Unlock()
	defer cancel()

	results, err := s.searcher.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.searchSeq {
		return s.state.Clone(), ErrSuperseded
	}
	s.cancelSearch = nil
	if err != nil {
		return s.state.Clone(), fmt.Errorf("search %q: %w", query, err)
	}
	s.apply(ShowResults{Results: results})
	s.remember(results...)
	return s.state.Clone(), nil
}

// SelectJob makes job the current job. The job must have been shown in this
// session's results or saved list.
func (s *Session) SelectJob(job Listing) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.wasShown(job) {
		return s.state.Clone(), fmt.Errorf("select %q: %w", job, ErrUnknownListing)
	}
	s.apply(SelectJob{Job: job})
	return s.state.Clone(), nil
}

// SaveJob bookmarks job. Saving an already saved job is a no-op.
func (s *Session) SaveJob(job Listing) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.wasShown(job) {
		return s.state.Clone(), fmt.Errorf("save %q: %w", job, ErrUnknownListing)
	}
	s.apply(SaveJob{Job: job})
	return s.state.Clone(), nil
}

// RemoveJob drops job from the saved list. Removing an unsaved job is a no-op.
func (s *Session) RemoveJob(job Listing) State {
	return s.dispatch(RemoveJob{Job: job})
}

// Tailor generates tailored resume text for the selected job and overwrites
// any previous text. It fails with ErrNoSelection when nothing is selected.
func (s *Session) Tailor(ctx context.Context) (State, error) {
	s.mu.Lock()
	if !s.state.HasSelection() {
		state := s.state.Clone()
		s.mu.Unlock()
		return state, ErrNoSelection
	}
	snapshot := s.state.Clone()
	if s.cancelTailor != nil {
		s.cancelTailor()
	}
	s.tailorSeq++
	seq := s.tailorSeq
	ctx, cancel := context.WithCancel(ctx)
	s.cancelTailor = cancel
	s.lastActive = s.now()
	s.mu.Unlock()
	defer cancel()

	job := *snapshot.Selected
	text, err := s.tailorer.Tailor(ctx, job, snapshot.Resume)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.tailorSeq {
		return s.state.Clone(), ErrSuperseded
	}
	s.cancelTailor = nil
	if err != nil {
		return s.state.Clone(), fmt.Errorf("tailor %q: %w", job, err)
	}
	s.apply(ShowTailored{Text: text})
	return s.state.Clone(), nil
}

// SwitchTab activates one of the four views. Selection and tailored text are
// kept across switches.
func (s *Session) SwitchTab(tab Tab) (State, error) {
	if !tab.Valid() {
		return s.State(), fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	return s.dispatch(SwitchTab{Tab: tab}), nil
}

// close cancels any in-flight search or tailoring and ends every watch.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	for id, ch := range s.watchers {
		close(ch)
		delete(s.watchers, id)
	}
	if s.cancelSearch != nil {
		s.cancelSearch()
		s.cancelSearch = nil
	}
	if s.cancelTailor != nil {
		s.cancelTailor()
		s.cancelTailor = nil
	}
	s.searchSeq++
	s.tailorSeq++
}

func (s *Session) dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(a)
	return s.state.Clone()
}

// apply must be called with mu held.
func (s *Session) apply(a Action) {
	s.state = Reduce(s.state, a)
	s.lastActive = s.now()
	s.notify()
}

func (s *Session) remember(jobs ...Listing) {
	for _, job := range jobs {
		s.shown[job] = struct{}{}
	}
}

func (s *Session) wasShown(job Listing) bool {
	_, ok := s.shown[job]
	return ok
}
