package search

import (
	"context"
	"errors"
	"strings"
	"sync"
)

type Searcher interface {
	Search(ctx context.Context, text string) ([]Result, error)
}

// State is what the search page renders.
type State struct {
	Query   string
	Loading bool
	Err     error
	Results []Result
}

// Session holds the state of one search box. Each submit gets a token; a response
// whose token is no longer the latest is dropped, and starting a submit cancels the
// one still in flight. The search page keeps one Session per browser.
type Session struct {
	searcher Searcher

	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc
	state  State
}

func NewSession(searcher Searcher) *Session {
	return &Session{searcher: searcher}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// Submit runs one search. A blank query does nothing. The returned error is the
// search error, or ErrStale when a newer submit replaced this one.
func (s *Session) Submit(ctx context.Context, text string) (State, error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return s.State(), nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.token++
	token := s.token
	s.cancel = cancel
	s.state.Query = text
	s.state.Loading = true
	s.state.Err = nil
	s.mu.Unlock()

	results, err := s.searcher.Search(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		return s.snapshot(), ErrStale
	}

	s.cancel = nil
	s.state.Loading = false
	if err != nil {
		s.state.Err = err
		return s.snapshot(), err
	}
	s.state.Results = results

	return s.snapshot(), nil
}

func (s *Session) snapshot() State {
	state := s.state
	state.Results = append([]Result(nil), s.state.Results...)
	return state
}

// Message turns a search error into the text shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Search failed: the search service took too long to respond"
	}

	return err.Error()
}
