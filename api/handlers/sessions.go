package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/meghashyamc/docsearch/services/search"
)

const (
	sessionCookieName = "docsearch_session"
	sessionCacheSize  = 10000
	sessionTTL        = 30 * time.Minute
)

// SessionStore keeps one search.Session per browser, keyed by a cookie. A search from a
// browser cancels and supersedes that browser's previous search if it is still running.
type SessionStore struct {
	searcher search.Searcher

	mu       sync.Mutex
	sessions *expirable.LRU[string, *search.Session]
}

func NewSessionStore(searcher search.Searcher, size int, ttl time.Duration) *SessionStore {
	return &SessionStore{
		searcher: searcher,
		sessions: expirable.NewLRU[string, *search.Session](size, nil, ttl),
	}
}

func NewDefaultSessionStore(searcher search.Searcher) *SessionStore {
	return NewSessionStore(searcher, sessionCacheSize, sessionTTL)
}

// Session returns the caller's session, issuing a session cookie when there is none.
func (s *SessionStore) Session(c *gin.Context) *search.Session {
	sessionID, err := c.Cookie(sessionCookieName)
	if err != nil || uuid.Validate(sessionID) != nil {
		sessionID = uuid.NewString()
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, sessionID, int(sessionTTL.Seconds()), "/", "", false, true)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions.Get(sessionID)
	if !ok {
		session = search.NewSession(s.searcher)
	}
	// Re-adding refreshes the expiry.
	s.sessions.Add(sessionID, session)

	return session
}

func (s *SessionStore) Lookup(sessionID string) (*search.Session, bool) {
	return s.sessions.Get(sessionID)
}
