package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-pkviz/internal/application/dashboard"
	"github.com/penwyp/go-pkviz/internal/metrics"
	"github.com/penwyp/go-pkviz/internal/util"
)

// SessionCookie names the cookie carrying the browser session id.
const SessionCookie = "pkviz_session"

type sessionEntry struct {
	session  *dashboard.Session
	lastUsed time.Time
}

// SessionStore maps browser sessions to their reactive graphs.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	max      int
	create   func(id string) *dashboard.Session
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewSessionStore holds at most max sessions; values below 1 mean one.
func NewSessionStore(ttl time.Duration, max int, create func(id string) *dashboard.Session, m *metrics.Metrics) *SessionStore {
	if max < 1 {
		max = 1
	}
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		max:      max,
		create:   create,
		metrics:  m,
		now:      time.Now,
	}
}

// Get returns the session named by the request cookie, creating one and
// setting the cookie when the request has none or names an unknown session.
func (s *SessionStore) Get(w http.ResponseWriter, r *http.Request) *dashboard.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.expireLocked(now)

	if c, err := r.Cookie(SessionCookie); err == nil {
		if entry, ok := s.sessions[c.Value]; ok {
			entry.lastUsed = now
			return entry.session
		}
	}

	id := uuid.NewString()
	for len(s.sessions) >= s.max {
		s.evictOldestLocked()
	}
	entry := &sessionEntry{session: s.create(id), lastUsed: now}
	s.sessions[id] = entry
	s.metrics.SetActiveSessions(len(s.sessions))
	util.LogDebug("Created session", util.Field{Key: "session", Value: id})

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return entry.session
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expireLocked(now time.Time) {
	expired := 0
	for id, entry := range s.sessions {
		if now.Sub(entry.lastUsed) > s.ttl {
			delete(s.sessions, id)
			expired++
		}
	}
	if expired > 0 {
		s.metrics.SetActiveSessions(len(s.sessions))
		util.LogDebugf("Expired %d idle sessions", expired)
	}
}

func (s *SessionStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, entry := range s.sessions {
		if oldestID == "" || entry.lastUsed.Before(oldest) {
			oldestID, oldest = id, entry.lastUsed
		}
	}
	delete(s.sessions, oldestID)
}
