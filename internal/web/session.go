// Package web provides the HTTP server and HTML pages of gigbook.
package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	visitorCookieName = "gigbook_visitor"
	flashTTL          = 10 * time.Minute
)

// FlashStore keeps one-shot messages per visitor in memory until the next
// page render pops them. Visitors are identified by a random cookie.
type FlashStore struct {
	mu      sync.Mutex
	entries map[string]*flashEntry
	ttl     time.Duration
	now     func() time.Time
}

type flashEntry struct {
	messages []FlashMessage
	expires  time.Time
}

// NewFlashStore creates an empty store.
func NewFlashStore() *FlashStore {
	return &FlashStore{
		entries: make(map[string]*flashEntry),
		ttl:     flashTTL,
		now:     time.Now,
	}
}

// Add queues msg for the visitor of r, issuing a visitor cookie first when
// the request has none.
func (s *FlashStore) Add(w http.ResponseWriter, r *http.Request, msg FlashMessage) {
	id := visitorID(r)
	if id == "" {
		id = uuid.NewString()
		setVisitorCookie(w, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prune(now)

	e, ok := s.entries[id]
	if !ok {
		e = &flashEntry{}
		s.entries[id] = e
	}
	e.messages = append(e.messages, msg)
	e.expires = now.Add(s.ttl)
}

// Pop returns and forgets the visitor's queued messages.
func (s *FlashStore) Pop(r *http.Request) []FlashMessage {
	id := visitorID(r)
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune(s.now())

	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	delete(s.entries, id)
	return e.messages
}

// Len returns the number of visitors with queued messages.
func (s *FlashStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// prune drops expired entries. Callers hold mu.
func (s *FlashStore) prune(now time.Time) {
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
		}
	}
}

// visitorID returns the visitor cookie of r, or "" when absent or malformed.
func visitorID(r *http.Request) string {
	cookie, err := r.Cookie(visitorCookieName)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

func setVisitorCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
