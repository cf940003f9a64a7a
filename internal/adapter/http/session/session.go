// Package session wraps the cookie session store used for the browser
// flows: the logged-in user id and the flash notices that survive a
// redirect.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "wanderstay_session"
	userIDKey  = "user_id"

	FlashSuccess = "success"
	FlashError   = "error"
)

// Cookie lifetime matches the original frontend's 7-day session.
const maxAge = 7 * 24 * 60 * 60

type Manager struct {
	store *sessions.CookieStore
}

func NewManager(secret string) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	}
	return &Manager{store: store}
}

func (m *Manager) session(r *http.Request) *sessions.Session {
	// Get never fails fatally for a cookie store; a bad cookie yields a
	// fresh session.
	s, _ := m.store.Get(r, cookieName)
	return s
}

// CurrentUserID returns the logged-in user id, or "" when anonymous.
func (m *Manager) CurrentUserID(r *http.Request) string {
	s := m.session(r)
	if id, ok := s.Values[userIDKey].(string); ok {
		return id
	}
	return ""
}

func (m *Manager) SetCurrentUser(w http.ResponseWriter, r *http.Request, userID string) error {
	s := m.session(r)
	s.Values[userIDKey] = userID
	return s.Save(r, w)
}

func (m *Manager) ClearCurrentUser(w http.ResponseWriter, r *http.Request) error {
	s := m.session(r)
	delete(s.Values, userIDKey)
	return s.Save(r, w)
}

// AddFlash queues a notice under the given kind (FlashSuccess or
// FlashError) to be shown after the next redirect.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	s := m.session(r)
	s.AddFlash(message, kind)
	_ = s.Save(r, w)
}

// PopFlashes drains and returns the queued notices of the given kind.
func (m *Manager) PopFlashes(w http.ResponseWriter, r *http.Request, kind string) []string {
	s := m.session(r)
	raw := s.Flashes(kind)
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(r, w)
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
