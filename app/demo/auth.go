package demo

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/idlesession/core/cookie"
	"github.com/dmitrymomot/idlesession/middleware"
)

// Sessions is a toy cookie-based authentication layer. It exists so the
// idle guard has something real to log out of; production services plug
// their own IdentityFunc and LogoutFunc into the guard.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]string // session ID -> actor ID

	cookies    *cookie.Manager
	cookieName string
}

// NewSessions creates an empty session table whose cookie is signed by cookies.
func NewSessions(cookies *cookie.Manager, cookieName string) *Sessions {
	if cookieName == "" {
		cookieName = "idle_sid"
	}
	return &Sessions{
		sessions:   make(map[string]string),
		cookies:    cookies,
		cookieName: cookieName,
	}
}

// Login starts a session for actorID and sets the cookie.
func (s *Sessions) Login(w http.ResponseWriter, actorID string) (middleware.Identity, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return middleware.Identity{}, ErrMissingActor
	}

	id := middleware.Identity{ActorID: actorID, SessionID: uuid.NewString()}

	s.mu.Lock()
	s.sessions[id.SessionID] = id.ActorID
	s.mu.Unlock()

	s.cookies.SetSigned(w, s.cookieName, id.SessionID)
	return id, nil
}

// Logout ends the session and clears the cookie. It satisfies
// middleware.LogoutFunc.
func (s *Sessions) Logout(w http.ResponseWriter, _ *http.Request, id middleware.Identity) error {
	s.mu.Lock()
	_, ok := s.sessions[id.SessionID]
	delete(s.sessions, id.SessionID)
	s.mu.Unlock()

	s.cookies.Delete(w, s.cookieName)

	if !ok {
		return ErrUnknownSession
	}
	return nil
}

// Resolve returns the identity behind a session ID.
func (s *Sessions) Resolve(sessionID string) (middleware.Identity, bool) {
	s.mu.RLock()
	actorID, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return middleware.Identity{}, false
	}
	return middleware.Identity{ActorID: actorID, SessionID: sessionID}, true
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Authenticate stores the identity of a validly signed session cookie in
// the request context. Requests without one pass through anonymous.
func (s *Sessions) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := s.cookies.GetSigned(r, s.cookieName)
		if err == nil {
			if id, ok := s.Resolve(sessionID); ok {
				r = r.WithContext(middleware.WithIdentity(r.Context(), id))
			}
		} else if !errors.Is(err, cookie.ErrCookieNotFound) {
			s.cookies.Delete(w, s.cookieName)
		}
		next.ServeHTTP(w, r)
	})
}
