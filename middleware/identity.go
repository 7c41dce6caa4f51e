package middleware

import (
	"context"
	"net/http"
)

// Identity is the authenticated actor attached to a request.
type Identity struct {
	ActorID   string
	SessionID string
}

// Valid reports whether both identifiers are present.
func (i Identity) Valid() bool {
	return i.ActorID != "" && i.SessionID != ""
}

// IdentityFunc resolves the authenticated identity for a request.
// The bool result is false for anonymous requests.
type IdentityFunc func(r *http.Request) (Identity, bool)

// LogoutFunc terminates the authentication session for id. Called exactly
// once when a session expires for inactivity, before the rejection is written,
// so implementations may clear cookies on w.
type LogoutFunc func(w http.ResponseWriter, r *http.Request, id Identity) error

type identityContextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	if !ok || !id.Valid() {
		return Identity{}, false
	}
	return id, true
}

// IdentityFromRequest is the default IdentityFunc. It reads the identity an
// upstream authentication middleware stored with WithIdentity.
func IdentityFromRequest(r *http.Request) (Identity, bool) {
	return IdentityFromContext(r.Context())
}
