// Package cookie writes HMAC-SHA256 signed cookies.
//
//	m, err := cookie.NewFromConfig(cfg)
//	m.SetSigned(w, "idle_sid", sessionID)
//	id, err := m.GetSigned(r, "idle_sid") // ErrInvalidSignature when tampered
//	m.Delete(w, "idle_sid")
//
// COOKIE_SECRETS holds comma-separated secrets of at least 32 characters.
// The first signs new cookies; every secret is accepted on verification,
// so rotate by prepending a new secret and dropping the old one later.
package cookie
