package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const minSecretLength = 32

// Manager writes and verifies HMAC-signed cookies.
type Manager struct {
	secrets  []string
	defaults Options
}

// New creates a manager. Every secret must be at least 32 characters.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d",
				ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}.with(opts)

	return &Manager{secrets: secrets, defaults: defaults}, nil
}

// SetSigned stores value with an HMAC signature.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) {
	http.SetCookie(w, m.defaults.with(opts).cookie(name, m.sign(value)))
}

// GetSigned returns the verified value of the named cookie.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrCookieNotFound
	}
	if err != nil {
		return "", err
	}
	return m.verify(c.Value)
}

// Delete expires the named cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	c := m.defaults.cookie(name, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func (m *Manager) sign(value string) string {
	return base64.URLEncoding.EncodeToString([]byte(value)) + "|" + signature(m.secrets[0], []byte(value))
}

// verify accepts a signature made with any configured secret, so secrets
// can be rotated by prepending the new one.
func (m *Manager) verify(signed string) (string, error) {
	encoded, sig, ok := strings.Cut(signed, "|")
	if !ok {
		return "", ErrInvalidFormat
	}

	value, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}

	valid := slices.ContainsFunc(m.secrets, func(secret string) bool {
		return subtle.ConstantTimeCompare([]byte(sig), []byte(signature(secret, value))) == 1
	})
	if !valid {
		return "", ErrInvalidSignature
	}
	return string(value), nil
}

func signature(secret string, value []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(value)
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}
