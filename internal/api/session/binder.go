// Package session binds a live token to a transport-level session
// record and a persistent cookie.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/accesskeep/accesskeep/internal/core/ports"
)

const (
	// SessionCookie carries the server-side session record id.
	SessionCookie = "sid"
	// TokenCookie carries the signed token itself, so a valid cookie
	// alone can re-establish identity if the session record was lost.
	TokenCookie = "token"
)

// Binder writes and clears the session record / cookie pair and
// extracts the caller's token from a request.
type Binder struct {
	store ports.SessionStore
	ttl   time.Duration
}

func NewBinder(store ports.SessionStore, ttl time.Duration) *Binder {
	return &Binder{store: store, ttl: ttl}
}

// Establish stores a session record and sets both cookies, all with a
// TTL matching the token's.
func (b *Binder) Establish(c echo.Context, token string) error {
	sid, err := newSessionID()
	if err != nil {
		return err
	}
	if err := b.store.Put(c.Request().Context(), sid, token, b.ttl); err != nil {
		return err
	}

	c.SetCookie(newCookie(SessionCookie, sid, int(b.ttl.Seconds())))
	c.SetCookie(newCookie(TokenCookie, token, int(b.ttl.Seconds())))
	return nil
}

// Clear destroys the session record and expires both cookies. It runs
// on explicit logout and on every verification failure, and never
// fails: a missing record or unreachable store still clears the
// client-side state.
func (b *Binder) Clear(c echo.Context) {
	if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
		_ = b.store.Delete(c.Request().Context(), ck.Value)
	}
	c.SetCookie(newCookie(SessionCookie, "", -1))
	c.SetCookie(newCookie(TokenCookie, "", -1))
}

// CurrentToken returns the caller's token, preferring the Authorization
// header, then the transport-level session record, then the persistent
// cookie. Empty when no credential is present.
func (b *Binder) CurrentToken(c echo.Context) string {
	if auth := c.Request().Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
		if tok, err := b.store.Get(c.Request().Context(), ck.Value); err == nil && tok != "" {
			return tok
		}
	}

	if ck, err := c.Cookie(TokenCookie); err == nil {
		return ck.Value
	}
	return ""
}

func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func newCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
