package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/accesskeep/accesskeep/internal/api/session"
	"github.com/accesskeep/accesskeep/internal/core/domain"
	"github.com/accesskeep/accesskeep/internal/core/ports"
)

// principalKey is the context key under which the resolved principal is
// stored for downstream handlers and the escalation guard.
const principalKey = "principal"

// Authenticate resolves the caller's identity on each protected
// request. The per-request state machine is:
//
//	no token            → redirect to login (HTML) / 401 (API)
//	token fails verify  → clear session+cookie, then as above
//	token verified      → reload current role and permissions from the
//	                      registry (never the token's snapshot) and
//	                      attach the principal to the request context
//
// Unauthenticated access is an expected, recoverable condition, not a
// fault; the middleware never surfaces it as a 5xx.
func Authenticate(auth ports.AuthService, sessions *session.Binder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessions.CurrentToken(c)
			if token == "" {
				return loginRedirect(c, "please login to access this page")
			}

			principal, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				sessions.Clear(c)
				if errors.Is(err, domain.ErrUserNotFound) {
					return loginRedirect(c, "user not found")
				}
				// Expired and tampered tokens are deliberately not
				// distinguished in user-facing messaging.
				return loginRedirect(c, "invalid token")
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom extracts the principal attached by Authenticate.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	return p, ok
}

// SetPrincipal injects a principal directly. Intended for tests.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
}

func loginRedirect(c echo.Context, msg string) error {
	if wantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, "/login?error="+url.QueryEscape(msg))
	}
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get("Accept"), echo.MIMETextHTML)
}
