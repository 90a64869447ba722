package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accesskeep/accesskeep/internal/api/metrics"
	"github.com/accesskeep/accesskeep/internal/api/session"
	"github.com/accesskeep/accesskeep/internal/core/domain"
	"github.com/accesskeep/accesskeep/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	sessions    *session.Binder
}

func NewAuthHandler(authService ports.AuthService, sessions *session.Binder) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// Login authenticates a user and establishes the session/cookie pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	if err := h.sessions.Establish(c, token); err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}

// Logout destroys the session record and expires the cookies. Token
// validity is stateless, so logout is advisory: the signed token stays
// verifiable until its expiry, but the stored session is gone and the
// client-side cookies are cleared.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out successfully"})
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		RoleID:    u.RoleID,
		CreatedBy: u.CreatedBy,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
