package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/hospital/internal/platform/auth"
)

type Handler struct {
	svc       *Service
	jwtSecret []byte
}

func NewHandler(svc *Service, jwtSecret []byte) *Handler {
	return &Handler{svc: svc, jwtSecret: jwtSecret}
}

// RegisterRoutes mounts the login endpoint. It goes on the public group:
// callers need it before they hold a token.
func (h *Handler) RegisterRoutes(public *echo.Group) {
	public.POST("/auth/login", h.Login)
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	a, err := h.svc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := auth.IssueToken(h.jwtSecret, a.Email, a.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token, Email: a.Email, Role: a.Role})
}
