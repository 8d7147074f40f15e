package orders

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medicare/hospital/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staffOnly := auth.RequireRole(auth.RoleStaff)

	g := api.Group("/orders")
	g.POST("", h.Place, auth.RequireRole(auth.RolePatient))
	g.GET("/me", h.ListMine, auth.RequireRole(auth.RolePatient))
	g.GET("", h.ListAll, staffOnly)
	g.GET("/patient/:patientId", h.ListByPatient, staffOnly)
	g.GET("/:id", h.Get, staffOnly)
	g.PUT("/:id", h.Update, staffOnly)
	g.DELETE("/:id", h.Delete, staffOnly)
}

// Place records an order for the authenticated patient. The patient is
// resolved from the token, never from the payload.
func (h *Handler) Place(c echo.Context) error {
	email := auth.EmailFromContext(c.Request().Context())
	if email == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	var req PlaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := h.svc.Place(c.Request().Context(), email, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPatient):
			return echo.NewHTTPError(http.StatusBadRequest, "no patient profile for caller")
		case errors.Is(err, ErrInvalidItem):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid inventory item")
		case errors.Is(err, ErrInvalidQuantity):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) ListMine(c echo.Context) error {
	email := auth.EmailFromContext(c.Request().Context())
	if email == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	views, err := h.svc.ListByPatientEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, ErrInvalidPatient) {
			return echo.NewHTTPError(http.StatusNotFound, "no patient profile for caller")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) ListAll(c echo.Context) error {
	views, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	views, err := h.svc.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	v, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := h.svc.Update(c.Request().Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, ErrInvalidQuantity):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
