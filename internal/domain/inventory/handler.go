package inventory

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	// Patients browse the catalogue without a privileged role.
	public.GET("/products", h.ListAll)

	g := api.Group("/inventory", auth.RequireRole(auth.RoleStaff))
	g.POST("", h.Add)
	g.GET("", h.ListAll)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/low-stock", h.ListLowStock)
	g.GET("/expiring", h.ListExpiring)
	g.GET("/expiring-within-days/:days", h.ListExpiringWithinDays)
	g.GET("/search", h.Search)
	g.GET("/category/:category", h.ListByCategory)
	g.GET("/supplier/:supplier", h.ListBySupplier)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id/quantity", h.AdjustQuantity)
	g.DELETE("/:id", h.Delete)
}

func (h *Handler) Add(c echo.Context) error {
	var item Item
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Add(c.Request().Context(), &item); err != nil {
		if errors.Is(err, ErrDuplicateItem) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, NewResponse(&item))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	item, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "inventory item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, NewResponse(item))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var item Item
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item.ID = id
	if err := h.svc.Update(c.Request().Context(), &item); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "inventory item not found")
		case errors.Is(err, ErrDuplicateItem):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, NewResponse(&item))
}

func (h *Handler) ListAll(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, NewResponses(items))
}

func (h *Handler) ListByCategory(c echo.Context) error {
	items, err := h.svc.ListByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, NewResponses(items))
}

func (h *Handler) ListBySupplier(c echo.Context) error {
	items, err := h.svc.ListBySupplier(c.Request().Context(), c.Param("supplier"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, NewResponses(items))
}

func (h *Handler) ListLowStock(c echo.Context) error {
	items, err := h.svc.ListLowStock(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, NewResponses(items))
}

func (h *Handler) ListExpiring(c echo.Context) error {
	date, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	items, err := h.svc.ListExpiringBefore(c.Request().Context(), date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, NewResponses(items))
}

func (h *Handler) ListExpiringWithinDays(c echo.Context) error {
	days, err := strconv.Atoi(c.Param("days"))
	if err != nil || days < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "days must be a non-negative integer")
	}
	items, err := h.svc.ListExpiringWithinDays(c.Request().Context(), days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, NewResponses(items))
}

func (h *Handler) Search(c echo.Context) error {
	term := c.QueryParam("q")
	if term == "" {
		term = c.QueryParam("searchTerm")
	}
	if term == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "search term is required")
	}
	items, err := h.svc.Search(c.Request().Context(), term)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, NewResponses(items))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "inventory item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AdjustQuantity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	quantity, err := strconv.Atoi(c.QueryParam("quantity"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be an integer")
	}
	item, err := h.svc.AdjustQuantity(c.Request().Context(), id, quantity)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "inventory item not found")
		case errors.Is(err, ErrInvalidQuantity):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, NewResponse(item))
}

func (h *Handler) Dashboard(c echo.Context) error {
	dash, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dash)
}
