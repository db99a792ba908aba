package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/statuses", h.List)
	api.GET("/statuses/grouped", h.Grouped)
	api.GET("/statuses/search", h.Search)
	api.GET("/statuses/:id", h.Get)
	api.POST("/statuses", h.Register)
	api.PATCH("/statuses/:id/deactivate", h.Deactivate)
	api.PATCH("/statuses/:id/reactivate", h.Reactivate)
}

func (h *Handler) List(c echo.Context) error {
	var filter ListFilter
	if cat := c.QueryParam("category"); cat != "" {
		filter.Category = &cat
	}
	if raw := c.QueryParam("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid active filter")
		}
		filter.Active = &active
	}
	statuses, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return catalogError(err)
	}
	if statuses == nil {
		statuses = []*Status{}
	}
	return c.JSON(http.StatusOK, statuses)
}

func (h *Handler) Grouped(c echo.Context) error {
	groups, err := h.svc.GroupedByCategory(c.Request().Context())
	if err != nil {
		return catalogError(err)
	}
	return c.JSON(http.StatusOK, groups)
}

func (h *Handler) Search(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	statuses, err := h.svc.Search(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if statuses == nil {
		statuses = []*Status{}
	}
	return c.JSON(http.StatusOK, statuses)
}

func (h *Handler) Get(c echo.Context) error {
	st, err := h.svc.Resolve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return catalogError(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) Register(c echo.Context) error {
	var st Status
	if err := c.Bind(&st); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Register(c.Request().Context(), &st); err != nil {
		return catalogError(err)
	}
	return c.JSON(http.StatusCreated, st)
}

func (h *Handler) Deactivate(c echo.Context) error {
	if err := h.svc.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return catalogError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Reactivate(c echo.Context) error {
	if err := h.svc.Reactivate(c.Request().Context(), c.Param("id")); err != nil {
		return catalogError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func catalogError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownStatus):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateStatus):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
