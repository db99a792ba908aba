package history

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dentio/dentio/internal/domain/catalog"
	"github.com/dentio/dentio/internal/domain/tooth"
)

type Handler struct {
	svc      *Service
	resolver *Resolver
}

func NewHandler(svc *Service, resolver *Resolver) *Handler {
	return &Handler{svc: svc, resolver: resolver}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients/:patient_id/teeth/:tooth/history", h.Append)
	api.DELETE("/patients/:patient_id/teeth/:tooth/history/last", h.RollbackLast)
	api.GET("/patients/:patient_id/teeth/:tooth/history", h.Read)
	api.GET("/patients/:patient_id/teeth/:tooth/history/full", h.FullHistory)
	api.GET("/patients/:patient_id/teeth/:tooth/timeline", h.Timeline)
	api.GET("/patients/:patient_id/teeth/:tooth/status", h.CurrentStatus)
	api.GET("/patients/:patient_id/mouth-summary", h.MouthSummary)
	api.GET("/history/statistics", h.Statistics)
}

type appendRequest struct {
	Source      string     `json:"source"`
	Status      string     `json:"status"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
}

func (h *Handler) Append(c echo.Context) error {
	patient, toothNumber, err := pathIdentity(c)
	if err != nil {
		return err
	}
	var req appendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	stream, err := h.svc.Append(c.Request().Context(), patient, toothNumber, req.Source, req.Status, req.Description, date)
	if err != nil {
		return historyError(err)
	}
	return c.JSON(http.StatusCreated, stream)
}

func (h *Handler) RollbackLast(c echo.Context) error {
	patient, toothNumber, err := pathIdentity(c)
	if err != nil {
		return err
	}
	removed, err := h.svc.RollbackLast(c.Request().Context(), patient, toothNumber, c.QueryParam("source"))
	if err != nil {
		return historyError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"removed": removed})
}

func (h *Handler) Read(c echo.Context) error {
	patient, toothNumber, err := pathIdentity(c)
	if err != nil {
		return err
	}
	streams, err := h.svc.Read(c.Request().Context(), patient, toothNumber, c.QueryParam("source"))
	if err != nil {
		return historyError(err)
	}
	return c.JSON(http.StatusOK, streams)
}

func (h *Handler) FullHistory(c echo.Context) error {
	patient, toothNumber, err := pathIdentity(c)
	if err != nil {
		return err
	}
	fh, err := h.svc.FullHistory(c.Request().Context(), patient, toothNumber)
	if err != nil {
		return historyError(err)
	}
	return c.JSON(http.StatusOK, fh)
}

func (h *Handler) Timeline(c echo.Context) error {
	patient, toothNumber, err := pathIdentity(c)
	if err != nil {
		return err
	}
	entries, err := h.svc.Timeline(c.Request().Context(), patient, toothNumber)
	if err != nil {
		return historyError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) CurrentStatus(c echo.Context) error {
	patient, toothNumber, err := pathIdentity(c)
	if err != nil {
		return err
	}
	state, err := h.resolver.CurrentStatus(c.Request().Context(), patient, toothNumber)
	if err != nil {
		return historyError(err)
	}
	return c.JSON(http.StatusOK, state)
}

func (h *Handler) MouthSummary(c echo.Context) error {
	patient, err := uuid.Parse(c.Param("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	summary, err := h.resolver.MouthSummary(c.Request().Context(), patient)
	if err != nil {
		return historyError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) Statistics(c echo.Context) error {
	var patient *uuid.UUID
	if raw := c.QueryParam("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		patient = &id
	}
	stats, err := h.svc.Statistics(c.Request().Context(), patient)
	if err != nil {
		return historyError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func pathIdentity(c echo.Context) (uuid.UUID, int, error) {
	patient, err := uuid.Parse(c.Param("patient_id"))
	if err != nil {
		return uuid.Nil, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	toothNumber, err := strconv.Atoi(c.Param("tooth"))
	if err != nil {
		return uuid.Nil, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid tooth number")
	}
	return patient, toothNumber, nil
}

func historyError(err error) error {
	switch {
	case errors.Is(err, tooth.ErrInvalidToothNumber),
		errors.Is(err, tooth.ErrInvalidSource):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrUnknownStatus):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrStreamNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
