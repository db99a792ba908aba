package chart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dentio/dentio/internal/domain/catalog"
	"github.com/dentio/dentio/internal/domain/tooth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients/:patient_id/examinations/:exam_id/chart", h.Initialize)
	api.GET("/patients/:patient_id/examinations/:exam_id/chart", h.GetChart)
	api.GET("/patients/:patient_id/examinations/:exam_id/chart/:quadrant/:position", h.GetCell)
	api.PUT("/patients/:patient_id/examinations/:exam_id/chart/:quadrant/:position", h.UpdateCell)
}

func (h *Handler) Initialize(c echo.Context) error {
	patient, exam, err := chartIdentity(c)
	if err != nil {
		return err
	}
	created, err := h.svc.Initialize(c.Request().Context(), patient, exam)
	if err != nil {
		return chartError(err)
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	return c.JSON(status, map[string]bool{"created": created})
}

func (h *Handler) GetChart(c echo.Context) error {
	patient, exam, err := chartIdentity(c)
	if err != nil {
		return err
	}
	grouped, err := h.svc.GetChart(c.Request().Context(), patient, exam)
	if err != nil {
		return chartError(err)
	}
	return c.JSON(http.StatusOK, grouped)
}

func (h *Handler) GetCell(c echo.Context) error {
	patient, exam, err := chartIdentity(c)
	if err != nil {
		return err
	}
	quadrant, position, err := cellPlacement(c)
	if err != nil {
		return err
	}
	cell, err := h.svc.GetCell(c.Request().Context(), patient, exam, quadrant, position)
	if err != nil {
		return chartError(err)
	}
	return c.JSON(http.StatusOK, cell)
}

func (h *Handler) UpdateCell(c echo.Context) error {
	patient, exam, err := chartIdentity(c)
	if err != nil {
		return err
	}
	quadrant, position, err := cellPlacement(c)
	if err != nil {
		return err
	}
	var update CellUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	strict, _ := strconv.ParseBool(c.QueryParam("strict"))
	cell, err := h.svc.UpdateCell(c.Request().Context(), patient, exam, quadrant, position, update, strict)
	if err != nil {
		return chartError(err)
	}
	return c.JSON(http.StatusOK, cell)
}

func chartIdentity(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	patient, err := uuid.Parse(c.Param("patient_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	exam, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid exam_id")
	}
	return patient, exam, nil
}

func cellPlacement(c echo.Context) (int, int, error) {
	quadrant, err := strconv.Atoi(c.Param("quadrant"))
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid quadrant")
	}
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid position")
	}
	return quadrant, position, nil
}

func chartError(err error) error {
	switch {
	case errors.Is(err, tooth.ErrInvalidToothNumber):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrUnknownStatus):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrChartNotInitialized), errors.Is(err, ErrCellNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
