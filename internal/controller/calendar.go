package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/davidmro/tutoring_core/internal/model"
)

type generateWeeksRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	WeekCount int    `json:"week_count" validate:"required,min=1"`
}

type generateWeeksResponse struct {
	PeriodID     int64  `json:"period_id"`
	WeeksCreated int    `json:"weeks_created"`
	StartDate    string `json:"start_date"`
}

func (ct *Controller) generateWeeks(c echo.Context) error {
	periodID, err := pathID(c)
	if err != nil {
		return err
	}

	var req generateWeeksRequest
	if err := c.Bind(&req); err != nil {
		return model.BadRequest("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return err
	}

	created, err := ct.calendar.GenerateWeeks(c.Request().Context(), periodID, start, req.WeekCount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, generateWeeksResponse{
		PeriodID:     periodID,
		WeeksCreated: created,
		StartDate:    model.TruncateDate(start).Format(model.DateLayout),
	})
}

func (ct *Controller) clearWeeks(c echo.Context) error {
	periodID, err := pathID(c)
	if err != nil {
		return err
	}

	deleted, err := ct.calendar.ClearWeeks(c.Request().Context(), periodID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"period_id": periodID, "weeks_deleted": deleted})
}

type calendarSummaryResponse struct {
	PeriodID   int64  `json:"period_id"`
	WeekCount  int    `json:"week_count"`
	FirstStart string `json:"first_start"`
	LastEnd    string `json:"last_end"`
	SpanDays   int    `json:"span_days"`
}

func (ct *Controller) calendarSummary(c echo.Context) error {
	periodID, err := pathID(c)
	if err != nil {
		return err
	}

	sum, err := ct.calendar.Summary(c.Request().Context(), periodID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, calendarSummaryResponse{
		PeriodID:   sum.PeriodID,
		WeekCount:  sum.WeekCount,
		FirstStart: sum.FirstStart.Format(model.DateLayout),
		LastEnd:    sum.LastEnd.Format(model.DateLayout),
		SpanDays:   sum.SpanDays,
	})
}
