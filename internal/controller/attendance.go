package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/davidmro/tutoring_core/internal/model"
	"github.com/davidmro/tutoring_core/internal/service"
)

type recordAttendanceRequest struct {
	ClassroomID int64  `json:"classroom_id" validate:"required,min=1"`
	TimeBlockID int64  `json:"time_block_id" validate:"required,min=1"`
	WeekID      int64  `json:"week_id" validate:"required,min=1"`
	TutorID     int64  `json:"tutor_id" validate:"required,min=1"`
	Delivered   *bool  `json:"delivered" validate:"required"`
	ReasonID    *int64 `json:"reason_id"`
	RealDate    string `json:"real_date" validate:"required"`
}

func (ct *Controller) recordAttendance(c echo.Context) error {
	var req recordAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return model.BadRequest("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	realDate, err := parseDate("real_date", req.RealDate)
	if err != nil {
		return err
	}

	event, err := ct.attendance.RecordAttendance(c.Request().Context(), service.RecordAttendanceInput{
		ClassroomID: req.ClassroomID,
		TimeBlockID: req.TimeBlockID,
		WeekID:      req.WeekID,
		TutorID:     req.TutorID,
		Delivered:   *req.Delivered,
		ReasonID:    req.ReasonID,
		RealDate:    realDate,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"event": event,
		"state": model.StateOf(event),
	})
}

type registerMakeupRequest struct {
	MakeupDate string `json:"makeup_date" validate:"required"`
}

func (ct *Controller) registerMakeup(c echo.Context) error {
	eventID, err := pathID(c)
	if err != nil {
		return err
	}

	var req registerMakeupRequest
	if err := c.Bind(&req); err != nil {
		return model.BadRequest("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	date, err := parseDate("makeup_date", req.MakeupDate)
	if err != nil {
		return err
	}

	event, err := ct.attendance.RegisterMakeupDate(c.Request().Context(), eventID, date)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"event": event,
		"state": model.StateOf(event),
		// The makeup session itself is a separate, explicit step.
		"next_step": "create the makeup session via POST /v1/sessions:by-date",
	})
}

type updateAttendanceRequest struct {
	RealDate    *string `json:"real_date"`
	Delivered   *bool   `json:"delivered"`
	ReasonID    *int64  `json:"reason_id"`
	ClearReason bool    `json:"clear_reason"`
	TutorID     *int64  `json:"tutor_id"`
	ClassroomID *int64  `json:"classroom_id"`
	TimeBlockID *int64  `json:"time_block_id"`
	WeekID      *int64  `json:"week_id"`
}

func (ct *Controller) updateAttendance(c echo.Context) error {
	eventID, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return model.BadRequest("malformed request body")
	}

	patch := model.AttendancePatch{
		Delivered:   req.Delivered,
		ReasonID:    req.ReasonID,
		ClearReason: req.ClearReason,
		TutorID:     req.TutorID,
		ClassroomID: req.ClassroomID,
		TimeBlockID: req.TimeBlockID,
		WeekID:      req.WeekID,
	}
	if req.RealDate != nil {
		d, err := parseDate("real_date", *req.RealDate)
		if err != nil {
			return err
		}
		patch.RealDate = &d
	}

	event, err := ct.attendance.UpdateAttendance(c.Request().Context(), eventID, patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"event": event,
		"state": model.StateOf(event),
	})
}
