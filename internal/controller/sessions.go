package controller

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/davidmro/tutoring_core/internal/model"
)

type assignSessionRequest struct {
	ClassroomID int64 `json:"classroom_id" validate:"required,min=1"`
	TimeBlockID int64 `json:"time_block_id" validate:"required,min=1"`
	WeekID      int64 `json:"week_id" validate:"required,min=1"`
}

func (ct *Controller) assignSession(c echo.Context) error {
	var req assignSessionRequest
	if err := c.Bind(&req); err != nil {
		return model.BadRequest("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := ct.sessions.AssignSession(c.Request().Context(), req.ClassroomID, req.TimeBlockID, req.WeekID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"session": session,
		"message": "session scheduled",
	})
}

type assignSessionByDateRequest struct {
	ClassroomID int64  `json:"classroom_id" validate:"required,min=1"`
	TimeBlockID int64  `json:"time_block_id" validate:"required,min=1"`
	Date        string `json:"date" validate:"required"`
}

func (ct *Controller) assignSessionByDate(c echo.Context) error {
	var req assignSessionByDateRequest
	if err := c.Bind(&req); err != nil {
		return model.BadRequest("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}

	session, err := ct.sessions.AssignSessionByDate(c.Request().Context(), req.ClassroomID, req.TimeBlockID, date)
	if err != nil {
		return err
	}

	msg := "session scheduled"
	if session.Week != nil {
		msg = fmt.Sprintf("session scheduled in week %d (%s to %s)",
			session.Week.ID,
			session.Week.StartDate.Format(model.DateLayout),
			session.Week.EndDate.Format(model.DateLayout))
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"session": session,
		"message": msg,
	})
}

func (ct *Controller) removeSession(c echo.Context) error {
	var req assignSessionRequest
	if err := c.Bind(&req); err != nil {
		return model.BadRequest("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := ct.sessions.RemoveSession(c.Request().Context(), req.ClassroomID, req.TimeBlockID, req.WeekID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "session removed"})
}

func (ct *Controller) listSessions(c echo.Context) error {
	classroomID, err := pathID(c)
	if err != nil {
		return err
	}

	sessions, err := ct.sessions.ListByClassroom(c.Request().Context(), classroomID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"sessions": sessions})
}

func (ct *Controller) sessionStates(c echo.Context) error {
	classroomID, err := pathID(c)
	if err != nil {
		return err
	}

	states, err := ct.sessions.States(c.Request().Context(), classroomID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"sessions": states})
}
