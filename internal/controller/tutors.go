package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/davidmro/tutoring_core/internal/model"
)

type assignTutorRequest struct {
	TutorID      int64  `json:"tutor_id" validate:"required,min=1"`
	AssignedFrom string `json:"assigned_from" validate:"required"`
}

func (ct *Controller) assignTutor(c echo.Context) error {
	classroomID, err := pathID(c)
	if err != nil {
		return err
	}

	var req assignTutorRequest
	if err := c.Bind(&req); err != nil {
		return model.BadRequest("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	from, err := parseDate("assigned_from", req.AssignedFrom)
	if err != nil {
		return err
	}

	assignment, err := ct.tutors.AssignTutor(c.Request().Context(), classroomID, req.TutorID, from)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{"assignment": assignment})
}

type deassignTutorRequest struct {
	TutorID       int64  `json:"tutor_id" validate:"required,min=1"`
	AssignedUntil string `json:"assigned_until" validate:"required"`
}

func (ct *Controller) deassignTutor(c echo.Context) error {
	classroomID, err := pathID(c)
	if err != nil {
		return err
	}

	var req deassignTutorRequest
	if err := c.Bind(&req); err != nil {
		return model.BadRequest("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	until, err := parseDate("assigned_until", req.AssignedUntil)
	if err != nil {
		return err
	}

	assignment, err := ct.tutors.DeassignTutor(c.Request().Context(), classroomID, req.TutorID, until)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"assignment": assignment})
}

// listTutors returns the classroom's current tutors, or the full stint
// history with ?history=true.
func (ct *Controller) listTutors(c echo.Context) error {
	classroomID, err := pathID(c)
	if err != nil {
		return err
	}

	var assignments []model.TutorAssignment
	if c.QueryParam("history") == "true" {
		assignments, err = ct.tutors.TutorHistory(c.Request().Context(), classroomID)
	} else {
		assignments, err = ct.tutors.CurrentTutors(c.Request().Context(), classroomID)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"assignments": assignments})
}
