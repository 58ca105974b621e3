package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/davidmro/tutoring_core/internal/model"
)

func (ct *Controller) classroomStats(c echo.Context) error {
	classroomID, err := pathID(c)
	if err != nil {
		return err
	}
	periodID, err := queryID(c, "period")
	if err != nil {
		return err
	}

	stats, err := ct.stats.ClassroomPeriodStats(c.Request().Context(), classroomID, periodID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"classroom_id": classroomID,
		"period_id":    periodID,
		"stats":        stats,
	})
}

func (ct *Controller) tutorStats(c echo.Context) error {
	tutorID, err := pathID(c)
	if err != nil {
		return err
	}
	from, err := parseDate("from", c.QueryParam("from"))
	if err != nil {
		return err
	}
	to, err := parseDate("to", c.QueryParam("to"))
	if err != nil {
		return err
	}

	stats, err := ct.stats.TutorRangeStats(c.Request().Context(), tutorID, from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"tutor_id": tutorID,
		"from":     model.TruncateDate(from).Format(model.DateLayout),
		"to":       model.TruncateDate(to).Format(model.DateLayout),
		"stats":    stats,
	})
}

type recordStudentAttendanceRequest struct {
	StudentID   int64  `json:"student_id" validate:"required,min=1"`
	ClassroomID int64  `json:"classroom_id" validate:"required,min=1"`
	TimeBlockID int64  `json:"time_block_id" validate:"required,min=1"`
	RealDate    string `json:"real_date" validate:"required"`
	Present     *bool  `json:"present" validate:"required"`
}

func (ct *Controller) recordStudentAttendance(c echo.Context) error {
	var req recordStudentAttendanceRequest
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

	record, err := ct.stats.RecordStudentAttendance(c.Request().Context(),
		req.StudentID, req.ClassroomID, req.TimeBlockID, realDate, *req.Present)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{"record": record})
}

func (ct *Controller) studentStats(c echo.Context) error {
	studentID, err := pathID(c)
	if err != nil {
		return err
	}
	classroomID, err := queryID(c, "classroom")
	if err != nil {
		return err
	}

	stats, err := ct.stats.StudentClassroomStats(c.Request().Context(), studentID, classroomID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"student_id":   studentID,
		"classroom_id": classroomID,
		"stats":        stats,
	})
}
