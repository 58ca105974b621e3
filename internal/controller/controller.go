package controller

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/davidmro/tutoring_core/internal/model"
	"github.com/davidmro/tutoring_core/internal/service"
)

// Controller exposes the engine's operations over HTTP. It holds the
// services and the request validator; all error shaping happens in the
// central HTTPErrorHandler.
type Controller struct {
	calendar   *service.CalendarService
	sessions   *service.SessionService
	tutors     *service.TutorService
	attendance *service.AttendanceService
	stats      *service.StatsService
	logger     *zap.Logger
}

func NewController(
	calendar *service.CalendarService,
	sessions *service.SessionService,
	tutors *service.TutorService,
	attendance *service.AttendanceService,
	stats *service.StatsService,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		calendar:   calendar,
		sessions:   sessions,
		tutors:     tutors,
		attendance: attendance,
		stats:      stats,
		logger:     logger,
	}
}

// Register mounts every route on the group.
func (ct *Controller) Register(g *echo.Group) {
	g.POST("/periods/:id/weeks:generate", ct.generateWeeks)
	g.DELETE("/periods/:id/weeks", ct.clearWeeks)
	g.GET("/periods/:id/calendar", ct.calendarSummary)

	g.POST("/sessions", ct.assignSession)
	g.POST("/sessions:by-date", ct.assignSessionByDate)
	g.DELETE("/sessions", ct.removeSession)
	g.GET("/classrooms/:id/sessions", ct.listSessions)
	g.GET("/classrooms/:id/session-states", ct.sessionStates)

	g.POST("/classrooms/:id/tutors", ct.assignTutor)
	g.POST("/classrooms/:id/tutors:deassign", ct.deassignTutor)
	g.GET("/classrooms/:id/tutors", ct.listTutors)

	g.POST("/attendance", ct.recordAttendance)
	g.POST("/attendance/:id/makeup", ct.registerMakeup)
	g.PATCH("/attendance/:id", ct.updateAttendance)

	g.GET("/classrooms/:id/stats", ct.classroomStats)
	g.GET("/tutors/:id/stats", ct.tutorStats)
	g.POST("/student-attendance", ct.recordStudentAttendance)
	g.GET("/students/:id/stats", ct.studentStats)
}

// Validator adapts go-playground/validator for echo.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, model.BadRequestField("id", "invalid id %q", c.Param("id"))
	}
	return id, nil
}

func queryID(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, model.BadRequestField(name, "invalid %s %q", name, raw)
	}
	return id, nil
}

func parseDate(field, raw string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return time.Time{}, model.BadRequestField(field, "invalid date %q, want YYYY-MM-DD", raw)
	}
	return d, nil
}
