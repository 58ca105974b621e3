package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidmro/tutoring_core/internal/model"
	"github.com/davidmro/tutoring_core/internal/repository/base"
)

type AttendanceRepository struct {
	base.Repository
}

func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{Repository: base.NewRepository(pool)}
}

const attendanceColumns = `id, session_id, tutor_id, real_date, delivered, reason_id, makeup_date, created_at`

// Insert records an attendance event. The unique index on session_id is
// the exactly-once backstop: a concurrent duplicate surfaces as Conflict.
func (r *AttendanceRepository) Insert(ctx context.Context, ev *model.AttendanceEvent) error {
	query := `
		INSERT INTO attendance_events (session_id, tutor_id, real_date, delivered, reason_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.DB(ctx).QueryRow(ctx, query, ev.SessionID, ev.TutorID, ev.RealDate, ev.Delivered, ev.ReasonID).
		Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		return base.Translate(err, "insert attendance event")
	}
	return nil
}

// GetByID returns the event or nil when it does not exist.
func (r *AttendanceRepository) GetByID(ctx context.Context, id int64) (*model.AttendanceEvent, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_events
		WHERE id = $1
	`

	return r.scanOne(ctx, query, id)
}

// GetBySessionID returns the session's event, or nil. At most one exists.
func (r *AttendanceRepository) GetBySessionID(ctx context.Context, sessionID int64) (*model.AttendanceEvent, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_events
		WHERE session_id = $1
	`

	return r.scanOne(ctx, query, sessionID)
}

// ExistsForSession reports whether the session already has an event.
func (r *AttendanceRepository) ExistsForSession(ctx context.Context, sessionID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM attendance_events WHERE session_id = $1)`

	var exists bool
	if err := r.DB(ctx).QueryRow(ctx, query, sessionID).Scan(&exists); err != nil {
		return false, base.Translate(err, "check attendance exists")
	}
	return exists, nil
}

// ExistsByTutorBlockDate checks the exactly-once tuple
// (tutor, classroom, block, real date) across the classroom's sessions.
func (r *AttendanceRepository) ExistsByTutorBlockDate(ctx context.Context, tutorID, classroomID, timeBlockID int64, realDate time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM attendance_events e
			JOIN scheduled_sessions s ON s.id = e.session_id
			WHERE e.tutor_id = $1
			  AND s.classroom_id = $2
			  AND s.time_block_id = $3
			  AND e.real_date = $4
		)
	`

	var exists bool
	err := r.DB(ctx).QueryRow(ctx, query, tutorID, classroomID, timeBlockID, model.TruncateDate(realDate)).Scan(&exists)
	if err != nil {
		return false, base.Translate(err, "check attendance tuple exists")
	}
	return exists, nil
}

// SetMakeupDate stamps the makeup date on an event that has none yet.
// The WHERE clause makes the set-once rule race-safe: a second writer
// matches zero rows.
func (r *AttendanceRepository) SetMakeupDate(ctx context.Context, id int64, makeupDate time.Time) (bool, error) {
	query := `
		UPDATE attendance_events
		SET makeup_date = $1
		WHERE id = $2 AND delivered = FALSE AND makeup_date IS NULL
	`

	tag, err := r.DB(ctx).Exec(ctx, query, makeupDate, id)
	if err != nil {
		return false, base.Translate(err, "set makeup date")
	}
	return tag.RowsAffected() > 0, nil
}

// Update rewrites the mutable fields of an event after a patch.
func (r *AttendanceRepository) Update(ctx context.Context, ev *model.AttendanceEvent) error {
	query := `
		UPDATE attendance_events
		SET session_id = $1, tutor_id = $2, real_date = $3, delivered = $4, reason_id = $5
		WHERE id = $6
	`

	tag, err := r.DB(ctx).Exec(ctx, query, ev.SessionID, ev.TutorID, ev.RealDate, ev.Delivered, ev.ReasonID, ev.ID)
	if err != nil {
		return base.Translate(err, "update attendance event")
	}
	if tag.RowsAffected() == 0 {
		return model.NotFound("attendance event %d not found", ev.ID)
	}
	return nil
}

// ListDetailsByTutorRange returns the tutor's events in [from, to] with
// session, week and block joined; this feeds the tutor statistics.
func (r *AttendanceRepository) ListDetailsByTutorRange(ctx context.Context, tutorID int64, from, to time.Time) ([]model.SessionDetail, error) {
	query := `
		SELECT s.id, s.classroom_id, s.time_block_id, s.week_id, s.created_at,
		       w.id, w.period_id, w.batch_id, w.start_date, w.end_date, w.created_at,
		       b.id, b.weekday, b.start_hour, b.start_minute, b.duration_minutes, b.created_at,
		       e.id, e.session_id, e.tutor_id, e.real_date, e.delivered, e.reason_id, e.makeup_date, e.created_at
		FROM attendance_events e
		JOIN scheduled_sessions s ON s.id = e.session_id
		JOIN weeks w ON w.id = s.week_id
		JOIN time_blocks b ON b.id = s.time_block_id
		WHERE e.tutor_id = $1 AND e.real_date >= $2 AND e.real_date <= $3
		ORDER BY e.real_date, b.start_hour, b.start_minute
	`

	rows, err := r.DB(ctx).Query(ctx, query, tutorID, model.TruncateDate(from), model.TruncateDate(to))
	if err != nil {
		return nil, base.Translate(err, "list attendance by tutor range")
	}
	defer rows.Close()

	var details []model.SessionDetail
	for rows.Next() {
		var d model.SessionDetail
		var w model.Week
		var b model.TimeBlock
		var ev model.AttendanceEvent
		err := rows.Scan(
			&d.Session.ID, &d.Session.ClassroomID, &d.Session.TimeBlockID, &d.Session.WeekID, &d.Session.CreatedAt,
			&w.ID, &w.PeriodID, &w.BatchID, &w.StartDate, &w.EndDate, &w.CreatedAt,
			&b.ID, &b.Weekday, &b.StartHour, &b.StartMinute, &b.DurationMinutes, &b.CreatedAt,
			&ev.ID, &ev.SessionID, &ev.TutorID, &ev.RealDate, &ev.Delivered, &ev.ReasonID, &ev.MakeupDate, &ev.CreatedAt,
		)
		if err != nil {
			return nil, base.Translate(err, "scan attendance detail")
		}
		d.Session.Week = &w
		d.Session.Block = &b
		d.Event = &ev
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Translate(err, "list attendance by tutor range")
	}

	return details, nil
}

func (r *AttendanceRepository) scanOne(ctx context.Context, query string, args ...any) (*model.AttendanceEvent, error) {
	var ev model.AttendanceEvent
	err := r.DB(ctx).QueryRow(ctx, query, args...).Scan(
		&ev.ID,
		&ev.SessionID,
		&ev.TutorID,
		&ev.RealDate,
		&ev.Delivered,
		&ev.ReasonID,
		&ev.MakeupDate,
		&ev.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Translate(err, "get attendance event")
	}
	return &ev, nil
}
