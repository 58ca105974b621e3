package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidmro/tutoring_core/internal/model"
	"github.com/davidmro/tutoring_core/internal/repository/base"
)

type SessionRepository struct {
	base.Repository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(pool)}
}

// Insert creates a scheduled session. The unique index on the triple is
// the backstop against a concurrent duplicate; its violation surfaces as
// Conflict via Translate.
func (r *SessionRepository) Insert(ctx context.Context, s *model.ScheduledSession) error {
	query := `
		INSERT INTO scheduled_sessions (classroom_id, time_block_id, week_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.DB(ctx).QueryRow(ctx, query, s.ClassroomID, s.TimeBlockID, s.WeekID).
		Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return base.Translate(err, "insert session")
	}
	return nil
}

// GetByID returns the session or nil when it does not exist.
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*model.ScheduledSession, error) {
	query := `
		SELECT id, classroom_id, time_block_id, week_id, created_at
		FROM scheduled_sessions
		WHERE id = $1
	`

	var s model.ScheduledSession
	err := r.DB(ctx).QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.ClassroomID,
		&s.TimeBlockID,
		&s.WeekID,
		&s.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Translate(err, "get session by id")
	}

	return &s, nil
}

// GetByTriple looks a session up by its identifying triple.
func (r *SessionRepository) GetByTriple(ctx context.Context, classroomID, timeBlockID, weekID int64) (*model.ScheduledSession, error) {
	query := `
		SELECT id, classroom_id, time_block_id, week_id, created_at
		FROM scheduled_sessions
		WHERE classroom_id = $1 AND time_block_id = $2 AND week_id = $3
	`

	var s model.ScheduledSession
	err := r.DB(ctx).QueryRow(ctx, query, classroomID, timeBlockID, weekID).Scan(
		&s.ID,
		&s.ClassroomID,
		&s.TimeBlockID,
		&s.WeekID,
		&s.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, base.Translate(err, "get session by triple")
	}

	return &s, nil
}

// Delete removes a session by id.
func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM scheduled_sessions WHERE id = $1`

	tag, err := r.DB(ctx).Exec(ctx, query, id)
	if err != nil {
		return base.Translate(err, "delete session")
	}
	if tag.RowsAffected() == 0 {
		return model.NotFound("session %d not found", id)
	}
	return nil
}

const sessionListSelect = `
	SELECT s.id, s.classroom_id, s.time_block_id, s.week_id, s.created_at,
	       w.id, w.period_id, w.batch_id, w.start_date, w.end_date, w.created_at,
	       b.id, b.weekday, b.start_hour, b.start_minute, b.duration_minutes, b.created_at
	FROM scheduled_sessions s
	JOIN weeks w ON w.id = s.week_id
	JOIN time_blocks b ON b.id = s.time_block_id
`

// ListByClassroom returns the classroom's sessions with week and block
// joined, ordered by week start, then weekday, then start time.
func (r *SessionRepository) ListByClassroom(ctx context.Context, classroomID int64) ([]model.ScheduledSession, error) {
	query := sessionListSelect + `
		WHERE s.classroom_id = $1
		ORDER BY w.start_date, b.weekday, b.start_hour, b.start_minute
	`

	rows, err := r.DB(ctx).Query(ctx, query, classroomID)
	if err != nil {
		return nil, base.Translate(err, "list sessions by classroom")
	}
	defer rows.Close()

	var sessions []model.ScheduledSession
	for rows.Next() {
		var s model.ScheduledSession
		var w model.Week
		var b model.TimeBlock
		err := rows.Scan(
			&s.ID, &s.ClassroomID, &s.TimeBlockID, &s.WeekID, &s.CreatedAt,
			&w.ID, &w.PeriodID, &w.BatchID, &w.StartDate, &w.EndDate, &w.CreatedAt,
			&b.ID, &b.Weekday, &b.StartHour, &b.StartMinute, &b.DurationMinutes, &b.CreatedAt,
		)
		if err != nil {
			return nil, base.Translate(err, "scan session")
		}
		s.Week = &w
		s.Block = &b
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Translate(err, "list sessions by classroom")
	}

	return sessions, nil
}

const sessionDetailSelect = `
	SELECT s.id, s.classroom_id, s.time_block_id, s.week_id, s.created_at,
	       w.id, w.period_id, w.batch_id, w.start_date, w.end_date, w.created_at,
	       b.id, b.weekday, b.start_hour, b.start_minute, b.duration_minutes, b.created_at,
	       e.id, e.session_id, e.tutor_id, e.real_date, e.delivered, e.reason_id, e.makeup_date, e.created_at
	FROM scheduled_sessions s
	JOIN weeks w ON w.id = s.week_id
	JOIN time_blocks b ON b.id = s.time_block_id
	LEFT JOIN attendance_events e ON e.session_id = s.id
`

// ListDetailsByClassroom returns session details (block + event joined)
// for lifecycle-state listings across the whole classroom.
func (r *SessionRepository) ListDetailsByClassroom(ctx context.Context, classroomID int64) ([]model.SessionDetail, error) {
	query := sessionDetailSelect + `
		WHERE s.classroom_id = $1
		ORDER BY w.start_date, b.weekday, b.start_hour, b.start_minute
	`
	return r.queryDetails(ctx, query, classroomID)
}

// ListDetailsByClassroomPeriod restricts the detail listing to one
// period's calendar; this feeds the classroom/period statistics.
func (r *SessionRepository) ListDetailsByClassroomPeriod(ctx context.Context, classroomID, periodID int64) ([]model.SessionDetail, error) {
	query := sessionDetailSelect + `
		WHERE s.classroom_id = $1 AND w.period_id = $2
		ORDER BY w.start_date, b.weekday, b.start_hour, b.start_minute
	`
	return r.queryDetails(ctx, query, classroomID, periodID)
}

func (r *SessionRepository) queryDetails(ctx context.Context, query string, args ...any) ([]model.SessionDetail, error) {
	rows, err := r.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, base.Translate(err, "list session details")
	}
	defer rows.Close()

	var details []model.SessionDetail
	for rows.Next() {
		var d model.SessionDetail
		var w model.Week
		var b model.TimeBlock

		// Event columns come from a LEFT JOIN and may all be NULL.
		var evID, evSession, evTutor, evReason *int64
		var evDelivered *bool
		var evReal, evMakeup, evCreated *time.Time

		err := rows.Scan(
			&d.Session.ID, &d.Session.ClassroomID, &d.Session.TimeBlockID, &d.Session.WeekID, &d.Session.CreatedAt,
			&w.ID, &w.PeriodID, &w.BatchID, &w.StartDate, &w.EndDate, &w.CreatedAt,
			&b.ID, &b.Weekday, &b.StartHour, &b.StartMinute, &b.DurationMinutes, &b.CreatedAt,
			&evID, &evSession, &evTutor, &evReal, &evDelivered, &evReason, &evMakeup, &evCreated,
		)
		if err != nil {
			return nil, base.Translate(err, "scan session detail")
		}
		d.Session.Week = &w
		d.Session.Block = &b
		if evID != nil {
			d.Event = &model.AttendanceEvent{
				ID:         *evID,
				SessionID:  *evSession,
				TutorID:    *evTutor,
				RealDate:   *evReal,
				Delivered:  *evDelivered,
				ReasonID:   evReason,
				MakeupDate: evMakeup,
				CreatedAt:  *evCreated,
			}
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Translate(err, "list session details")
	}

	return details, nil
}
