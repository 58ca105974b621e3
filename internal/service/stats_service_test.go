package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidmro/tutoring_core/internal/model"
)

// statsFixture schedules four weekly sessions for classroom 1 and records
// one delivered, one makeup-scheduled and one not-delivered event, leaving
// the fourth session pending.
func statsFixture(t *testing.T) *fixture {
	t.Helper()
	fx := newFixture()
	ctx := context.Background()

	weeks := fx.seedWeeks("2025-01-06", 4)
	for _, wk := range weeks {
		_, err := fx.sessions.AssignSession(ctx, 1, 1, wk.ID)
		require.NoError(t, err)
	}
	_, err := fx.tutors.AssignTutor(ctx, 1, 5, date("2025-01-01"))
	require.NoError(t, err)

	reason := int64(2)
	_, err = fx.attendance.RecordAttendance(ctx, RecordAttendanceInput{
		ClassroomID: 1, TimeBlockID: 1, WeekID: weeks[0].ID, TutorID: 5,
		Delivered: true, RealDate: date("2025-01-06"),
	})
	require.NoError(t, err)

	ev, err := fx.attendance.RecordAttendance(ctx, RecordAttendanceInput{
		ClassroomID: 1, TimeBlockID: 1, WeekID: weeks[1].ID, TutorID: 5,
		Delivered: false, ReasonID: &reason, RealDate: date("2025-01-13"),
	})
	require.NoError(t, err)
	_, err = fx.attendance.RegisterMakeupDate(ctx, ev.ID, date("2025-01-27"))
	require.NoError(t, err)

	_, err = fx.attendance.RecordAttendance(ctx, RecordAttendanceInput{
		ClassroomID: 1, TimeBlockID: 1, WeekID: weeks[2].ID, TutorID: 5,
		Delivered: false, ReasonID: &reason, RealDate: date("2025-01-20"),
	})
	require.NoError(t, err)

	return fx
}

func TestClassroomPeriodStats(t *testing.T) {
	fx := statsFixture(t)

	st, err := fx.stats.ClassroomPeriodStats(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 4, st.TotalSessions)
	assert.Equal(t, 1, st.Delivered)
	assert.Equal(t, 1, st.MakeupScheduled)
	assert.Equal(t, 1, st.NotDelivered)
	assert.Equal(t, 1, st.Pending)

	// Four 45-minute blocks scheduled, one delivered.
	assert.InDelta(t, 3.0, st.ScheduledHours, 1e-9)
	assert.InDelta(t, 0.75, st.DeliveredHours, 1e-9)

	// (delivered + makeup) / total = 2/4.
	assert.Equal(t, 50, st.CompliancePct)
}

func TestClassroomPeriodStatsEmpty(t *testing.T) {
	fx := newFixture()

	st, err := fx.stats.ClassroomPeriodStats(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStats{}, st)
}

func TestTutorRangeStats(t *testing.T) {
	fx := statsFixture(t)
	ctx := context.Background()

	// The full range sees all three recorded sessions.
	st, err := fx.stats.TutorRangeStats(ctx, 5, date("2025-01-01"), date("2025-01-31"))
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalSessions)
	assert.Equal(t, 1, st.Delivered)
	assert.InDelta(t, 0.75, st.DeliveredHours, 1e-9)

	// A narrower range excludes the later real dates.
	st, err = fx.stats.TutorRangeStats(ctx, 5, date("2025-01-06"), date("2025-01-13"))
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalSessions)

	// Pending sessions never show up in the tutor's range.
	st, err = fx.stats.TutorRangeStats(ctx, 5, date("2025-02-01"), date("2025-02-28"))
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalSessions)
	assert.Equal(t, 0, st.CompliancePct)
}

func TestTutorRangeStatsInvertedRange(t *testing.T) {
	fx := newFixture()

	_, err := fx.stats.TutorRangeStats(context.Background(), 5, date("2025-02-01"), date("2025-01-01"))
	require.Error(t, err)
	assert.Equal(t, model.KindBadRequest, model.KindOf(err))
}

func TestRecordStudentAttendance(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	rec, err := fx.stats.RecordStudentAttendance(ctx, 9, 1, 1, date("2025-01-06"), true)
	require.NoError(t, err)
	assert.True(t, rec.Present)

	// Same tuple twice is a conflict.
	_, err = fx.stats.RecordStudentAttendance(ctx, 9, 1, 1, date("2025-01-06"), false)
	require.Error(t, err)
	assert.Equal(t, model.KindConflict, model.KindOf(err))

	// Missing referents map to not found.
	_, err = fx.stats.RecordStudentAttendance(ctx, 9, 44, 1, date("2025-01-13"), true)
	require.Error(t, err)
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
}

func TestStudentClassroomStats(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.stats.RecordStudentAttendance(ctx, 9, 1, 1, date("2025-01-06"), true)
	require.NoError(t, err)
	_, err = fx.stats.RecordStudentAttendance(ctx, 9, 1, 1, date("2025-01-13"), true)
	require.NoError(t, err)
	_, err = fx.stats.RecordStudentAttendance(ctx, 9, 1, 1, date("2025-01-20"), false)
	require.NoError(t, err)

	st, err := fx.stats.StudentClassroomStats(ctx, 9, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Present)
	assert.Equal(t, 1, st.Absent)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 67, st.PresencePct)

	empty, err := fx.stats.StudentClassroomStats(ctx, 9, 42)
	require.NoError(t, err)
	assert.Equal(t, model.StudentStats{}, empty)
}
