package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidmro/tutoring_core/internal/model"
)

func TestGenerateWeeks(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	created, err := fx.calendar.GenerateWeeks(ctx, 1, date("2025-01-06"), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, created)
	require.Len(t, fx.store.weeks, 4)

	// Weeks are contiguous: each end + 1 day = next start.
	for i := 0; i < len(fx.store.weeks)-1; i++ {
		cur, next := fx.store.weeks[i], fx.store.weeks[i+1]
		assert.Equal(t, cur.EndDate.AddDate(0, 0, 1), next.StartDate, "week %d not contiguous", i)
		assert.Equal(t, cur.StartDate.AddDate(0, 0, 6), cur.EndDate)
	}
	assert.Equal(t, date("2025-01-06"), fx.store.weeks[0].StartDate)
	assert.Equal(t, date("2025-02-02"), fx.store.weeks[3].EndDate)

	// All weeks of one run share a batch id.
	for _, w := range fx.store.weeks {
		assert.Equal(t, fx.store.weeks[0].BatchID, w.BatchID)
	}
}

func TestGenerateWeeksPeriodNotFound(t *testing.T) {
	fx := newFixture()

	_, err := fx.calendar.GenerateWeeks(context.Background(), 99, date("2025-01-06"), 4)
	require.Error(t, err)
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
}

func TestGenerateWeeksRefusesRegeneration(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.calendar.GenerateWeeks(ctx, 1, date("2025-01-06"), 4)
	require.NoError(t, err)

	_, err = fx.calendar.GenerateWeeks(ctx, 1, date("2025-03-03"), 2)
	require.Error(t, err)
	assert.Equal(t, model.KindConflict, model.KindOf(err))
	assert.Len(t, fx.store.weeks, 4, "failed regeneration must not add weeks")
}

func TestGenerateWeeksRejectsZeroCount(t *testing.T) {
	fx := newFixture()

	_, err := fx.calendar.GenerateWeeks(context.Background(), 1, date("2025-01-06"), 0)
	require.Error(t, err)
	assert.Equal(t, model.KindBadRequest, model.KindOf(err))
}

func TestClearWeeks(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.calendar.GenerateWeeks(ctx, 1, date("2025-01-06"), 4)
	require.NoError(t, err)

	deleted, err := fx.calendar.ClearWeeks(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 4, deleted)
	assert.Empty(t, fx.store.weeks)

	// A second clear has nothing to delete.
	_, err = fx.calendar.ClearWeeks(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, model.KindConflict, model.KindOf(err))
}

func TestClearWeeksRefusedWhileReferenced(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	weeks := fx.seedWeeks("2025-01-06", 4)
	_, err := fx.sessions.AssignSession(ctx, 1, 1, weeks[0].ID)
	require.NoError(t, err)

	_, err = fx.calendar.ClearWeeks(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, model.KindConflict, model.KindOf(err))
	assert.Len(t, fx.store.weeks, 4)
}

func TestCalendarSummary(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.calendar.Summary(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, model.KindNotFound, model.KindOf(err))

	_, err = fx.calendar.GenerateWeeks(ctx, 1, date("2025-01-06"), 4)
	require.NoError(t, err)

	sum, err := fx.calendar.Summary(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.WeekCount)
	assert.Equal(t, date("2025-01-06"), sum.FirstStart)
	assert.Equal(t, date("2025-02-02"), sum.LastEnd)
	assert.Equal(t, 28, sum.SpanDays)
}
