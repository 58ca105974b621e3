package model

import (
	"time"

	"github.com/google/uuid"
)

// WeekDays is the length of every generated calendar week.
const WeekDays = 7

// Week is a generated 7-day calendar slot owned by exactly one period.
// All weeks created by one generation run share a BatchID.
type Week struct {
	ID        int64     `json:"id"`
	PeriodID  int64     `json:"period_id"`
	BatchID   uuid.UUID `json:"batch_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// Contains reports whether date falls inside the week's [start, end] interval.
// EndDate is start+6 days, so consecutive weeks tile the calendar with no gap.
func (w *Week) Contains(date time.Time) bool {
	d := TruncateDate(date)
	return !d.Before(TruncateDate(w.StartDate)) && !d.After(TruncateDate(w.EndDate))
}

// BuildWeeks lays out count contiguous weeks starting at start.
// week[i] runs from start+7i to start+7i+6, inclusive on both ends.
func BuildWeeks(periodID int64, batchID uuid.UUID, start time.Time, count int) []Week {
	start = TruncateDate(start)
	weeks := make([]Week, 0, count)
	for i := 0; i < count; i++ {
		ws := start.AddDate(0, 0, WeekDays*i)
		weeks = append(weeks, Week{
			PeriodID:  periodID,
			BatchID:   batchID,
			StartDate: ws,
			EndDate:   ws.AddDate(0, 0, WeekDays-1),
		})
	}
	return weeks
}

// TruncateDate drops the time-of-day component, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
