package model

import (
	"fmt"
	"time"
)

// ValidBlockDurations are the only accepted class lengths, in minutes.
var ValidBlockDurations = []int{40, 45, 50, 55, 60}

// TimeBlock is a reusable weekday+time-range template for a class slot,
// independent of any classroom. Weekday follows time.Weekday (1 = Monday,
// 6 = Saturday; Sunday is not a teaching day).
type TimeBlock struct {
	ID              int64     `json:"id"`
	Weekday         int       `json:"weekday"`
	StartHour       int       `json:"start_hour"`
	StartMinute     int       `json:"start_minute"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

// Validate checks the weekday range and the duration whitelist.
func (b *TimeBlock) Validate() error {
	if b.Weekday < int(time.Monday) || b.Weekday > int(time.Saturday) {
		return BadRequestField("weekday", "weekday must be Monday through Saturday")
	}
	if b.StartHour < 0 || b.StartHour > 23 || b.StartMinute < 0 || b.StartMinute > 59 {
		return BadRequestField("start_time", "invalid start time")
	}
	for _, d := range ValidBlockDurations {
		if b.DurationMinutes == d {
			return nil
		}
	}
	return BadRequestField("duration_minutes", "duration must be one of %v minutes", ValidBlockDurations)
}

// StartClock renders the block start as HH:MM.
func (b *TimeBlock) StartClock() string {
	return fmt.Sprintf("%02d:%02d", b.StartHour, b.StartMinute)
}

// EndClock renders the block end as HH:MM.
func (b *TimeBlock) EndClock() string {
	total := b.StartHour*60 + b.StartMinute + b.DurationMinutes
	return fmt.Sprintf("%02d:%02d", (total/60)%24, total%60)
}

// Hours converts the block duration to fractional hours.
func (b *TimeBlock) Hours() float64 {
	return float64(b.DurationMinutes) / 60.0
}
