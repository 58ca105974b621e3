package model

import "time"

// Period is an academic year. It owns the generated calendar weeks.
type Period struct {
	ID        int64     `json:"id"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
}

// DateLayout is the wire format for calendar dates (no time zone).
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for times of day, 24-hour, no seconds.
const ClockLayout = "15:04"
