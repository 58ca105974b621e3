package model

import "math"

// SessionStats aggregates a set of scheduled sessions and their attendance
// events into counts, hour totals and a compliance percentage.
type SessionStats struct {
	Pending         int `json:"pending"`
	Delivered       int `json:"delivered"`
	NotDelivered    int `json:"not_delivered"`
	MakeupScheduled int `json:"makeup_scheduled"`
	TotalSessions   int `json:"total_sessions"`

	ScheduledMinutes int     `json:"scheduled_minutes"`
	DeliveredMinutes int     `json:"delivered_minutes"`
	ScheduledHours   float64 `json:"scheduled_hours"`
	DeliveredHours   float64 `json:"delivered_hours"`

	// CompliancePct = (delivered + makeup_scheduled) / total × 100,
	// rounded to the nearest integer. Zero sessions yields 0, never an error.
	CompliancePct int `json:"compliance_pct"`
}

// AggregateSessions folds session details into a stats summary.
func AggregateSessions(details []SessionDetail) SessionStats {
	var st SessionStats
	for i := range details {
		d := &details[i]
		st.TotalSessions++
		minutes := 0
		if d.Session.Block != nil {
			minutes = d.Session.Block.DurationMinutes
		}
		st.ScheduledMinutes += minutes
		switch d.State() {
		case StateDelivered:
			st.Delivered++
			st.DeliveredMinutes += minutes
		case StateMakeupScheduled:
			st.MakeupScheduled++
		case StateNotDelivered:
			st.NotDelivered++
		default:
			st.Pending++
		}
	}
	st.ScheduledHours = float64(st.ScheduledMinutes) / 60.0
	st.DeliveredHours = float64(st.DeliveredMinutes) / 60.0
	st.CompliancePct = RoundPct(st.Delivered+st.MakeupScheduled, st.TotalSessions)
	return st
}

// StudentStats tallies a student's presence in one classroom.
type StudentStats struct {
	Present     int `json:"present"`
	Absent      int `json:"absent"`
	Total       int `json:"total"`
	PresencePct int `json:"presence_pct"`
}

// AggregateStudent folds per-student attendance rows into a summary.
func AggregateStudent(records []StudentAttendance) StudentStats {
	var st StudentStats
	for i := range records {
		st.Total++
		if records[i].Present {
			st.Present++
		} else {
			st.Absent++
		}
	}
	st.PresencePct = RoundPct(st.Present, st.Total)
	return st
}

// RoundPct computes part/total as a whole percentage, 0 when total is 0.
func RoundPct(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
