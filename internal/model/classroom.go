package model

import "time"

// ProgramType is derived from a classroom's grade, never stored.
type ProgramType string

const (
	ProgramInClassroom    ProgramType = "in-classroom"
	ProgramOutOfClassroom ProgramType = "out-of-classroom"
	ProgramUnknown        ProgramType = "unknown"
)

// Classroom belongs to a site, which belongs to an institution.
type Classroom struct {
	ID            int64     `json:"id"`
	SiteID        int64     `json:"site_id"`
	InstitutionID int64     `json:"institution_id"`
	Grade         int       `json:"grade"`
	GroupLabel    string    `json:"group_label"`
	CreatedAt     time.Time `json:"created_at"`
}

// Program maps the grade to its program type: 4/5 run inside the school
// day, 9/10 outside it.
func (c *Classroom) Program() ProgramType {
	switch c.Grade {
	case 4, 5:
		return ProgramInClassroom
	case 9, 10:
		return ProgramOutOfClassroom
	default:
		return ProgramUnknown
	}
}
