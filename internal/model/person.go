package model

import "time"

// Role names as stored by the identity collaborator.
const (
	RoleTutor   = "TUTOR"
	RoleStudent = "STUDENT"
)

// Person is a read-only view of the identity store. The engine trusts
// Role == TUTOR as authorization to record attendance.
type Person struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// IsActiveTutor reports whether the person may be assigned to a classroom.
func (p *Person) IsActiveTutor() bool {
	return p.Active && p.Role == RoleTutor
}

// Reason is a reference-CRUD motive for a session not being delivered.
type Reason struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}
