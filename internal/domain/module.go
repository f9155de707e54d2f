package domain

import "github.com/google/uuid"

// Module is the read-only view of a taught module. The coefficient weights
// the module's average in the overall bulletin average. AssignedTeacherID
// is nil when no teacher currently holds the module.
type Module struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Coefficient       float64    `json:"coefficient"`
	AssignedTeacherID *uuid.UUID `json:"assigned_teacher_id,omitempty"`
}

// AssignedTo reports whether the module is assigned to the given teacher.
func (m *Module) AssignedTo(teacherID uuid.UUID) bool {
	return m.AssignedTeacherID != nil && *m.AssignedTeacherID == teacherID
}
