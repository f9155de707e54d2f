package domain

import "github.com/google/uuid"

// Student is the read-only view of a student this service consumes.
// Student lifecycle (enrollment, updates, import) is owned by the
// administration service; here a student only identifies a bulletin
// and anchors recorded notes.
type Student struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Matricule string    `json:"matricule"`
	Level     string    `json:"level"`
}

// DisplayName returns the student's full name as printed on documents,
// family name first.
func (s *Student) DisplayName() string {
	return s.LastName + " " + s.FirstName
}
