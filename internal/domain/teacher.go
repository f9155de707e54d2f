package domain

import "github.com/google/uuid"

// Teacher is the read-only view of a teacher (enseignant). Teacher
// management lives in the administration service; the grade engine only
// needs identity for the ownership check and display fields for reports.
type Teacher struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// DisplayName returns the teacher's full name as printed on documents,
// family name first.
func (t *Teacher) DisplayName() string {
	return t.LastName + " " + t.FirstName
}
