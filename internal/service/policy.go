package service

import (
	"github.com/google/uuid"

	"github.com/iseem/iseem-api/internal/domain"
)

// Actor roles, as carried in the authentication token's role claim.
const (
	RoleTeacher        = "ENSEIGNANT"
	RoleAdministration = "ADMINISTRATION"
)

// Actor is the authenticated caller of a grading operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// IsAdministration reports whether the actor holds the administrative
// override role.
func (a Actor) IsAdministration() bool {
	return a.Role == RoleAdministration
}

// GradePolicy decides whether an actor may grade a module. It is a pure
// capability check, so alternate policies (a department head override, for
// example) plug in without touching the command logic.
type GradePolicy func(actor Actor, module *domain.Module) bool

// DefaultGradePolicy grants grading rights to the module's assigned teacher
// and to the administration role.
func DefaultGradePolicy(actor Actor, module *domain.Module) bool {
	if actor.IsAdministration() {
		return true
	}
	return module.AssignedTo(actor.ID)
}
