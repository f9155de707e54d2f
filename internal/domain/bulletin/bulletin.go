// Package bulletin implements the grade aggregation algorithm that turns a
// student's raw notes into a weighted academic report. The package is pure:
// it performs no I/O and its output is fully determined by its inputs.
package bulletin

import (
	"github.com/google/uuid"

	"github.com/iseem/iseem-api/internal/domain"
)

// Mention labels derived from the overall average.
const (
	MentionTresBien    = "Très Bien"
	MentionBien        = "Bien"
	MentionAssezBien   = "Assez Bien"
	MentionPassable    = "Passable"
	MentionInsuffisant = "Insuffisant"
	MentionNonCalculee = "Non calculée"
)

// ModuleLine is one row of the bulletin: a module's scores for the year,
// its derived average under the requested evaluation-type policy, and the
// coefficient-weighted contribution to the overall average.
//
// Score slots are nil when no note of that type was recorded. ModuleAverage
// is nil when the policy cannot derive an average from the available slots,
// in which case the line contributes nothing to the overall average.
type ModuleLine struct {
	ModuleID             uuid.UUID `json:"module_id"`
	ModuleName           string    `json:"module_name"`
	Coefficient          float64   `json:"coefficient"`
	C1                   *float64  `json:"c1,omitempty"`
	C2                   *float64  `json:"c2,omitempty"`
	WrittenExam          *float64  `json:"written_exam,omitempty"`
	PracticalExam        *float64  `json:"practical_exam,omitempty"`
	ModuleAverage        *float64  `json:"module_average,omitempty"`
	WeightedContribution *float64  `json:"weighted_contribution,omitempty"`
}

// Bulletin is the aggregated academic report for one student and school
// year under a chosen evaluation-type lens. It is built fresh per request
// and never persisted.
type Bulletin struct {
	StudentID              uuid.UUID             `json:"student_id"`
	StudentName            string                `json:"student_name"`
	Matricule              string                `json:"matricule"`
	Level                  string                `json:"level"`
	SchoolYear             string                `json:"school_year"`
	EvaluationType         domain.EvaluationType `json:"evaluation_type"`
	EvaluationLabel        string                `json:"evaluation_label"`
	Lines                  []ModuleLine          `json:"lines"`
	OverallAverage         float64               `json:"overall_average"`
	Mention                string                `json:"mention"`
	ResponsibleTeacherName string                `json:"responsible_teacher_name"`
}
