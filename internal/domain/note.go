package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Grade scale bounds. Every recorded value must fall within [GradeMin, GradeMax].
const (
	GradeMin = 0.0
	GradeMax = 20.0
)

// EvaluationType is the category of assessment a note was recorded under.
type EvaluationType string

// Recognized evaluation types. The stored values match the labels used by
// the school administration, so they appear as-is in the database and API.
const (
	EvaluationC1            EvaluationType = "C1"
	EvaluationC2            EvaluationType = "C2"
	EvaluationWrittenExam   EvaluationType = "EXAMEN_TH"
	EvaluationPracticalExam EvaluationType = "EXAMEN_PR"
	EvaluationMakeup        EvaluationType = "RATTRAPAGE"
)

// IsValid reports whether the evaluation type is one of the recognized values.
func (t EvaluationType) IsValid() bool {
	switch t {
	case EvaluationC1, EvaluationC2, EvaluationWrittenExam, EvaluationPracticalExam, EvaluationMakeup:
		return true
	}
	return false
}

// Label returns the human-readable French label for the evaluation type.
// It is what report documents and bulletin metadata display.
func (t EvaluationType) Label() string {
	switch t {
	case EvaluationC1:
		return "Contrôle 1"
	case EvaluationC2:
		return "Contrôle 2"
	case EvaluationWrittenExam:
		return "Examen Théorique"
	case EvaluationPracticalExam:
		return "Examen Pratique"
	case EvaluationMakeup:
		return "Rattrapage"
	}
	return string(t)
}

// schoolYearPattern matches school year labels such as "2024-2025".
var schoolYearPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)

// IsValidSchoolYear reports whether the label is of the form "YYYY-YYYY".
func IsValidSchoolYear(year string) bool {
	return schoolYearPattern.MatchString(year)
}

// Note is a single recorded score: one student, one module, one evaluation
// type, one school year. At most one Note may exist per that natural key;
// the store enforces it with a unique index.
type Note struct {
	ID         uuid.UUID      `json:"id"`
	StudentID  uuid.UUID      `json:"student_id"`
	ModuleID   uuid.UUID      `json:"module_id"`
	Type       EvaluationType `json:"evaluation_type"`
	Value      float64        `json:"value"`
	SchoolYear string         `json:"school_year"`
	RecordedBy uuid.UUID      `json:"recorded_by"`
	CreatedAt  time.Time      `json:"created_at"`
	ModifiedAt time.Time      `json:"modified_at"`
}

// NewNote creates a new Note for the given student, module, and grading
// teacher. It generates the note ID, stamps creation and modification times,
// and validates the result. Returns an error if validation fails.
func NewNote(
	studentID, moduleID uuid.UUID,
	evalType EvaluationType,
	value float64,
	schoolYear string,
	recordedBy uuid.UUID,
) (*Note, error) {
	now := time.Now().UTC()
	note := &Note{
		ID:         uuid.New(),
		StudentID:  studentID,
		ModuleID:   moduleID,
		Type:       evalType,
		Value:      value,
		SchoolYear: schoolYear,
		RecordedBy: recordedBy,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks that the Note has valid data.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return fmt.Errorf("%w: note ID cannot be empty", ErrInvalidID)
	}
	if n.StudentID == uuid.Nil {
		return fmt.Errorf("%w: student ID cannot be empty", ErrInvalidID)
	}
	if n.ModuleID == uuid.Nil {
		return fmt.Errorf("%w: module ID cannot be empty", ErrInvalidID)
	}
	if !n.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEvaluationType, n.Type)
	}
	if n.Value < GradeMin || n.Value > GradeMax {
		return fmt.Errorf("%w: %.2f is not within [%.0f, %.0f]", ErrGradeOutOfRange, n.Value, GradeMin, GradeMax)
	}
	if !IsValidSchoolYear(n.SchoolYear) {
		return fmt.Errorf("%w: %q", ErrInvalidSchoolYear, n.SchoolYear)
	}
	return nil
}

// NaturalKeyEquals reports whether the note's natural key matches the given
// (student, module, evaluation type, school year) tuple.
func (n *Note) NaturalKeyEquals(studentID, moduleID uuid.UUID, evalType EvaluationType, schoolYear string) bool {
	return n.StudentID == studentID &&
		n.ModuleID == moduleID &&
		n.Type == evalType &&
		n.SchoolYear == schoolYear
}
