package bulletin

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/iseem/iseem-api/internal/domain"
)

// Build aggregates a student's notes for a school year into a Bulletin under
// the given evaluation-type policy.
//
// Notes are grouped by module and module lines are ordered by module ID
// ascending, so two calls over the same inputs produce identical output.
// Makeup (rattrapage) notes never populate a bulletin slot. Modules
// referenced by a note but missing from the modules map are skipped.
//
// The responsible teacher is the assigned teacher of the first module line
// in that order, or empty when the module has no assigned teacher or the
// teacher is not in the teachers map.
func Build(
	student *domain.Student,
	schoolYear string,
	evalType domain.EvaluationType,
	notes []domain.Note,
	modules map[uuid.UUID]domain.Module,
	teachers map[uuid.UUID]domain.Teacher,
) *Bulletin {
	byModule := make(map[uuid.UUID][]domain.Note)
	for _, note := range notes {
		byModule[note.ModuleID] = append(byModule[note.ModuleID], note)
	}

	moduleIDs := make([]uuid.UUID, 0, len(byModule))
	for id := range byModule {
		moduleIDs = append(moduleIDs, id)
	}
	sort.Slice(moduleIDs, func(i, j int) bool {
		return moduleIDs[i].String() < moduleIDs[j].String()
	})

	lines := make([]ModuleLine, 0, len(moduleIDs))
	var sumCoefficients, sumWeighted float64

	for _, moduleID := range moduleIDs {
		module, ok := modules[moduleID]
		if !ok {
			continue
		}

		line := ModuleLine{
			ModuleID:    module.ID,
			ModuleName:  module.Name,
			Coefficient: module.Coefficient,
		}

		for _, note := range byModule[moduleID] {
			value := note.Value
			switch note.Type {
			case domain.EvaluationC1:
				line.C1 = &value
			case domain.EvaluationC2:
				line.C2 = &value
			case domain.EvaluationWrittenExam:
				line.WrittenExam = &value
			case domain.EvaluationPracticalExam:
				line.PracticalExam = &value
			}
		}

		line.ModuleAverage = moduleAverage(&line, evalType)

		if line.ModuleAverage != nil && line.Coefficient > 0 {
			weighted := *line.ModuleAverage * line.Coefficient
			line.WeightedContribution = &weighted
			sumCoefficients += line.Coefficient
			sumWeighted += weighted
		}

		lines = append(lines, line)
	}

	var overall float64
	mention := MentionNonCalculee
	if sumCoefficients > 0 {
		overall = roundHalfUp(sumWeighted / sumCoefficients)
		mention = mentionFor(overall)
	}

	return &Bulletin{
		StudentID:              student.ID,
		StudentName:            student.DisplayName(),
		Matricule:              student.Matricule,
		Level:                  student.Level,
		SchoolYear:             schoolYear,
		EvaluationType:         evalType,
		EvaluationLabel:        evalType.Label(),
		Lines:                  lines,
		OverallAverage:         overall,
		Mention:                mention,
		ResponsibleTeacherName: responsibleTeacher(lines, modules, teachers),
	}
}

// moduleAverage derives a module's average under the requested evaluation
// type. For C1, C2, and the practical exam the average is that score alone.
// For the written exam, when C1, C2, and the written exam are all present,
// the two continuous checks are averaged together first and the result is
// averaged with the exam score. When any of the three is missing the exam
// score stands alone; there is no partial-data average, so a module with
// only C1 and C2 yields no average at all under the written-exam lens.
func moduleAverage(line *ModuleLine, evalType domain.EvaluationType) *float64 {
	switch evalType {
	case domain.EvaluationC1:
		return line.C1
	case domain.EvaluationC2:
		return line.C2
	case domain.EvaluationPracticalExam:
		return line.PracticalExam
	case domain.EvaluationWrittenExam:
		if line.C1 != nil && line.C2 != nil && line.WrittenExam != nil {
			continuous := roundHalfUp((*line.C1 + *line.C2) / 2)
			avg := roundHalfUp((continuous + *line.WrittenExam) / 2)
			return &avg
		}
		return line.WrittenExam
	}
	return nil
}

// mentionFor maps an overall average to its mention label using inclusive
// lower bounds.
func mentionFor(average float64) string {
	switch {
	case average >= 16:
		return MentionTresBien
	case average >= 14:
		return MentionBien
	case average >= 12:
		return MentionAssezBien
	case average >= 10:
		return MentionPassable
	default:
		return MentionInsuffisant
	}
}

// responsibleTeacher resolves the display name of the teacher assigned to
// the first module line's module.
func responsibleTeacher(
	lines []ModuleLine,
	modules map[uuid.UUID]domain.Module,
	teachers map[uuid.UUID]domain.Teacher,
) string {
	if len(lines) == 0 {
		return ""
	}
	module, ok := modules[lines[0].ModuleID]
	if !ok || module.AssignedTeacherID == nil {
		return ""
	}
	teacher, ok := teachers[*module.AssignedTeacherID]
	if !ok {
		return ""
	}
	return teacher.DisplayName()
}

// roundHalfUp rounds to two decimal places, halves away from zero.
// Grade values are non-negative so this matches half-up rounding.
func roundHalfUp(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}
