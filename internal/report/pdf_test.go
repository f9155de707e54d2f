package report

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iseem/iseem-api/internal/domain"
	"github.com/iseem/iseem-api/internal/domain/bulletin"
)

func sampleBulletin() *bulletin.Bulletin {
	avg := 12.75
	weighted := 25.5
	c1 := 12.5
	c2 := 14.0
	exam := 12.0

	return &bulletin.Bulletin{
		StudentID:       uuid.New(),
		StudentName:     "Diallo Amina",
		Matricule:       "MAT-0042",
		Level:           "L2",
		SchoolYear:      "2024-2025",
		EvaluationType:  domain.EvaluationWrittenExam,
		EvaluationLabel: "Examen Théorique",
		Lines: []bulletin.ModuleLine{
			{
				ModuleID:             uuid.New(),
				ModuleName:           "Mathématiques",
				Coefficient:          2,
				C1:                   &c1,
				C2:                   &c2,
				WrittenExam:          &exam,
				ModuleAverage:        &avg,
				WeightedContribution: &weighted,
			},
			{
				ModuleID:    uuid.New(),
				ModuleName:  "Physique",
				Coefficient: 3,
			},
		},
		OverallAverage:         12.75,
		Mention:                bulletin.MentionAssezBien,
		ResponsibleTeacherName: "Benali Karim",
	}
}

func TestRenderProducesPDF(t *testing.T) {
	t.Parallel()

	renderer := NewPDFRenderer(nil)
	data, err := renderer.Render(sampleBulletin())
	require.NoError(t, err)

	require.Greater(t, len(data), 500)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderEmptyBulletin(t *testing.T) {
	t.Parallel()

	b := &bulletin.Bulletin{
		StudentID:       uuid.New(),
		StudentName:     "Diallo Amina",
		Matricule:       "MAT-0042",
		Level:           "L2",
		SchoolYear:      "2024-2025",
		EvaluationType:  domain.EvaluationC1,
		EvaluationLabel: "Contrôle 1",
		Mention:         bulletin.MentionNonCalculee,
	}

	renderer := NewPDFRenderer(nil)
	data, err := renderer.Render(b)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestFormatScore(t *testing.T) {
	t.Parallel()

	v := 12.5
	assert.Equal(t, "12.50", formatScore(&v))
	assert.Equal(t, "-", formatScore(nil))
}

func TestFormatCoefficient(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2", formatCoefficient(2))
	assert.Equal(t, "2.5", formatCoefficient(2.5))
	assert.Equal(t, "0.25", formatCoefficient(0.25))
}
