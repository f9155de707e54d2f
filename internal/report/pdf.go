// Package report renders aggregated bulletins into paginated documents.
package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/iseem/iseem-api/internal/domain/bulletin"
)

// placeholder is what an empty score slot shows in the grade table.
const placeholder = "-"

// PDFRenderer renders bulletins as A4 PDF documents. The output is a pure
// function of the bulletin: same input, same bytes (modulo the PDF creation
// timestamp embedded by the library).
type PDFRenderer struct {
	logger *slog.Logger
}

// NewPDFRenderer creates a new PDFRenderer. If logger is nil, a default
// logger will be used.
func NewPDFRenderer(logger *slog.Logger) *PDFRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFRenderer{
		logger: logger.With(slog.String("component", "pdf_renderer")),
	}
}

// Render produces the official bulletin document: title, year and
// evaluation-type metadata, student identity block, the grade table, the
// summary block, the responsible-teacher line, and a signature line.
func (r *PDFRenderer) Render(b *bulletin.Bulletin) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 18, 15)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, tr("BULLETIN SCOLAIRE"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Metadata
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, tr("Année Scolaire:"), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, b.SchoolYear, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, tr("Type d'évaluation:"), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(b.EvaluationLabel), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Student identity block
	identity := [][2]string{
		{"Nom et Prénom:", b.StudentName},
		{"N° Inscription:", b.Matricule},
		{"Niveau:", b.Level},
	}
	for _, row := range identity {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(90, 7, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(90, 7, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	// Grade table
	headers := []string{"Matière", "Coef.", "C1", "C2", "Ex. Th", "Ex. Pr", "Moyenne"}
	widths := []float64{55, 17, 17, 17, 17, 17, 20}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range b.Lines {
		cells := []string{
			line.ModuleName,
			formatCoefficient(line.Coefficient),
			formatScore(line.C1),
			formatScore(line.C2),
			formatScore(line.WrittenExam),
			formatScore(line.PracticalExam),
			formatScore(line.ModuleAverage),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, tr(c), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(8)

	// Summary block, right-aligned
	pdf.SetFont("Helvetica", "B", 10)
	summaryValue := placeholder
	if b.Mention != bulletin.MentionNonCalculee {
		summaryValue = formatCoefficient(b.OverallAverage) + " / 20"
	}
	pdf.SetX(100)
	pdf.CellFormat(50, 7, tr("Moyenne Générale:"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 7, tr(summaryValue), "1", 1, "C", false, 0, "")
	pdf.SetX(100)
	pdf.CellFormat(50, 7, tr("Mention:"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 7, tr(b.Mention), "1", 1, "C", false, 0, "")
	pdf.Ln(10)

	// Responsible teacher
	teacher := b.ResponsibleTeacherName
	if teacher == "" {
		teacher = "Non assigné"
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(55, 7, tr("Professeur Responsable:"), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 7, tr(teacher), "", 1, "L", false, 0, "")
	pdf.Ln(12)

	// Signature line
	pdf.CellFormat(0, 7, "Signature: ____________________", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.logger.Error("failed to generate bulletin PDF",
			slog.String("student_id", b.StudentID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate bulletin PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// formatScore renders a score slot, "-" when absent.
func formatScore(v *float64) string {
	if v == nil {
		return placeholder
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// formatCoefficient renders a coefficient or average without trailing
// zero noise (2 → "2", 2.5 → "2.5", 11.6 → "11.6").
func formatCoefficient(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
