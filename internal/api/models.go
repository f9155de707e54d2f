package api

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iseem/iseem-api/internal/domain"
	"github.com/iseem/iseem-api/internal/store"
)

// validate is the shared validator instance for request structs.
var validate = validator.New()

// NoteItemRequest is one note creation payload, alone or inside a bulk
// request. The acting teacher is never part of the payload; it comes from
// the authentication token.
type NoteItemRequest struct {
	StudentID  uuid.UUID `json:"student_id" validate:"required"`
	ModuleID   uuid.UUID `json:"module_id" validate:"required"`
	Type       string    `json:"evaluation_type" validate:"required"`
	Value      float64   `json:"value" validate:"gte=0,lte=20"`
	SchoolYear string    `json:"school_year" validate:"required"`
}

// BulkNoteRequest is the payload of a bulk note creation.
type BulkNoteRequest struct {
	Notes []NoteItemRequest `json:"notes" validate:"required,min=1,dive"`
}

// UpdateNoteRequest is the payload of a note modification.
type UpdateNoteRequest struct {
	Type       string  `json:"evaluation_type" validate:"required"`
	Value      float64 `json:"value" validate:"gte=0,lte=20"`
	SchoolYear string  `json:"school_year" validate:"required"`
}

// NoteResponse is the representation of a note returned by mutations.
type NoteResponse struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	ModuleID   string    `json:"module_id"`
	Type       string    `json:"evaluation_type"`
	Value      float64   `json:"value"`
	SchoolYear string    `json:"school_year"`
	RecordedBy string    `json:"recorded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// NoteDetailResponse is one item of the list projections: the note plus the
// display fields of the student, module, and recording user.
type NoteDetailResponse struct {
	NoteResponse
	StudentName     string `json:"student_name"`
	Matricule       string `json:"matricule"`
	ModuleName      string `json:"module_name"`
	RecordedByEmail string `json:"recorded_by_email,omitempty"`
}

// BulkNoteItemResult reports the outcome of one bulk item. Failed items
// echo their input and carry the failure message; created items carry the
// note.
type BulkNoteItemResult struct {
	Input NoteItemRequest `json:"input"`
	Note  *NoteResponse   `json:"note,omitempty"`
	Error string          `json:"error,omitempty"`
}

// BulkNoteResponse summarizes a bulk note creation.
type BulkNoteResponse struct {
	Created int                  `json:"created"`
	Failed  int                  `json:"failed"`
	Results []BulkNoteItemResult `json:"results"`
}

// noteToResponse maps a domain note to its API representation.
func noteToResponse(note *domain.Note) NoteResponse {
	resp := NoteResponse{
		ID:         note.ID.String(),
		StudentID:  note.StudentID.String(),
		ModuleID:   note.ModuleID.String(),
		Type:       string(note.Type),
		Value:      note.Value,
		SchoolYear: note.SchoolYear,
		CreatedAt:  note.CreatedAt,
		ModifiedAt: note.ModifiedAt,
	}
	if note.RecordedBy != uuid.Nil {
		resp.RecordedBy = note.RecordedBy.String()
	}
	return resp
}

// detailToResponse maps a store projection row to its API representation.
func detailToResponse(d store.NoteDetail) NoteDetailResponse {
	return NoteDetailResponse{
		NoteResponse:    noteToResponse(&d.Note),
		StudentName:     d.StudentName,
		Matricule:       d.Matricule,
		ModuleName:      d.ModuleName,
		RecordedByEmail: d.RecordedByEmail,
	}
}

// detailsToResponse maps a projection list, returning an empty slice rather
// than null for an empty result.
func detailsToResponse(details []store.NoteDetail) []NoteDetailResponse {
	out := make([]NoteDetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, detailToResponse(d))
	}
	return out
}
