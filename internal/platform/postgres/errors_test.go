package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iseem/iseem-api/internal/store"
)

func pgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: nil,
		},
		{
			name:     "no rows",
			err:      sql.ErrNoRows,
			expected: store.ErrNotFound,
		},
		{
			name:     "wrapped no rows",
			err:      fmt.Errorf("query failed: %w", sql.ErrNoRows),
			expected: store.ErrNotFound,
		},
		{
			name:     "unique violation",
			err:      pgError(uniqueViolationCode, "uq_notes_natural_key"),
			expected: store.ErrDuplicate,
		},
		{
			name:     "foreign key violation",
			err:      pgError(foreignKeyViolationCode, "fk_modules_enseignant"),
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "check violation",
			err:      pgError(checkViolationCode, "notes_value_check"),
			expected: store.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(tt.err)
			if tt.expected == nil {
				assert.NoError(t, mapped)
				return
			}
			assert.ErrorIs(t, mapped, tt.expected)
		})
	}
}

func TestMapErrorPassesThroughUnknownErrors(t *testing.T) {
	t.Parallel()

	err := errors.New("connection reset")
	assert.Equal(t, err, MapError(err))

	pgErr := pgError("42P01", "")
	assert.Equal(t, error(pgErr), MapError(pgErr))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(pgError(uniqueViolationCode, "uq_notes_natural_key")))
	assert.True(t, IsUniqueViolation(
		fmt.Errorf("insert failed: %w", pgError(uniqueViolationCode, ""))))

	assert.False(t, IsUniqueViolation(pgError(foreignKeyViolationCode, "")))
	assert.False(t, IsUniqueViolation(errors.New("other")))
	assert.False(t, IsUniqueViolation(nil))
}

// fakeResult implements sql.Result for CheckRowsAffected tests.
type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, store.ErrNoteNotFound))

	err := CheckRowsAffected(fakeResult{rows: 0}, store.ErrNoteNotFound)
	assert.ErrorIs(t, err, store.ErrNoteNotFound)

	err = CheckRowsAffected(fakeResult{err: errors.New("driver error")}, store.ErrNoteNotFound)
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNoteNotFound)

	assert.Error(t, CheckRowsAffected(nil, store.ErrNoteNotFound))
}
