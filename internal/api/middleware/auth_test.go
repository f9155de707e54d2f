package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iseem/iseem-api/internal/service"
	"github.com/iseem/iseem-api/internal/service/auth"
)

// mockJWTService implements auth.JWTService with pluggable validation.
type mockJWTService struct {
	validateFn func(ctx context.Context, token string) (*auth.Claims, error)
}

func (m *mockJWTService) GenerateToken(
	ctx context.Context, userID uuid.UUID, role string,
) (string, error) {
	return "mock-token", nil
}

func (m *mockJWTService) ValidateToken(
	ctx context.Context, token string,
) (*auth.Claims, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, token)
	}
	return nil, auth.ErrInvalidToken
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		validateFn     func(ctx context.Context, token string) (*auth.Claims, error)
		expectedStatus int
		expectActor    bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			validateFn: func(ctx context.Context, token string) (*auth.Claims, error) {
				assert.Equal(t, "good-token", token)
				return &auth.Claims{UserID: userID, Role: service.RoleTeacher}, nil
			},
			expectedStatus: http.StatusOK,
			expectActor:    true,
		},
		{
			name:           "missing header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			authHeader:     "Basic abc",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer stale-token",
			validateFn: func(ctx context.Context, token string) (*auth.Claims, error) {
				return nil, auth.ErrExpiredToken
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			validateFn: func(ctx context.Context, token string) (*auth.Claims, error) {
				return nil, auth.ErrInvalidToken
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewAuthMiddleware(&mockJWTService{validateFn: tt.validateFn})

			var gotActor service.Actor
			var actorFound bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotActor, actorFound = GetActor(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			m.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectActor {
				require.True(t, actorFound)
				assert.Equal(t, userID, gotActor.ID)
				assert.Equal(t, service.RoleTeacher, gotActor.Role)
			} else {
				assert.False(t, actorFound)
			}
		})
	}
}

func TestGetActorWithoutMiddleware(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetActor(req)
	assert.False(t, ok)
}
