package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"store not found", fmt.Errorf("get customer: %w", ErrNotFound), CodeNotFound, http.StatusNotFound},
		{"pgx no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), CodeNotFound, http.StatusNotFound},
		{"mongo no documents", mongo.ErrNoDocuments, CodeNotFound, http.StatusNotFound},
		{"fiber not found", fiber.ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"fiber rate limit", fiber.ErrTooManyRequests, CodeTooManyRequests, http.StatusTooManyRequests},
		{"conflict passthrough", NewConflict("duplicate", nil), CodeConflict, http.StatusConflict},
		{"unknown", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.NotNil(t, de)
			assert.Equal(t, tt.wantCode, de.Code)
			assert.Equal(t, tt.wantStatus, de.HTTPStatus)
		})
	}
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

func TestToDomainErrorValidationDetails(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Name  string `validate:"min=2"`
	}
	err := validator.New().Struct(payload{Email: "nope", Name: "x"})
	require.Error(t, err)

	de := ToDomainError(err)
	assert.Equal(t, CodeValidationFailed, de.Code)
	assert.Equal(t, "failed email", de.Details["email"])
	assert.Equal(t, "failed min=2", de.Details["name"])
}

func TestInternalErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
