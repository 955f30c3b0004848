package dto

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/travel-crm/internal/domain"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

func TestValidateUsesJSONFieldNames(t *testing.T) {
	err := Validate(CustomerRequest{Email: "not-an-email", TravelFrom: "15/03/2024"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"name": "required", "email": "email", "travelFrom": "date"}, fields)

	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidationFailed, de.Code)
	assert.Contains(t, de.Details, "travelFrom")
}

func TestValidateLogRequest(t *testing.T) {
	neg := -5
	assert.Error(t, Validate(LogRequest{Subject: "x", Duration: &neg}))
	assert.Error(t, Validate(LogRequest{Subject: "x", Type: "fax"}))
	assert.NoError(t, Validate(LogRequest{Subject: "x", Type: "call", Date: "2024-03-15"}))
}

func TestValidateRegisterRequest(t *testing.T) {
	assert.Error(t, Validate(RegisterRequest{Name: "A", Email: "a@example.com", Password: "123"}))
	assert.Error(t, Validate(RegisterRequest{Name: "A", Email: "a@example.com", Password: "123456", Role: "owner"}))
	assert.NoError(t, Validate(RegisterRequest{Name: "A", Email: "a@example.com", Password: "123456"}))
}

func TestCustomerRequestToDomain(t *testing.T) {
	c := CustomerRequest{Name: "Maria", Status: "Dead", GroupTravelers: []string{"Jo", "Al"}}.ToDomain()
	assert.Equal(t, domain.CustomerStatus("Dead"), c.Status)
	assert.Equal(t, []string{"Jo", "Al"}, c.GroupTravelers)
	assert.Empty(t, c.AssignedEmployeeID)
}

func TestFilterQueryRaw(t *testing.T) {
	raw := FilterQuery{Search: "ana", Status: "all", Type: "call", FollowUp: "overdue"}.Raw()
	assert.Equal(t, "ana", raw.SearchTerm)
	assert.Equal(t, "all", raw.CustomerStatus)
	assert.Equal(t, "call", raw.ActivityType)
	assert.Equal(t, "overdue", raw.FollowUp)
}
