package mongostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/spec-kit/travel-crm/internal/domain"
)

func TestCustomerDocumentRoundTrip(t *testing.T) {
	in := domain.Customer{
		ID:                 "c-1",
		Name:               "Asha",
		Status:             domain.CustomerStatusActive,
		AssignedEmployeeID: domain.Unassigned,
		GroupTravelers:     []string{"Ravi", "Meera"},
		IsTravelling:       true,
	}

	raw, err := bson.Marshal(in)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "c-1", doc["_id"])
	assert.Equal(t, "unassigned", doc["assignedEmployeeId"])

	var out domain.Customer
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Equal(t, in.GroupTravelers, out.GroupTravelers)
	assert.True(t, out.IsUnassigned())
}

func TestLogDocumentKeepsNullFollowUp(t *testing.T) {
	in := domain.DailyLog{ID: "l-1", Type: domain.ActivityCall, Outcome: domain.OutcomePositive}

	raw, err := bson.Marshal(in)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	v, ok := doc["followUpDate"]
	assert.True(t, ok)
	assert.Nil(t, v)
	_, hasDuration := doc["duration"]
	assert.False(t, hasDuration)
}
