package crm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTallyJSONKeepsOrder(t *testing.T) {
	var tally Tally
	for _, label := range []string{"note", "call", "note", "email", "call", "note"} {
		tally.Add(label)
	}

	raw, err := json.Marshal(tally)
	require.NoError(t, err)
	assert.Equal(t, `{"note":3,"call":2,"email":1}`, string(raw))

	var back Tally
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, tally.Labels(), back.Labels())
	assert.Equal(t, tally.Map(), back.Map())
}

func TestTallyZeroValue(t *testing.T) {
	var tally Tally
	assert.Zero(t, tally.Len())
	assert.Zero(t, tally.Count("missing"))

	raw, err := json.Marshal(tally)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))
}

func TestTallyRejectsNonObject(t *testing.T) {
	var tally Tally
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &tally))
	assert.Error(t, json.Unmarshal([]byte(`{"a":"x"}`), &tally))
}
