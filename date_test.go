package sssom

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateParseFormat(t *testing.T) {
	d, err := ParseDate("2024-05-17")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, 5, 17), d)
	assert.Equal(t, "2024-05-17", d.String())

	_, err = ParseDate("17.05.2024")
	require.Error(t, err)
	_, err = ParseDate("2024-13-01")
	require.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, 5, 17)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-17"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}
