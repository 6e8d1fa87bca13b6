package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.February, 29)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(data))

	var decoded Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-02-29"`), &decoded))
	assert.True(t, d.Equal(decoded))

	require.NoError(t, json.Unmarshal([]byte(`"2024-02-29T15:04:05Z"`), &decoded))
	assert.True(t, d.Equal(decoded))

	require.NoError(t, json.Unmarshal([]byte(`null`), &decoded))
	assert.True(t, decoded.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"29/02/2024"`), &decoded))
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2023, 12, 31, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2023-12-31", d.String())

	require.NoError(t, d.Scan([]byte("2023-01-02")))
	assert.Equal(t, "2023-01-02", d.String())

	require.NoError(t, d.Scan("2023-01-03 00:00:00"))
	assert.Equal(t, "2023-01-03", d.String())

	value, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2023-01-03", value)

	value, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	assert.Error(t, d.Scan(42))
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, time.December, 29)

	assert.Equal(t, "2025-01-05", d.AddDays(7).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.Equal(t, "2024-12-01", d.FirstOfMonth().String())
}
