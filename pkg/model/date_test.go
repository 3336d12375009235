package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

func TestDate_DaysBetween(t *testing.T) {
	// Reference instant late in the day: only calendar days matter.
	now := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		date model.Date
		want int
	}{
		{"today", model.NewDate(2025, 6, 15), 0},
		{"tomorrow", model.NewDate(2025, 6, 16), 1},
		{"yesterday", model.NewDate(2025, 6, 14), -1},
		{"next week", model.NewDate(2025, 6, 22), 7},
		{"last month", model.NewDate(2025, 5, 15), -31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.date.DaysBetween(now))
		})
	}
}

func TestDate_DaysBetween_EarlyMorning(t *testing.T) {
	// Same answers at 00:01, the time of day never shifts the count.
	now := time.Date(2025, 6, 15, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 0, model.NewDate(2025, 6, 15).DaysBetween(now))
	assert.Equal(t, 1, model.NewDate(2025, 6, 16).DaysBetween(now))
	assert.Equal(t, -1, model.NewDate(2025, 6, 14).DaysBetween(now))
}

func TestDate_JSON(t *testing.T) {
	d := model.NewDate(2025, 3, 9)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-09"`, string(data))

	var back model.Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}

func TestDate_JSON_Null(t *testing.T) {
	var d model.Date
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())

	data, err := json.Marshal(model.Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestDate_JSON_Invalid(t *testing.T) {
	var d model.Date
	err := json.Unmarshal([]byte(`"09/03/2025"`), &d)
	assert.Error(t, err)
}
