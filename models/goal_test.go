package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoal_DecodeBackendPayload(t *testing.T) {
	raw := `{"id": 7, "title": "Learn Go", "category": "programming",
		"difficulty_level": "intermediate", "status": "in_progress",
		"created_at": "2025-03-01T10:00:00Z"}`

	var g Goal
	require.NoError(t, json.Unmarshal([]byte(raw), &g))
	assert.Equal(t, 7, g.ID)
	assert.Equal(t, DifficultyIntermediate, g.DifficultyLevel)
	assert.Equal(t, StatusInProgress, g.Status)
}

func TestGoal_UnrecognisedEnumsDecodeToUnknown(t *testing.T) {
	raw := `{"id": 1, "title": "x", "difficulty_level": "legendary", "status": "archived"}`

	var g Goal
	require.NoError(t, json.Unmarshal([]byte(raw), &g))
	assert.Equal(t, DifficultyUnknown, g.DifficultyLevel)
	assert.Equal(t, StatusUnknown, g.Status)
}

func TestDifficulty_Ordering(t *testing.T) {
	assert.True(t, DifficultyBeginner.Less(DifficultyIntermediate))
	assert.True(t, DifficultyIntermediate.Less(DifficultyAdvanced))
	assert.False(t, DifficultyAdvanced.Less(DifficultyBeginner))
}

func TestGoalStatus_CanAdvanceTo(t *testing.T) {
	tests := []struct {
		from, to GoalStatus
		want     bool
	}{
		{StatusNotStarted, StatusInProgress, true},
		{StatusNotStarted, StatusCompleted, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusCompleted, StatusInProgress, false},
		{StatusInProgress, StatusNotStarted, false},
		{StatusInProgress, StatusInProgress, false},
		{StatusUnknown, StatusCompleted, false},
		{StatusNotStarted, StatusUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to))
		})
	}
}

func TestTimestamp_AcceptsBackendLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339", `"2025-03-01T10:00:00Z"`, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"offset", `"2025-03-01T12:00:00+02:00"`, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"naive micros", `"2025-03-01T10:00:00.123456"`, time.Date(2025, 3, 1, 10, 0, 0, 123456000, time.UTC)},
		{"naive seconds", `"2025-03-01T10:00:00"`, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"space separated", `"2025-03-01 10:00:00"`, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"date only", `"2025-03-01"`, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestTimestamp_BadValuesDecodeToZero(t *testing.T) {
	for _, raw := range []string{`null`, `""`, `"yesterday"`, `12345`} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.True(t, ts.IsZero(), raw)
	}
}

func TestUserAndGoal_DecodeNaiveTimestamps(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "email": "ada@example.com", "total_exp": 150,
		"created_at": "2025-03-01T10:00:00.123456", "updated_at": "2025-03-02T08:30:00"}`), &u))
	assert.Equal(t, 150, u.TotalExp)
	assert.Equal(t, 2025, u.CreatedAt.Year())
	assert.Equal(t, time.March, u.UpdatedAt.Month())

	var goals []Goal
	require.NoError(t, json.Unmarshal([]byte(`[{"id": 7, "title": "Learn Go", "status": "completed",
		"created_at": "2025-03-01T10:00:00.123456"}]`), &goals))
	require.Len(t, goals, 1)
	assert.Equal(t, StatusCompleted, goals[0].Status)
	assert.Equal(t, 1, goals[0].CreatedAt.Day())
}
