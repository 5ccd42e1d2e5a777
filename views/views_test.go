package views

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questpath/apiclient"
	"questpath/models"
)

func strPtr(s string) *string { return &s }

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status models.GoalStatus
		want   string
	}{
		{models.StatusCompleted, "bg-green-100 text-green-800"},
		{models.StatusInProgress, "bg-blue-100 text-blue-800"},
		{models.StatusNotStarted, "bg-gray-100 text-gray-800"},
		{models.StatusUnknown, "bg-gray-100 text-gray-800"},
		{models.GoalStatus(42), "bg-gray-100 text-gray-800"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusClass(tt.status), tt.status.String())
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "in progress", StatusLabel(models.StatusInProgress))
	assert.Equal(t, "not started", StatusLabel(models.StatusNotStarted))
	assert.Equal(t, "unknown", StatusLabel(models.GoalStatus(99)))
}

func TestDifficultyMappings(t *testing.T) {
	tests := []struct {
		d     models.Difficulty
		class string
		label string
	}{
		{models.DifficultyBeginner, "text-green-600", "Beginner"},
		{models.DifficultyIntermediate, "text-yellow-600", "Intermediate"},
		{models.DifficultyAdvanced, "text-red-600", "Advanced"},
		{models.DifficultyUnknown, "text-gray-600", "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.class, DifficultyClass(tt.d))
		assert.Equal(t, tt.label, DifficultyLabel(tt.d))
	}
}

func TestRankBadge(t *testing.T) {
	assert.Equal(t, "👑", RankBadge(1).Icon)
	assert.Equal(t, "text-yellow-500", RankBadge(1).Class)
	assert.Equal(t, "🥈", RankBadge(2).Icon)
	assert.Equal(t, "🥉", RankBadge(3).Icon)

	other := RankBadge(4)
	assert.Empty(t, other.Icon)
	assert.Equal(t, RankBadge(0), RankBadge(17))
}

func TestRowClass(t *testing.T) {
	assert.Contains(t, RowClass(1, true), "bg-blue-50", "current user wins over podium")
	assert.Contains(t, RowClass(1, false), "yellow")
	assert.Contains(t, RowClass(2, false), "gray")
	assert.Contains(t, RowClass(3, false), "orange")
	assert.Equal(t, "bg-white hover:bg-gray-50", RowClass(9, false))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want string
	}{
		{"display name", &models.User{Email: "a@x.io", DisplayName: strPtr("Ada")}, "Ada"},
		{"blank display name", &models.User{Email: "grace@x.io", DisplayName: strPtr("  ")}, "grace"},
		{"email only", &models.User{Email: "linus@x.io"}, "linus"},
		{"nothing", &models.User{}, "Learner"},
		{"nil user", nil, "Learner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.user))
		})
	}
}

func TestProfileName(t *testing.T) {
	assert.Equal(t, "Ada", ProfileName(&models.ProfileStats{DisplayName: strPtr("Ada")}))
	assert.Equal(t, "Unnamed Hero", ProfileName(&models.ProfileStats{Email: "a@x.io"}))
	assert.Equal(t, "Unnamed Hero", ProfileName(nil))
}

func TestPage_LoadSuccess(t *testing.T) {
	var p Page[[]int]
	assert.Equal(t, PhaseIdle, p.Snapshot().Phase)

	snap := p.Load(context.Background(), func(context.Context) ([]int, error) {
		return []int{1, 2}, nil
	})

	assert.True(t, snap.Loaded())
	assert.Equal(t, []int{1, 2}, snap.Data)
	assert.NoError(t, snap.Err)
}

func TestPage_LoadError(t *testing.T) {
	var p Page[string]
	snap := p.Load(context.Background(), func(context.Context) (string, error) {
		return "", &apiclient.Error{Status: 500, Message: "boom", HasDetail: true}
	})

	assert.True(t, snap.Errored())
	assert.Equal(t, "boom", snap.Message("Failed to load"))
}

func TestPage_MessageFallback(t *testing.T) {
	var p Page[string]
	snap := p.Load(context.Background(), func(context.Context) (string, error) {
		return "", errors.New("plain")
	})
	assert.Equal(t, "Failed to load leaderboard", snap.Message("Failed to load leaderboard"))
}

func TestPage_StaleResultDiscarded(t *testing.T) {
	var p Page[string]

	first := p.Begin()
	second := p.Begin()

	assert.True(t, p.Finish(second, "new", nil))
	assert.False(t, p.Finish(first, "old", nil))

	snap := p.Snapshot()
	assert.Equal(t, PhaseLoaded, snap.Phase)
	assert.Equal(t, "new", snap.Data)
}

func TestPage_ConcurrentLoadsKeepLatest(t *testing.T) {
	var p Page[string]
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		p.Load(context.Background(), func(context.Context) (string, error) {
			<-release
			return "slow", nil
		})
	}()

	require.Eventually(t, func() bool { return p.Snapshot().Phase == PhaseLoading }, time.Second, time.Millisecond)
	p.Load(context.Background(), func(context.Context) (string, error) { return "fast", nil })
	close(release)
	<-done

	assert.Equal(t, "fast", p.Snapshot().Data)
}

func TestPage_ReloadReturnsToLoading(t *testing.T) {
	var p Page[int]
	p.Load(context.Background(), func(context.Context) (int, error) { return 1, nil })

	p.Begin()
	assert.True(t, p.Snapshot().Loading())
}
