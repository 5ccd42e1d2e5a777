// Package views holds presentation logic shared by the page handlers and
// templates: display mappings for closed enums and the page load state
// machine.
package views

import (
	"strings"

	"questpath/models"
)

// Mapping is an enum-keyed lookup that always has a default arm, so an
// unrecognised key renders neutrally instead of failing.
type Mapping[K comparable, V any] struct {
	arms     map[K]V
	fallback V
}

func NewMapping[K comparable, V any](fallback V, arms map[K]V) Mapping[K, V] {
	return Mapping[K, V]{arms: arms, fallback: fallback}
}

func (m Mapping[K, V]) Get(k K) V {
	if v, ok := m.arms[k]; ok {
		return v
	}
	return m.fallback
}

var statusClasses = NewMapping("bg-gray-100 text-gray-800", map[models.GoalStatus]string{
	models.StatusCompleted:  "bg-green-100 text-green-800",
	models.StatusInProgress: "bg-blue-100 text-blue-800",
})

var statusLabels = NewMapping("unknown", map[models.GoalStatus]string{
	models.StatusNotStarted: "not started",
	models.StatusInProgress: "in progress",
	models.StatusCompleted:  "completed",
})

var difficultyClasses = NewMapping("text-gray-600", map[models.Difficulty]string{
	models.DifficultyBeginner:     "text-green-600",
	models.DifficultyIntermediate: "text-yellow-600",
	models.DifficultyAdvanced:     "text-red-600",
})

var difficultyLabels = NewMapping("Unknown", map[models.Difficulty]string{
	models.DifficultyBeginner:     "Beginner",
	models.DifficultyIntermediate: "Intermediate",
	models.DifficultyAdvanced:     "Advanced",
})

func StatusClass(s models.GoalStatus) string { return statusClasses.Get(s) }

func StatusLabel(s models.GoalStatus) string { return statusLabels.Get(s) }

func DifficultyClass(d models.Difficulty) string { return difficultyClasses.Get(d) }

func DifficultyLabel(d models.Difficulty) string { return difficultyLabels.Get(d) }

type RankTier int

const (
	TierOther RankTier = iota
	TierGold
	TierSilver
	TierBronze
)

func TierFor(rank int) RankTier {
	switch rank {
	case 1:
		return TierGold
	case 2:
		return TierSilver
	case 3:
		return TierBronze
	default:
		return TierOther
	}
}

// Badge is what the leaderboard shows in the rank column. Icon is empty
// for ranks below the podium, where the number itself is shown.
type Badge struct {
	Icon  string
	Class string
}

var rankBadges = NewMapping(Badge{Class: "text-lg font-bold text-gray-500"}, map[RankTier]Badge{
	TierGold:   {Icon: "👑", Class: "text-yellow-500"},
	TierSilver: {Icon: "🥈", Class: "text-gray-400"},
	TierBronze: {Icon: "🥉", Class: "text-amber-700"},
})

var rowClasses = NewMapping("bg-white hover:bg-gray-50", map[RankTier]string{
	TierGold:   "bg-yellow-50/50 border-yellow-100",
	TierSilver: "bg-gray-50/50 border-gray-100",
	TierBronze: "bg-orange-50/50 border-orange-100",
})

func RankBadge(rank int) Badge { return rankBadges.Get(TierFor(rank)) }

func RowClass(rank int, isCurrentUser bool) string {
	if isCurrentUser {
		return "bg-blue-50 border-blue-200 ring-1 ring-blue-300"
	}
	return rowClasses.Get(TierFor(rank))
}

// DisplayName is the greeting name: display name, then the local part
// of the email, then "Learner".
func DisplayName(u *models.User) string {
	if name := u.Name(); name != "" {
		return name
	}
	if u != nil {
		if local, _, _ := strings.Cut(u.Email, "@"); local != "" {
			return local
		}
	}
	return "Learner"
}

// ProfileName is the heading on the profile page.
func ProfileName(st *models.ProfileStats) string {
	if name := strings.TrimSpace(st.Name()); name != "" {
		return name
	}
	return "Unnamed Hero"
}
