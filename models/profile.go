// models/profile.go

package models

// ProfileStats is the GET /progression/stats read model. It is separate
// from User, which is the record edited through PATCH /auth/me.
type ProfileStats struct {
	Email                    string  `json:"email"`
	DisplayName              *string `json:"display_name"`
	ProfilePicture           *string `json:"profile_picture"`
	TotalExp                 int     `json:"total_exp"`
	LevelsCompleted          int     `json:"levels_completed"`
	GoalCompletionPercentage float64 `json:"goal_completion_percentage"`
}

func (p *ProfileStats) Name() string {
	if p == nil || p.DisplayName == nil {
		return ""
	}
	return *p.DisplayName
}

func (p *ProfileStats) Avatar() string {
	if p == nil || p.ProfilePicture == nil {
		return ""
	}
	return *p.ProfilePicture
}
