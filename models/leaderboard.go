// models/leaderboard.go

package models

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   int    `json:"user_id"`
	Email    string `json:"email"`
	TotalExp int    `json:"total_exp"`
}

// Leaderboard is the GET /leaderboard payload. It is treated as an
// immutable snapshot for the lifetime of one page render.
type Leaderboard struct {
	Entries     []LeaderboardEntry `json:"leaderboard"`
	CurrentUser LeaderboardEntry   `json:"current_user"`
}
