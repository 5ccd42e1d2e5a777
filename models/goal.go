// models/goal.go

package models

import "encoding/json"

type Difficulty int

const (
	DifficultyUnknown Difficulty = iota
	DifficultyBeginner
	DifficultyIntermediate
	DifficultyAdvanced
)

var difficultyNames = map[Difficulty]string{
	DifficultyBeginner:     "beginner",
	DifficultyIntermediate: "intermediate",
	DifficultyAdvanced:     "advanced",
}

func ParseDifficulty(s string) Difficulty {
	for d, name := range difficultyNames {
		if name == s {
			return d
		}
	}
	return DifficultyUnknown
}

func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return "unknown"
}

// Less reports whether d is an easier tier than o. Unknown sorts first.
func (d Difficulty) Less(o Difficulty) bool { return d < o }

func (d Difficulty) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Difficulty) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = ParseDifficulty(s)
	return nil
}

type GoalStatus int

const (
	StatusUnknown GoalStatus = iota
	StatusNotStarted
	StatusInProgress
	StatusCompleted
)

var statusNames = map[GoalStatus]string{
	StatusNotStarted: "not_started",
	StatusInProgress: "in_progress",
	StatusCompleted:  "completed",
}

func ParseGoalStatus(s string) GoalStatus {
	for st, name := range statusNames {
		if name == s {
			return st
		}
	}
	return StatusUnknown
}

func (s GoalStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// CanAdvanceTo reports whether the lifecycle allows moving from s to next.
// Goals only move forward; an unknown status never transitions.
func (s GoalStatus) CanAdvanceTo(next GoalStatus) bool {
	if s == StatusUnknown || next == StatusUnknown {
		return false
	}
	return next > s
}

func (s GoalStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *GoalStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = ParseGoalStatus(raw)
	return nil
}

type Goal struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Category        string     `json:"category"`
	DifficultyLevel Difficulty `json:"difficulty_level"`
	Status          GoalStatus `json:"status"`
	CreatedAt       Timestamp  `json:"created_at"`
}

type CreateGoalRequest struct {
	Description string `json:"description"`
}
