package views

import (
	"errors"
	"fmt"
	"html/template"
	"time"

	"questpath/models"
)

// FuncMap exposes the display helpers to page templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"statusClass":     StatusClass,
		"statusLabel":     StatusLabel,
		"difficultyClass": DifficultyClass,
		"difficultyLabel": DifficultyLabel,
		"rankBadge":       RankBadge,
		"rowClass":        RowClass,
		"displayName":     DisplayName,
		"profileName":     ProfileName,
		"date":            formatDate,
		"percent":         formatPercent,
		"initial":         initial,
		"dict":            dict,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

// initial is the avatar placeholder letter.
func initial(u *models.User) string {
	for _, r := range DisplayName(u) {
		return string(r)
	}
	return "?"
}

// dict builds a map from alternating keys and values so templates can
// pass several arguments to a partial.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[key] = kv[i+1]
	}
	return m, nil
}
