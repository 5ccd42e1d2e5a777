// handlers/dashboard.go
package handlers

import (
	"net/http"

	"questpath/apiclient"
	"questpath/models"
	"questpath/progression"
	"questpath/views"
)

type DashboardData struct {
	views.Layout
	Level     progression.Level
	NextLevel int
	TotalXP   int
	Goals     views.Snapshot[[]models.Goal]
}

func DashboardPage(api *apiclient.Client, pages Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, ok := viewer(w, r)
		if !ok {
			return
		}

		var goals views.Page[[]models.Goal]
		snap := goals.Load(r.Context(), clientFor(api, r).MyGoals)
		if expired(w, r, snap.Err) {
			return
		}

		level := me.XPProgress()
		data := DashboardData{
			Layout:    views.Layout{Title: "Dashboard", Active: "dashboard", User: me.User},
			Level:     level,
			NextLevel: level.Level + 1,
			TotalXP:   me.User.TotalExp,
			Goals:     snap,
		}
		data.Flashes = popFlashes(w, r)

		pages.Render(w, http.StatusOK, "dashboard", data)
	}
}
