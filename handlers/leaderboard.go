// handlers/leaderboard.go
package handlers

import (
	"net/http"

	"questpath/apiclient"
	"questpath/models"
	"questpath/views"
)

type LeaderboardData struct {
	views.Layout
	Board views.Snapshot[*models.Leaderboard]
}

func LeaderboardPage(api *apiclient.Client, pages Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, ok := viewer(w, r)
		if !ok {
			return
		}

		var board views.Page[*models.Leaderboard]
		snap := board.Load(r.Context(), clientFor(api, r).Leaderboard)
		if expired(w, r, snap.Err) {
			return
		}

		data := LeaderboardData{
			Layout: views.Layout{Title: "Leaderboard", Active: "leaderboard", User: me.User},
			Board:  snap,
		}
		data.Flashes = popFlashes(w, r)

		pages.Render(w, http.StatusOK, "leaderboard", data)
	}
}
