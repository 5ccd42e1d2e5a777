// handlers/profile.go
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"questpath/apiclient"
	"questpath/middleware"
	"questpath/models"
	"questpath/views"
)

const (
	profileUpdated       = "Profile updated!"
	profileUpdateFailed  = "Failed to update profile"
	profileNameRequired  = "Display name cannot be empty"
	profileUpdatePending = "Your profile is already being saved."
	updateProfileAction  = "update-profile"
)

type ProfileData struct {
	views.Layout
	Stats       views.Snapshot[*models.ProfileStats]
	Level       int
	Editing     bool
	DisplayName string
}

// renderProfile loads the stats read model and draws the page. typed,
// when non-nil, replaces the stored display name in the edit field.
func renderProfile(w http.ResponseWriter, r *http.Request, api *apiclient.Client, pages Renderer, status int, editing bool, typed *string, flashes ...views.Flash) {
	me, ok := viewer(w, r)
	if !ok {
		return
	}

	var stats views.Page[*models.ProfileStats]
	snap := stats.Load(r.Context(), clientFor(api, r).ProgressionStats)
	if expired(w, r, snap.Err) {
		return
	}

	data := ProfileData{
		Layout:  views.Layout{Title: "Profile", Active: "profile", User: me.User},
		Stats:   snap,
		Level:   me.XPProgress().Level,
		Editing: editing,
	}
	if typed != nil {
		data.DisplayName = *typed
	} else if snap.Loaded() {
		data.DisplayName = snap.Data.Name()
	}
	data.Flashes = append(popFlashes(w, r), flashes...)

	pages.Render(w, status, "profile", data)
}

func ProfilePage(api *apiclient.Client, pages Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderProfile(w, r, api, pages, http.StatusOK, r.URL.Query().Get("edit") != "", nil)
	}
}

// UpdateProfile saves a new display name. On success the session store
// is refreshed so every page sees the new name.
func UpdateProfile(api *apiclient.Client, pages Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		typed := r.PostFormValue("display_name")
		name := strings.TrimSpace(typed)

		fail := func(status int, msg string) {
			renderProfile(w, r, api, pages, status, true, &typed, views.Flash{Kind: views.FlashError, Message: msg})
		}

		if name == "" {
			fail(http.StatusUnprocessableEntity, profileNameRequired)
			return
		}

		st := middleware.Store(r.Context())
		if !st.TryBegin(updateProfileAction) {
			fail(http.StatusConflict, profileUpdatePending)
			return
		}
		defer st.End(updateProfileAction)

		_, err := clientFor(api, r).UpdateDisplayName(r.Context(), name)
		if expired(w, r, err) {
			return
		}
		if err != nil {
			fail(failureStatus(err), apiclient.MessageOr(err, profileUpdateFailed))
			return
		}

		if err := st.Refresh(r.Context()); err != nil {
			if apiclient.IsUnauthorized(err) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			slog.Warn("session refresh after profile update failed", slog.String("error", err.Error()))
		}

		addFlash(w, r, views.FlashSuccess, profileUpdated)
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	}
}
