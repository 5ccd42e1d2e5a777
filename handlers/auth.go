// handlers/auth.go
package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"questpath/apiclient"
	"questpath/middleware"
	"questpath/session"
	"questpath/views"
)

const (
	loginFieldsRequired = "Email and password are required."
	loginFailed         = "Invalid email or password."
)

type LoginData struct {
	views.Layout
	Email string
	Error string
}

func loginData(email, errMsg string) LoginData {
	return LoginData{Layout: views.Layout{Title: "Sign in"}, Email: email, Error: errMsg}
}

// LoginPage shows the sign-in form. A session that is already signed in
// goes straight to the dashboard.
func LoginPage(pages Renderer, wait time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st := middleware.Store(r.Context()); st != nil && st.Resolve(r.Context(), wait) == session.StateAuthenticated {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		data := loginData("", "")
		data.Flashes = popFlashes(w, r)
		pages.Render(w, http.StatusOK, "login", data)
	}
}

// Login exchanges email and password for a bearer token, stores it as
// the session credential and starts a fresh user store.
func Login(api *apiclient.Client, creds session.CredentialStore, registry *session.Registry, pages Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			pages.Render(w, http.StatusBadRequest, "login", loginData("", loginFieldsRequired))
			return
		}
		email := strings.TrimSpace(r.PostFormValue("email"))
		password := r.PostFormValue("password")
		if email == "" || password == "" {
			pages.Render(w, http.StatusUnprocessableEntity, "login", loginData(email, loginFieldsRequired))
			return
		}

		token, err := api.WithToken("").Login(r.Context(), email, password)
		if err != nil {
			pages.Render(w, failureStatus(err), "login", loginData(email, apiclient.MessageOr(err, loginFailed)))
			return
		}

		sess := middleware.CookieSession(r.Context())
		sid := middleware.SessionID(r.Context())
		if err := creds.Save(r.Context(), sess, token); err != nil {
			slog.Error("credential save failed", slog.String("sid", sid), slog.String("error", err.Error()))
			pages.Render(w, http.StatusInternalServerError, "login", loginData(email, apiclient.GenericMessage))
			return
		}
		saveSession(w, r, sess)

		// Resolve the new user now so the dashboard does not open on the
		// loading page.
		registry.Reset(sid, token).Init(r.Context())
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

// Logout signs the session out locally before responding. The backend
// is told in the background by the store.
func Logout(creds session.CredentialStore, registry *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st := middleware.Store(r.Context()); st != nil {
			st.Logout()
		}

		sess := middleware.CookieSession(r.Context())
		sid := middleware.SessionID(r.Context())
		if sess != nil {
			if err := creds.Delete(r.Context(), sess); err != nil {
				slog.Warn("credential delete failed", slog.String("sid", sid), slog.String("error", err.Error()))
			}
			saveSession(w, r, sess)
		}
		if sid != "" {
			registry.Reset(sid, "")
		}

		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
