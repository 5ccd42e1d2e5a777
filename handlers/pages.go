// handlers/pages.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"questpath/apiclient"
	"questpath/middleware"
	"questpath/session"
	"questpath/views"
)

// Renderer draws a named page. *templates.Renderer is the production
// implementation.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data any)
}

type LoadingData struct {
	views.Layout
	Message string
}

type ErrorData struct {
	views.Layout
	Message string
	Retry   string
}

// layout fills the shared page data from the request's session store.
func layout(r *http.Request, title, active string) views.Layout {
	l := views.Layout{Title: title, Active: active}
	if st := middleware.Store(r.Context()); st != nil {
		l.User = st.User()
	}
	return l
}

// viewer takes one snapshot of the session for a page that renders the
// signed-in user. A session that lost its user after the guard ran is
// sent to the login page and ok is false.
func viewer(w http.ResponseWriter, r *http.Request) (ev session.Event, ok bool) {
	if st := middleware.Store(r.Context()); st != nil {
		if ev = st.Snapshot(); ev.State == session.StateAuthenticated && ev.User != nil {
			return ev, true
		}
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return session.Event{}, false
}

// clientFor returns api authenticated as the request's session.
func clientFor(api *apiclient.Client, r *http.Request) *apiclient.Client {
	if st := middleware.Store(r.Context()); st != nil {
		return api.WithToken(st.Token())
	}
	return api.WithToken("")
}

// expired reports whether err means the session's credential was
// rejected. The store is moved to anonymous and the caller should stop.
func expired(w http.ResponseWriter, r *http.Request, err error) bool {
	st := middleware.Store(r.Context())
	if st == nil || !st.Observe(err) {
		return false
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

func saveSession(w http.ResponseWriter, r *http.Request, sess *sessions.Session) {
	if err := sess.Save(r, w); err != nil {
		slog.Error("session save failed", slog.String("error", err.Error()))
	}
}

func addFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	sess := middleware.CookieSession(r.Context())
	if sess == nil {
		return
	}
	sess.AddFlash(message, kind)
	saveSession(w, r, sess)
}

// popFlashes must run before anything is written to w.
func popFlashes(w http.ResponseWriter, r *http.Request) []views.Flash {
	sess := middleware.CookieSession(r.Context())
	if sess == nil {
		return nil
	}

	var out []views.Flash
	for _, kind := range []string{views.FlashSuccess, views.FlashError} {
		for _, f := range sess.Flashes(kind) {
			if msg, ok := f.(string); ok {
				out = append(out, views.Flash{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		saveSession(w, r, sess)
	}
	return out
}

// LoadingPage is what the guard shows while a session is still resolving.
func LoadingPage(pages Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages.Render(w, http.StatusOK, "loading", LoadingData{
			Layout:  views.Layout{Title: "Loading"},
			Message: "Loading your quest...",
		})
	})
}

func NotFoundPage(pages Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages.Render(w, http.StatusNotFound, "error", ErrorData{
			Layout:  layout(r, "Not found", ""),
			Message: "The page you are looking for does not exist.",
			Retry:   "/dashboard",
		})
	}
}
