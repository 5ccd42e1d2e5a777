// middleware/session.go
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"questpath/session"
)

type ctxKey int

const (
	cookieSessionKey ctxKey = iota
	storeKey
	sidKey
)

// Session loads the browser session, gives it an id on the first visit
// and attaches the user store for that id to the request context.
func Session(cookies sessions.Store, creds session.CredentialStore, registry *session.Registry, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slog.Default()

			// A cookie that no longer decodes (rotated secret) yields a
			// fresh session alongside the error.
			sess, err := cookies.Get(r, cookieName)
			if err != nil {
				log.Debug("session cookie rejected", slog.String("error", err.Error()))
			}

			sid, fresh := session.SessionID(sess)
			if fresh {
				if err := sess.Save(r, w); err != nil {
					log.Error("session save failed", slog.String("error", err.Error()))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
			}

			token, err := creds.Load(r.Context(), sess)
			if err != nil {
				log.Warn("credential load failed", slog.String("sid", sid), slog.String("error", err.Error()))
				token = ""
			}

			st := registry.Get(sid, token)
			next.ServeHTTP(w, r.WithContext(Attach(r.Context(), sess, sid, st)))
		})
	}
}

// Attach stores the session values Session would set. Handlers read
// them back with CookieSession, SessionID and Store.
func Attach(ctx context.Context, sess *sessions.Session, sid string, st *session.Store) context.Context {
	ctx = context.WithValue(ctx, cookieSessionKey, sess)
	ctx = context.WithValue(ctx, sidKey, sid)
	return context.WithValue(ctx, storeKey, st)
}

func CookieSession(ctx context.Context) *sessions.Session {
	sess, _ := ctx.Value(cookieSessionKey).(*sessions.Session)
	return sess
}

func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sidKey).(string)
	return sid
}

func Store(ctx context.Context) *session.Store {
	st, _ := ctx.Value(storeKey).(*session.Store)
	return st
}
