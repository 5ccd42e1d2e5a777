// middleware/auth.go
package middleware

import (
	"net/http"
	"time"

	"questpath/session"
)

// Guard lets a request through only once its session store has resolved
// to an authenticated user. While the store is still loading it serves
// loading instead of the page and asks the browser to retry; an
// anonymous session is sent to /login.
func Guard(wait time.Duration, loading http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := Store(r.Context())
			if st == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			switch st.Resolve(r.Context(), wait) {
			case session.StateAuthenticated:
				next.ServeHTTP(w, r)
			case session.StateAnonymous:
				http.Redirect(w, r, "/login", http.StatusSeeOther)
			default:
				w.Header().Set("Refresh", "1")
				w.Header().Set("Cache-Control", "no-store")
				loading.ServeHTTP(w, r)
			}
		})
	}
}
