// handlers/home.go
package handlers

import "net/http"

// HomePage sends visitors to the dashboard; the guard there decides
// whether they need to log in first.
func HomePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}
