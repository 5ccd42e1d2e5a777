// Package routes wires handlers and middleware into the HTTP router.
package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"

	"questpath/apiclient"
	"questpath/handlers"
	"questpath/middleware"
	"questpath/session"
)

type Deps struct {
	API            *apiclient.Client
	Pages          handlers.Renderer
	Cookies        sessions.Store
	Credentials    session.CredentialStore
	Registry       *session.Registry
	CookieName     string
	GuardWait      time.Duration
	AllowedOrigins []string
	Log            *slog.Logger
}

func New(d Deps) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = handlers.NotFoundPage(d.Pages)
	r.Use(middleware.Session(d.Cookies, d.Credentials, d.Registry, d.CookieName))

	// Public pages
	r.HandleFunc("/", handlers.HomePage()).Methods(http.MethodGet)
	r.HandleFunc("/login", handlers.LoginPage(d.Pages, d.GuardWait)).Methods(http.MethodGet)
	r.HandleFunc("/login", handlers.Login(d.API, d.Credentials, d.Registry, d.Pages)).Methods(http.MethodPost)
	r.HandleFunc("/logout", handlers.Logout(d.Credentials, d.Registry)).Methods(http.MethodPost)

	// Session state for scripts and other origins
	api := r.PathPrefix("/api").Subrouter()
	api.Use(cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet},
		AllowCredentials: true,
	}).Handler)
	api.HandleFunc("/session", handlers.SessionAPI(d.GuardWait)).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/ws/session", handlers.SessionSocket()).Methods(http.MethodGet)

	// Guarded pages
	protected := r.NewRoute().Subrouter()
	protected.Use(middleware.Guard(d.GuardWait, handlers.LoadingPage(d.Pages)))

	protected.HandleFunc("/dashboard", handlers.DashboardPage(d.API, d.Pages)).Methods(http.MethodGet)
	protected.HandleFunc("/goals/new", handlers.NewGoalPage(d.Pages)).Methods(http.MethodGet)
	protected.HandleFunc("/goals/new", handlers.CreateGoal(d.API, d.Pages)).Methods(http.MethodPost)
	protected.HandleFunc("/goals/{id:[0-9]+}", handlers.GoalPage(d.API, d.Pages)).Methods(http.MethodGet)
	protected.HandleFunc("/leaderboard", handlers.LeaderboardPage(d.API, d.Pages)).Methods(http.MethodGet)
	protected.HandleFunc("/profile", handlers.ProfilePage(d.API, d.Pages)).Methods(http.MethodGet)
	protected.HandleFunc("/profile", handlers.UpdateProfile(d.API, d.Pages)).Methods(http.MethodPost)

	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return middleware.Logger(log)(r)
}
