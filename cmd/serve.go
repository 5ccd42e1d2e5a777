package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"questpath/apiclient"
	"questpath/config"
	"questpath/database"
	"questpath/logger"
	"questpath/routes"
	"questpath/session"
	"questpath/templates"
	"questpath/views"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runServe(cmd.Context(), cfg)
	},
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout.Duration, apiclient.WithLogger(log))

	cookies, err := session.NewCookieStore(cfg.Session.Secret, cfg.Session.MaxAge, cfg.Session.Secure)
	if err != nil {
		return err
	}

	creds, closeCreds, err := credentialStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCreds()

	connect := func(token string) session.Backend { return api.WithToken(token) }
	registry, err := session.NewRegistry(cfg.Session.CacheSize, func(credential string) *session.Store {
		return session.NewStore(credential, connect,
			session.WithLogger(log),
			session.WithInitTimeout(cfg.Session.InitTimeout.Duration),
		)
	})
	if err != nil {
		return err
	}

	pages, err := templates.New(views.FuncMap(), log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: routes.New(routes.Deps{
			API:            api,
			Pages:          pages,
			Cookies:        cookies,
			Credentials:    creds,
			Registry:       registry,
			CookieName:     cfg.Session.CookieName,
			GuardWait:      cfg.Session.GuardWait.Duration,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Log:            log,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			slog.String("addr", cfg.Server.Addr),
			slog.String("api", cfg.API.BaseURL),
			slog.String("credentials", cfg.Session.Credentials),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server shutting down", slog.Int("sessions", registry.Len()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// credentialStore opens the configured credential backend. The returned
// func releases it.
func credentialStore(ctx context.Context, cfg *config.Config) (session.CredentialStore, func(), error) {
	if cfg.Session.Credentials != config.CredentialsPostgres {
		return session.CookieCredentials{}, func() {}, nil
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.InitDB(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return database.NewPostgresCredentials(db), func() { db.Close() }, nil
}
