package main

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

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	emailPkg "fitpro/internal/adapters/email"
	web "fitpro/internal/adapters/http"
	"fitpro/internal/adapters/http/middleware"
	"fitpro/internal/adapters/http/perf"
	"fitpro/internal/adapters/jobs"
	"fitpro/internal/adapters/storage"
	"fitpro/internal/application/orchestrators"
	"fitpro/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// shutdownGrace bounds how long in-flight requests may run after a signal.
const shutdownGrace = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		err = serve(cfg)
	case "migrate":
		err = migrate(cfg)
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [serve|migrate]\n", os.Args[0])
		os.Exit(2)
	}
	if err != nil {
		slog.Error("fatal", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func setupLogging(cfg config.Config) {
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// migrate applies pending schema migrations and exits.
func migrate(cfg config.Config) error {
	db, err := storage.Open(cfg.DBDriver, cfg.DBURL)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := storage.MigrateDB(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	current, err := storage.SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	slog.Info("migrations_applied", "schema", current)
	return nil
}

func serve(cfg config.Config) error {
	ctx := context.Background()

	db, err := storage.Open(cfg.DBDriver, cfg.DBURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.MigrateDB(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.Info("database_ready", "driver", cfg.DBDriver, "schema", storage.LatestSchemaVersion())

	// Performance instrumentation: stores go through the timed DB.
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)
	stores := web.NewStores(timedDB)

	seedDeps := orchestrators.CreateAccountDeps{
		Tx:           stores.Tx,
		AccountStore: stores.AccountStore,
		ProfileStore: stores.ProfileStore,
	}
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if _, err := orchestrators.ExecuteSeedPlans(ctx, orchestrators.PlanDeps{PlanStore: stores.PlanStore}); err != nil {
		return fmt.Errorf("failed to seed plans: %w", err)
	}

	sender := emailPkg.NewSender(emailPkg.Config{
		ResendKey:    cfg.ResendKey,
		From:         cfg.EmailFrom,
		ReplyTo:      cfg.ReplyTo,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUser:     cfg.SMTPUser,
		SMTPPassword: cfg.SMTPPassword,
	})
	web.SetEmailSender(sender, cfg.ReplyTo)
	if _, noop := sender.(*emailPkg.NoopSender); noop && cfg.IsProduction() {
		slog.Warn("email_disabled", "reason", "neither FITPRO_RESEND_KEY nor FITPRO_SMTP_HOST is set")
	}

	var tokens *middleware.TokenIssuer
	if cfg.JWTSecret != "" {
		if tokens, err = middleware.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL); err != nil {
			return err
		}
	} else {
		slog.Info("bearer_tokens_disabled", "reason", "FITPRO_JWT_SECRET is not set")
	}

	csrfKey, err := cfg.CSRFKeyBytes()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	handler := web.NewRouter(stores, web.Options{
		CSRFKey:       csrfKey,
		SecureCookies: cfg.IsProduction(),
		CORSOrigins:   cfg.CORSOrigins,
		RateLimit:     cfg.RateLimit,
		Tokens:        tokens,
		Location:      loc,
		Collector:     collector,
		Health:        db.PingContext,
	})
	defer web.Close()

	scheduler := jobs.New(loc)
	if cfg.ExpireSchedule != "" {
		err := scheduler.Add("expire_memberships", cfg.ExpireSchedule, time.Minute, func(ctx context.Context) error {
			_, err := orchestrators.ExecuteExpireMemberships(ctx, orchestrators.MembershipDeps{
				Tx:              stores.Tx,
				AccountStore:    stores.AccountStore,
				PlanStore:       stores.PlanStore,
				MembershipStore: stores.MembershipStore,
				Location:        loc,
			})
			return err
		})
		if err != nil {
			return err
		}
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "timezone", loc.String())
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-sigCh:
		slog.Info("server_stopping", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("server_stopped")
	return nil
}
