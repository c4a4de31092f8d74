package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikogura/resume-builder/pkg/config"
	"github.com/nikogura/resume-builder/pkg/server"
	"github.com/nikogura/resume-builder/pkg/session"
	"github.com/spf13/cobra"
)

const purgeInterval = time.Hour

//nolint:gochecknoglobals // Cobra boilerplate
var serveListen string

//nolint:gochecknoglobals // Cobra boilerplate
var serveSessionDB string

//nolint:gochecknoglobals // Cobra boilerplate
var serveSessionTTL time.Duration

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resume builder HTTP API",
	Long: `Serve the questionnaire, generation, revision and rendering flow over HTTP.

Sessions are kept in memory unless --session-db names a SQLite database, in which case they
survive restarts and sessions idle for longer than --session-ttl are purged hourly.

Non-Latin characters will be removed from rendered PDFs.

Example:
  resume-builder serve
  resume-builder serve --listen :8080 --session-db ~/.resume-builder/sessions.db`,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default from config)")
	serveCmd.Flags().StringVar(&serveSessionDB, "session-db", "", "SQLite session database (default from config, in memory if unset)")
	serveCmd.Flags().DurationVar(&serveSessionTTL, "session-ttl", 24*time.Hour, "Purge stored sessions idle for longer than this")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	err = cfg.RequireAPIKey()
	if err != nil {
		return err
	}

	var store session.Store
	dbPath := flagOrConfig(serveSessionDB, cfg.Server.SessionDB)
	if dbPath == "" {
		store = session.NewMemoryStore()
		slog.Info("sessions kept in memory")
	} else {
		var db *session.SQLiteStore
		db, err = session.OpenSQLite(ctx, dbPath)
		if err != nil {
			return err
		}
		defer func() {
			closeErr := db.Close()
			if closeErr != nil {
				slog.Error("failed to close session database", "error", closeErr)
			}
		}()

		go purgeSessions(ctx, db, serveSessionTTL)
		store = db
		slog.Info("sessions stored in SQLite", "path", dbPath)
	}

	ctrl := session.NewController(store, newClient(cfg), newRenderer(cfg))
	srv := server.New(ctrl, slog.Default())

	err = srv.ListenAndServe(ctx, flagOrConfig(serveListen, cfg.Server.ListenAddr))
	return err
}

// purgeSessions deletes idle sessions every purgeInterval until ctx is done.
func purgeSessions(ctx context.Context, db *session.SQLiteStore, ttl time.Duration) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		n, err := db.PurgeBefore(ctx, time.Now().Add(-ttl))
		if err != nil {
			slog.Error("session purge failed", "error", err)
		} else if n > 0 {
			slog.Info("purged idle sessions", "count", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
