package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"

	server "github.com/BhanuIITMandi/SprintSync/internal"
	"github.com/BhanuIITMandi/SprintSync/internal/config"
	"github.com/BhanuIITMandi/SprintSync/internal/eventbus"
	"github.com/BhanuIITMandi/SprintSync/internal/metrics"
	"github.com/BhanuIITMandi/SprintSync/internal/suggest"
	"github.com/BhanuIITMandi/SprintSync/internal/task"
	taskrepo "github.com/BhanuIITMandi/SprintSync/internal/task/repositoryimpl"
	"github.com/BhanuIITMandi/SprintSync/internal/user"
	userrepo "github.com/BhanuIITMandi/SprintSync/internal/user/repositoryimpl"
	"github.com/BhanuIITMandi/SprintSync/pkg/clog"
	"github.com/BhanuIITMandi/SprintSync/pkg/panicerr"
	"github.com/BhanuIITMandi/SprintSync/pkg/storage"
)

var (
	app = kingpin.New("sprintsync", "Internal task tracker with AI-assisted planning")

	serveCmd = app.Command("serve", "Start the SprintSync server")

	setupDBCmd = app.Command("setup-db", "Drop and recreate the database schema, then load seed data")
	setupDBDir = setupDBCmd.Flag("dir", "Directory containing schema.sql and seed.sql").Default("db").String()

	seedCmd = app.Command("seed", "Load seed data into an existing database")
	seedDir = seedCmd.Flag("dir", "Directory containing seed.sql").Default("db").String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewHTTPTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	switch command {
	case serveCmd.FullCommand():
		serve(env)
	case setupDBCmd.FullCommand():
		if err := setupDB(env, *setupDBDir); err != nil {
			slog.Error("failed to set up database", "error", err)
			os.Exit(1)
		}
	case seedCmd.FullCommand():
		if err := seedDB(env, *seedDir); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}
}

func serve(env *config.Env) {
	// Setup repositories
	var (
		userRepo user.Repository
		taskRepo task.Repository
	)
	switch env.StorageEnv.Type {
	case "postgres":
		db, err := sql.Open("postgres", env.DatabaseEnv.DSN())
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		userRepo = userrepo.NewPostgresRepository(db)
		taskRepo = taskrepo.NewPostgresRepository(db)
	case "s3":
		store, err := storage.NewS3Storage(context.Background(), env.StorageEnv.S3Bucket, env.StorageEnv.S3Prefix, env.StorageEnv.S3Region)
		if err != nil {
			slog.Error("failed to create S3 storage", "error", err)
			os.Exit(1)
		}
		userRepo = userrepo.NewYAMLRepository(store)
		taskRepo = taskrepo.NewYAMLRepository(store)
	default:
		store, err := storage.NewLocalStorage(env.StorageEnv.BaseDir)
		if err != nil {
			slog.Error("failed to create local storage", "error", err)
			os.Exit(1)
		}
		userRepo = userrepo.NewYAMLRepository(store)
		taskRepo = taskrepo.NewYAMLRepository(store)
	}

	// Setup event bus
	bus := eventbus.New()
	audit := eventbus.NewAuditLogger(bus)

	// Setup servers
	userServer := user.NewServer(userRepo, bus, []byte(env.JWTSecret), env.TokenLifetime)
	taskServer := task.NewServer(taskRepo, userRepo, bus)

	settings := suggest.NewSettingsSource(env.AIEnv)
	suggestService := suggest.NewService(taskRepo, settings, suggest.NewLiveGenerator())
	suggestServer := suggest.NewServer(suggestService)

	// Setup metrics
	collector := metrics.NewCollector()
	collector.Register(metrics.NewStoreCollector(taskRepo, userRepo))

	srv := server.NewServer(env, userServer, taskServer, suggestServer, collector)

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	go func() {
		if err := panicerr.SafeContext(audit.Start)(ctx); err != nil {
			slog.Error("audit logger stopped", "error", err)
		}
	}()
	go func() {
		if err := panicerr.SafeContext(settings.Watch)(ctx); err != nil {
			slog.Error("settings watcher stopped", "error", err)
		}
	}()

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
