package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yukikurage/worker-tasks-graphql/internal/config"
	"github.com/yukikurage/worker-tasks-graphql/internal/database"
	"github.com/yukikurage/worker-tasks-graphql/internal/graph"
	"github.com/yukikurage/worker-tasks-graphql/internal/handlers"
	"github.com/yukikurage/worker-tasks-graphql/internal/repository"
	"github.com/yukikurage/worker-tasks-graphql/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:           "server",
		Short:         "Worker Tasks GraphQL API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.String("db-driver", v.GetString("db_driver"), "database driver: mysql, postgres or sqlite")
	flags.String("db-dsn", v.GetString("db_dsn"), "database DSN, overrides the DB_* settings")
	flags.String("log-level", v.GetString("log_level"), "log level: debug, info, warn or error")
	_ = v.BindPFlag("db_driver", flags.Lookup("db-driver"))
	_ = v.BindPFlag("db_dsn", flags.Lookup("db-dsn"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and serve the GraphQL API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, serveAPI)
		},
	}
	serve.Flags().String("port", v.GetString("port"), "HTTP port")
	_ = v.BindPFlag("port", serve.Flags().Lookup("port"))

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, func(context.Context, *config.Config, *gorm.DB, *zap.Logger) error {
				return nil
			})
		},
	}

	root.AddCommand(serve, migrate)
	return root
}

type command func(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) error

// run loads the configuration, connects and migrates the database and then
// hands over to fn.
func run(ctx context.Context, v *viper.Viper, fn command) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() // nolint

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	log.Info("Running database migrations")
	if err := database.Migrate(db); err != nil {
		log.Error("Failed to run migrations", zap.Error(err))
		return err
	}
	log.Info("Database migrations completed")

	return fn(ctx, cfg, db, log)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level

	return zc.Build()
}

func serveAPI(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) error {
	gin.SetMode(cfg.GinMode)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	userService := services.NewUserService(userRepo, taskRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, log)

	schema, err := graph.NewSchema(userService, taskService, log)
	if err != nil {
		return err
	}

	router := handlers.NewRouter(
		handlers.NewGraphQLHandler(schema, log),
		handlers.NewHealthHandler(db),
		log,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
