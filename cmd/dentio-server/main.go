package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dentio/dentio/internal/config"
	"github.com/dentio/dentio/internal/domain/catalog"
	"github.com/dentio/dentio/internal/domain/chart"
	"github.com/dentio/dentio/internal/domain/examination"
	"github.com/dentio/dentio/internal/domain/history"
	"github.com/dentio/dentio/internal/platform/db"
	"github.com/dentio/dentio/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dentio-server",
		Short: "Dental clinic tooth history API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations (postgres only)",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			pool, err := postgresPool()
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(context.Background())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			pool, err := postgresPool()
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the predefined status catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := openStorage(context.Background(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			created, err := catalog.NewService(store.catalogRepo).Seed(context.Background())
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Printf("Seeded %d status(es), %d already present.\n",
				created, len(catalog.PredefinedStatuses())-created)
			return nil
		},
	}
}

func postgresPool() (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver != config.DriverPostgres {
		return nil, fmt.Errorf("migrations require DB_DRIVER=postgres, got %q", cfg.DBDriver)
	}
	return db.NewPool(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
}

// storage bundles the repositories for whichever backend the config selects.
type storage struct {
	pool  *pgxpool.Pool
	sqldb *sql.DB

	catalogRepo catalog.Repository
	historyRepo history.Repository
	chartRepo   chart.Repository
	examRepo    examination.Repository
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return &storage{
			pool:        pool,
			catalogRepo: catalog.NewRepoPG(pool),
			historyRepo: history.NewRepoPG(pool),
			chartRepo:   chart.NewRepoPG(pool),
			examRepo:    examination.NewRepoPG(pool),
		}, nil
	case config.DriverSQLite:
		sqldb, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &storage{
			sqldb:       sqldb,
			catalogRepo: catalog.NewRepoSQLite(sqldb),
			historyRepo: history.NewRepoSQLite(sqldb),
			chartRepo:   chart.NewRepoSQLite(sqldb),
			examRepo:    examination.NewRepoSQLite(sqldb),
		}, nil
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}

func (s *storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.sqldb != nil {
		s.sqldb.Close()
	}
}

func (s *storage) pinger() db.Pinger {
	if s.pool != nil {
		return s.pool
	}
	return db.PingFunc(s.sqldb.PingContext)
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Storage
	ctx := context.Background()
	store, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage")
	}
	defer store.Close()
	logger.Info().Str("driver", cfg.DBDriver).Msg("storage ready")

	// Services
	catalogSvc := catalog.NewService(store.catalogRepo)
	historySvc := history.NewService(store.historyRepo, catalogSvc)
	resolver := history.NewResolver(store.historyRepo, catalogSvc)
	chartSvc := chart.NewService(store.chartRepo, catalogSvc)
	examSvc := examination.NewService(store.examRepo, chartSvc, logger)

	// The embedded backend seeds itself so a fresh workstation install
	// works without a separate seed step.
	if cfg.DBDriver == config.DriverSQLite {
		created, err := catalogSvc.Seed(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to seed status catalog")
		}
		if created > 0 {
			logger.Info().Int("created", created).Msg("seeded status catalog")
		}
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// API group
	apiV1 := e.Group("/api/v1")

	catalog.NewHandler(catalogSvc).RegisterRoutes(apiV1)
	history.NewHandler(historySvc, resolver).RegisterRoutes(apiV1)
	chart.NewHandler(chartSvc).RegisterRoutes(apiV1)
	examination.NewHandler(examSvc).RegisterRoutes(apiV1)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(store.pinger(), store.pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
