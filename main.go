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

	"pro5/backend/api"
	"pro5/backend/config"
	"pro5/backend/database"
	"pro5/backend/logging"
	"pro5/backend/migrations"
	"pro5/backend/models"
	"pro5/backend/restheart"
	"pro5/backend/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	resetDB    bool
	noExit     bool
)

var rootCmd = &cobra.Command{
	Use:   "pro5",
	Short: "pro5 catalog gateway",
	Long: `pro5 serves the category and item screens and JSON resources and
forwards every read and write to the entity store.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "pro5.yaml", "path to the YAML configuration file")
	rootCmd.Flags().BoolVar(&resetDB, "reset-db", false, "drop and rebuild the local mirror database")
	rootCmd.Flags().BoolVar(&noExit, "no-exit", false, "keep serving after --reset-db")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.IsDevelopment())
	if err != nil {
		return err
	}
	defer logger.Sync()

	if resetDB {
		if err := resetMirror(cfg.Database.Path, logger); err != nil {
			return err
		}
		if !noExit {
			logger.Info("Database reset completed successfully. Exiting.")
			return nil
		}
	}

	if err := database.InitDB(cfg.Database.Path, logger); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.DB.Close()

	storeOpts := restheart.Options{
		BaseURL:  cfg.Storage.BaseURL,
		Database: cfg.Storage.Database,
		Username: cfg.Storage.Username,
		Password: cfg.Storage.Password,
		Timeout:  cfg.GetStorageTimeout(),
	}
	categoryClient := restheart.NewClient[models.Category](storeOpts, "category", logger)
	itemClient := restheart.NewClient[models.Item](storeOpts, "item", logger)
	categoryRepo := database.NewCategoryRepository(database.DB)
	itemRepo := database.NewItemRepository(database.DB)

	categories := services.NewCategoryService(categoryClient, categoryRepo, logger)
	items := services.NewItemService(itemClient, itemRepo, categoryClient, categoryRepo, logger)

	server, err := api.NewServer(cfg, categories, items, logger)
	if err != nil {
		return err
	}

	syncer := services.NewSyncer(categoryClient, itemClient, categoryRepo, itemRepo, logger)
	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	schedulerDone := services.StartScheduler(schedulerCtx, syncer, cfg.GetSyncInterval(), logger)

	srv := &http.Server{
		Handler:      server.Handler(),
		Addr:         ":" + cfg.Server.Port,
		WriteTimeout: cfg.GetWriteTimeout(),
		ReadTimeout:  cfg.GetReadTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Server.Port),
			zap.String("store", cfg.Storage.BaseURL),
			zap.String("environment", cfg.Environment))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown failed", zap.Error(err))
		}
	}

	stopScheduler()
	<-schedulerDone
	return nil
}

func resetMirror(path string, logger *zap.Logger) error {
	logger.Info("Running in database reset mode", zap.String("path", path))

	db, err := database.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Reset(db); err != nil {
		return err
	}
	return migrations.RunMigrations(db, logger)
}
