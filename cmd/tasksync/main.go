package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tasksync/internal/config"
	"tasksync/internal/engine"
	"tasksync/internal/gateway"
	"tasksync/internal/repository"
	"tasksync/internal/service"
	"tasksync/internal/store"
	"tasksync/internal/views"
)

// app holds the wired subsystems shared by every command.
type app struct {
	cfg     config.Config
	store   *store.Store
	engine  *engine.Engine
	sync    *service.SyncService
	views   *views.Calculator
	recency *store.RecencyTracker
	close   func()
}

// setup wires config -> db -> repositories -> gateway -> store -> engine,
// in the same order the services depend on each other.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	snapshots := repository.NewSnapshotRepository(db, logger)
	recencyRepo := repository.NewRecencyRepository(db, logger)

	recency := store.NewRecencyTracker(recencyRepo, cfg.UserID, logger)
	if err := recency.Load(ctx); err != nil {
		logger.Warn("load recency list", "error", err)
	}

	st := store.New(recency, logger)
	client := gateway.NewClient(cfg.APIBaseURL, cfg.APIToken)

	syncSvc := service.NewSyncService(st, snapshots, client, recency, cfg.UserID, cfg.CacheTTL, logger)
	eng := engine.New(st, snapshots, client, cfg.UserID, logger)
	eng.SetReconcile(syncSvc.Refresh)

	return &app{
		cfg:     cfg,
		store:   st,
		engine:  eng,
		sync:    syncSvc,
		views:   views.NewCalculator(),
		recency: recency,
		close:   closeDB,
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	root := &cobra.Command{
		Use:           "tasksync",
		Short:         "Workspace/task sync client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			wired, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			*a = *wired
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.close != nil {
				a.close()
			}
		},
	}

	root.AddCommand(
		newSyncCmd(a),
		newTodayCmd(a),
		newOverdueCmd(a),
		newUpcomingCmd(a),
		newRecentCmd(a),
		newWorkspacesCmd(a),
		newCategoriesCmd(a),
		newTasksCmd(a),
		newActivityCmd(a),
		newWatchCmd(a),
		newLogoutCmd(a),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		log.Fatalf("tasksync: %v", err)
	}
}
