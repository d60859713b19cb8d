package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tasksync/internal/service"
)

const watchJobTimeout = 30 * time.Second

// runWatch refreshes once, then keeps re-fetching on the configured
// interval (default: the cache freshness window) until the context is
// cancelled. A non-empty daily time (HH:MM) adds a fixed-time refresh
// on top of the interval.
func runWatch(cmd *cobra.Command, a *app, daily string) error {
	ctx := cmd.Context()

	if err := a.sync.Load(ctx, true); err != nil {
		return err
	}

	interval := a.cfg.RefreshInterval
	if interval <= 0 {
		interval = a.cfg.CacheTTL
	}

	refresh := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), watchJobTimeout)
		defer cancel()
		if err := a.sync.Refresh(jobCtx); err != nil {
			fmt.Printf("refresh: %v\n", err)
		}
	}

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleRefresh(interval, refresh); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	if daily != "" {
		if _, err := scheduler.ScheduleDaily(daily, refresh); err != nil {
			return fmt.Errorf("schedule daily refresh: %w", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	fmt.Printf("refreshing every %s, ctrl-c to stop\n", interval)
	<-ctx.Done()
	return nil
}
