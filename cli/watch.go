package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultWatchInterval = 15 * time.Minute

func (c *cli) watchCommand() *cobra.Command {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "watch city...",
		Args:  cobra.MinimumNArgs(1),
		Short: "Refresh the dashboard for a city on a fixed interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			if every < time.Minute {
				return fmt.Errorf("--every must be at least 1m, got %s", every)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			stop := c.start(ctx)
			defer stop()

			return c.watch(ctx, strings.Join(args, " "), every)
		},
	}

	cmd.Flags().DurationVar(&every, "every", defaultWatchInterval, "refresh interval")

	return cmd
}

func (c *cli) watch(ctx context.Context, city string, every time.Duration) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if !c.screen.SearchEnabled() {
				c.log.Info("previous refresh still running", zap.String("city", city))
				return
			}
			if err := c.weather.Search(ctx, city); err != nil {
				c.log.Error("refresh not started", zap.String("city", city), zap.Error(err))
				return
			}
			if err := c.settle(ctx); err != nil {
				c.log.Warn("refresh not applied", zap.String("city", city), zap.Error(err))
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}

	scheduler.Start()
	c.log.Info("watching", zap.String("city", city), zap.Duration("every", every))

	<-ctx.Done()

	if err := scheduler.Shutdown(); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}

	return nil
}
