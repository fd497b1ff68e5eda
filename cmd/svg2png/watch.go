package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/svg2png/internal/renderer"
	"github.com/pdiddy/svg2png/pkg/types"
)

const defaultSchedule = "@every 30s"

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-run the conversion on a schedule until interrupted",
	Long: `Watch converts dir once, then again on every tick of a cron schedule
(default "@every 30s"). A tick is skipped while the previous batch is still
running. Watch never pauses for input; stop it with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("schedule", defaultSchedule, `cron schedule, e.g. "@every 1m" or "*/5 * * * *"`)
	mustBind("schedule", watchCmd.Flags().Lookup("schedule"))

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := conversionConfig(args)
	if err != nil {
		return err
	}
	schedule := viper.GetString("schedule")
	if schedule == "" {
		schedule = defaultSchedule
	}

	r, err := renderer.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.With().Str("component", "watch").Logger()
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(&logger))))

	job := watchJob(ctx, r, cfg, os.Stdout, logger)
	if _, err := c.AddFunc(schedule, job); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	job()
	c.Start()
	logger.Info().Str("schedule", schedule).Str("dir", cfg.Dir).Msg("watching")

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info().Msg("stopped")
	return nil
}

// watchJob returns the batch run on every tick. Failures are logged and
// never stop the schedule or wait for input.
func watchJob(ctx context.Context, r renderer.Renderer, cfg types.ConversionConfig, w io.Writer, logger zerolog.Logger) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := runBatch(ctx, r, cfg, w); err != nil {
			logger.Warn().Err(err).Msg("batch finished with errors")
		}
	}
}
