package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"visionforge/internal/daemon"
	"visionforge/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the backend daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Local overrides such as VOICEVOX_URL come from a .env file
			// when present; a missing file is fine.
			_ = godotenv.Load()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}

			d, err := daemon.New(cfg, logger)
			if err != nil {
				return err
			}
			defer d.Close()

			runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := d.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "visionforge daemon listening on %s\n", d.Addr())

			<-runCtx.Done()
			d.Stop()
			return nil
		},
	}
}
