package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/gantry/internal/config"
	"github.com/zulandar/gantry/internal/db"
	"github.com/zulandar/gantry/internal/notify"
	"github.com/zulandar/gantry/internal/reconcile"
	"github.com/zulandar/gantry/internal/server"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Gantry API server",
		Long:  "Serves the REST API and, when enabled, the periodic project-progress reconciler.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "gantry.yaml", "path to Gantry config file")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}

	notifier, err := notify.New(cfg.Notify)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Reconcile.Enabled {
		go func() {
			if err := reconcile.Run(ctx, reconcile.Opts{
				DB:       gormDB,
				Schedule: cfg.Reconcile.Schedule,
				Out:      out,
			}); err != nil {
				fmt.Fprintf(out, "reconciler stopped: %v\n", err)
			}
		}()
		fmt.Fprintf(out, "Reconciler scheduled: %s\n", cfg.Reconcile.Schedule)
	}

	return server.Start(ctx, server.StartOpts{
		DB:       gormDB,
		Port:     cfg.Server.Port,
		Notifier: notifier,
		Out:      out,
	})
}
