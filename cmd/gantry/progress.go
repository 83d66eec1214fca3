package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zulandar/gantry/internal/config"
	"github.com/zulandar/gantry/internal/db"
	"github.com/zulandar/gantry/internal/progress"
)

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Progress maintenance commands",
	}

	cmd.AddCommand(newProgressRecalcCmd())
	return cmd
}

func newProgressRecalcCmd() *cobra.Command {
	var (
		configPath string
		projectID  uint
	)

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recompute stored project progress",
		Long: `Recomputes and persists project progress from task rows.

With --project, also re-derives every composite task in that project's tree
before recomputing the project aggregate. Without it, all projects are
recomputed sequentially.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgressRecalc(cmd, configPath, projectID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "gantry.yaml", "path to Gantry config file")
	cmd.Flags().UintVarP(&projectID, "project", "p", 0, "limit to a single project id")
	return cmd
}

func runProgressRecalc(cmd *cobra.Command, configPath string, projectID uint) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}

	if projectID != 0 {
		if err := progress.RecomputeProjectSubtree(gormDB, projectID); err != nil {
			return err
		}
		pct, err := progress.CalculateProjectProgress(gormDB, projectID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Project %d progress: %d%%\n", projectID, pct)
		return nil
	}

	results, err := progress.CalculateAllProjectsProgress(gormDB)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintf(out, "Project %d progress: %d%%\n", r.ProjectID, r.Progress)
	}
	fmt.Fprintf(out, "Recomputed %d projects\n", len(results))
	return nil
}
