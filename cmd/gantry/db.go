package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zulandar/gantry/internal/config"
	"github.com/zulandar/gantry/internal/db"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBResetCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var (
		configPath    string
		adminPassword string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the Gantry database",
		Long:  "Creates the database, migrates all tables, and seeds the admin account.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath, adminPassword)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "gantry.yaml", "path to Gantry config file")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "initial admin password (skips seeding when empty)")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath, adminPassword string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fmt.Fprintf(out, "Loaded config from %s\n", configPath)

	adminDB, err := db.ConnectAdmin(cfg.DB)
	if err != nil {
		return fmt.Errorf("connect to MySQL at %s:%d: %w", cfg.DB.Host, cfg.DB.Port, err)
	}
	fmt.Fprintf(out, "Connected to MySQL at %s:%d\n", cfg.DB.Host, cfg.DB.Port)

	if err := db.CreateDatabase(adminDB, cfg.DB.Database); err != nil {
		return err
	}
	fmt.Fprintf(out, "Database %s ready\n", cfg.DB.Database)

	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.DB.Database, err)
	}

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	if adminPassword != "" {
		if err := db.SeedAdmin(gormDB, adminPassword); err != nil {
			return err
		}
		fmt.Fprintln(out, "Admin account seeded")
	}

	fmt.Fprintln(out, "\nGantry database initialized successfully.")
	return nil
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and re-initialize the Gantry database",
		Long:  "Drops the configured database, re-creates it, and migrates all tables. Destructive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "gantry.yaml", "path to Gantry config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath string, yes bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if !yes {
		return fmt.Errorf("refusing to drop database %q without --yes", cfg.DB.Database)
	}

	adminDB, err := db.ConnectAdmin(cfg.DB)
	if err != nil {
		return fmt.Errorf("connect to MySQL at %s:%d: %w", cfg.DB.Host, cfg.DB.Port, err)
	}

	if err := db.DropDatabase(adminDB, cfg.DB.Database); err != nil {
		return err
	}
	fmt.Fprintf(out, "Dropped database %s\n", cfg.DB.Database)

	return runDBInit(cmd, configPath, "")
}
