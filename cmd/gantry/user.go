package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zulandar/gantry/internal/config"
	"github.com/zulandar/gantry/internal/db"
	"github.com/zulandar/gantry/internal/models"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
	"gorm.io/gorm"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
	}

	cmd.AddCommand(newUserResetPasswordCmd())
	return cmd
}

func newUserResetPasswordCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "reset-password <username>",
		Short: "Reset a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserResetPassword(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "gantry.yaml", "path to Gantry config file")
	return cmd
}

func runUserResetPassword(cmd *cobra.Command, configPath, username string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}

	var user models.User
	err = gormDB.Where("username = ?", username).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("user %q not found", username)
	}
	if err != nil {
		return fmt.Errorf("load user %q: %w", username, err)
	}

	fmt.Fprintf(out, "New password for %s: ", username)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := gormDB.Model(&models.User{}).Where("user_id = ?", user.UserID).
		Update("password", string(hash)).Error; err != nil {
		return fmt.Errorf("update password for %q: %w", username, err)
	}

	fmt.Fprintf(out, "Password updated for %s\n", username)
	return nil
}
