// Command admin manages a yatube deployment: migrations, groups and demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/middleware"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "admin [command]",
	Short:         "yatube administration",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openDB loads configuration and connects to the configured database.
func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	middleware.Logger = middleware.NewLogger(os.Stderr, cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func success(format string, args ...any) {
	color.New(color.FgGreen).Printf(format+"\n", args...)
}
