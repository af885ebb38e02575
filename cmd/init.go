package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/podo/podo/internal/config"
	"github.com/podo/podo/internal/history/fs"
	"github.com/spf13/cobra"
)

var initDatabaseURL string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new podo project in the current directory",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initDatabaseURL, "database-url", "postgres://localhost:5432/postgres", "database URL for the default profile")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := config.Discover(); err == nil {
		return fmt.Errorf("project already initialized")
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	configContents := fmt.Sprintf("profiles:\n  %s:\n    database_url: %s\n", config.DefaultProfile, initDatabaseURL)
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(configContents), 0o644); err != nil {
		return err
	}

	historyDir := filepath.Join(dir, config.HistoryDirName)
	if err := os.MkdirAll(historyDir, 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(dir, config.DefinitionsDirName), 0o755); err != nil {
		return err
	}

	h := &fs.History{Dir: historyDir, NextMap: map[string]string{}}
	if err := h.Save(fs.NewInit()); err != nil {
		return err
	}
	if err := h.Save(fs.NewStage(fs.Init)); err != nil {
		return err
	}

	fmt.Println(color.GreenString("✓ initialized podo project in %s", dir))
	return nil
}
