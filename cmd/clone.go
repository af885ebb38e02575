package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/podo/podo/internal/cliprompt"
	"github.com/podo/podo/internal/docdef"
	"github.com/podo/podo/internal/introspect"
	"github.com/spf13/cobra"
)

var cloneOutputFile string

var cloneCmd = &cobra.Command{
	Use:   "clone",
	Short: "Introspect the live database and write its schema to the definitions directory",
	RunE:  runClone,
}

func init() {
	cloneCmd.Flags().StringVar(&cloneOutputFile, "out", "introspected.yaml", "file name (within the definitions directory) to write")
	rootCmd.AddCommand(cloneCmd)
}

func runClone(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	outPath := filepath.Join(p.Config.DefinitionsDir(), cloneOutputFile)
	if _, err := os.Stat(outPath); err == nil {
		approved, err := cliprompt.Confirm("Overwrite existing definitions file?", outPath, yesFlag)
		if err != nil {
			return err
		}
		if !approved {
			fmt.Println(color.YellowString("aborted"))
			return nil
		}
	}

	conn, err := p.openDB(context.Background())
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	db, err := introspect.Database(context.Background(), conn, p.Profile.MetadataSchema)
	if err != nil {
		return err
	}

	data, err := docdef.RenderDatabase(db)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}

	fmt.Println(color.GreenString("✓ wrote %s", outPath))
	return nil
}
