package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/podo/podo/internal/history/fs"
	"github.com/spf13/cobra"
)

var makeCmd = &cobra.Command{
	Use:   "make <version>",
	Short: "Promote the staged changes into a new named version",
	Args:  cobra.ExactArgs(1),
	RunE:  runMake,
}

func init() {
	rootCmd.AddCommand(makeCmd)
}

func runMake(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	stage, err := p.FS.Get(fs.Stage)
	if err != nil {
		return err
	}
	if stage.IsEmpty() {
		fmt.Println(color.YellowString("nothing staged — run `podo stage` first"))
		return nil
	}

	name := args[0]
	version := &fs.Version{
		Name:     name,
		Previous: stage.Previous,
		Changes:  stage.Changes,
		Up:       stage.Up,
		Down:     stage.Down,
	}
	if err := p.FS.Save(version); err != nil {
		return err
	}

	newStage := fs.NewStage(name)
	if err := p.FS.Save(newStage); err != nil {
		return err
	}

	fmt.Println(color.GreenString("✓ created version %s", name))
	return nil
}
