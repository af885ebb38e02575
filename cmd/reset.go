package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/podo/podo/internal/cliprompt"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the staged (uncommitted) changes",
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	stage, err := p.FS.Get("stage")
	if err != nil {
		return err
	}
	if stage.IsEmpty() {
		fmt.Println(color.GreenString("✓ stage is already empty"))
		return nil
	}

	approved, err := cliprompt.Confirm("Discard staged changes?", fmt.Sprintf("%d change(s) will be discarded", len(stage.Changes)), yesFlag)
	if err != nil {
		return err
	}
	if !approved {
		fmt.Println(color.YellowString("aborted"))
		return nil
	}

	stage.Reset()
	if err := p.FS.Save(stage); err != nil {
		return err
	}
	fmt.Println(color.GreenString("✓ stage reset"))
	return nil
}
