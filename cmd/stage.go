package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/podo/podo/internal/cliprompt"
	"github.com/podo/podo/internal/diff"
	"github.com/spf13/cobra"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Compute the diff between the declared schema and the filesystem history, and record it as the staged version",
	RunE:  runStage,
}

func init() {
	rootCmd.AddCommand(stageCmd)
}

func runStage(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	head := fsHead(p.FS)
	source, err := replaySnapshot(p.FS, head)
	if err != nil {
		return err
	}
	target, err := p.targetSnapshot()
	if err != nil {
		return err
	}

	changes, err := diff.Diff(source, target)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Println(color.GreenString("✓ no changes to stage"))
		return nil
	}

	approved, err := cliprompt.ConfirmChanges("Stage the following changes?", changes, yesFlag)
	if err != nil {
		return err
	}
	if !approved {
		fmt.Println(color.YellowString("aborted"))
		return nil
	}

	downs, err := annotateDown(changes, source)
	if err != nil {
		return err
	}

	stage, err := p.FS.Get("stage")
	if err != nil {
		return err
	}
	stage.Reset()
	for i, c := range changes {
		stage.AddChange(c, downs[i])
	}
	if err := p.FS.Save(stage); err != nil {
		return err
	}

	fmt.Println(color.GreenString("✓ staged %d change(s)", len(changes)))
	return nil
}
