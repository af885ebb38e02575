package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fatih/color"
	"github.com/podo/podo/internal/change"
	"github.com/podo/podo/internal/cliprompt"
	"github.com/podo/podo/internal/history/db"
	"github.com/podo/podo/internal/pgconn"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up [version]",
	Short: "Apply pending versions to the database, up to the given version (default: the latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUp,
}

func init() {
	rootCmd.AddCommand(upCmd)
}

func runUp(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	target := fsHead(p.FS)
	if len(args) == 1 {
		target = args[0]
	}

	conn, err := p.openDB(context.Background())
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ctx := context.Background()
	h := db.New(p.Profile.MetadataSchema)

	var dbCurrent string
	if err := pgconn.WithTx(ctx, conn, func(tx *sql.Tx) error {
		if err := h.EnsureInitialized(ctx, tx); err != nil {
			return err
		}
		cur, err := h.CurrentVersion(ctx, tx)
		if err != nil {
			return err
		}
		dbCurrent = cur
		return nil
	}); err != nil {
		return err
	}

	if dbCurrent == target {
		fmt.Println(color.GreenString("✓ database is already at %s", target))
		return nil
	}

	pending, err := p.FS.GetUpwardRange(dbCurrent, target)
	if err != nil {
		return err
	}

	var allChanges []change.Change
	for _, v := range pending {
		allChanges = append(allChanges, v.Changes...)
	}
	approved, err := cliprompt.ConfirmChanges(fmt.Sprintf("Apply %d version(s) up to %s?", len(pending), target), allChanges, yesFlag)
	if err != nil {
		return err
	}
	if !approved {
		fmt.Println(color.YellowString("aborted"))
		return nil
	}

	err = pgconn.WithTx(ctx, conn, func(tx *sql.Tx) error {
		previous := dbCurrent
		for _, v := range pending {
			for _, stmt := range v.Up {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("applying %s: %w", v.Name, err)
				}
			}
			prev := previous
			if err := h.SaveVersion(ctx, tx, &db.AppliedVersion{
				Name: v.Name, Previous: &prev, Changes: v.Changes, Up: v.Up, Down: v.Down,
			}); err != nil {
				return err
			}
			previous = v.Name
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println(color.GreenString("✓ applied %d version(s), now at %s", len(pending), target))
	return nil
}
