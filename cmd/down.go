package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fatih/color"
	"github.com/podo/podo/internal/cliprompt"
	"github.com/podo/podo/internal/history/db"
	"github.com/podo/podo/internal/pgconn"
	"github.com/spf13/cobra"
)

var downCmd = &cobra.Command{
	Use:   "down <version>",
	Short: "Roll back the database to the given version",
	Args:  cobra.ExactArgs(1),
	RunE:  runDown,
}

func init() {
	rootCmd.AddCommand(downCmd)
}

func runDown(cmd *cobra.Command, args []string) error {
	target := args[0]

	p, err := loadProject()
	if err != nil {
		return err
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

	var rollback []*db.AppliedVersion
	if err := pgconn.WithTx(ctx, conn, func(tx *sql.Tx) error {
		r, err := h.DownwardRange(ctx, tx, dbCurrent, target)
		rollback = r
		return err
	}); err != nil {
		return err
	}

	var allChanges []string
	for _, v := range rollback {
		allChanges = append(allChanges, v.Down...)
	}

	approved, err := cliprompt.Confirm(
		fmt.Sprintf("Roll back %d version(s) to %s?", len(rollback), target),
		fmt.Sprintf("%d statement(s) will be executed", len(allChanges)), yesFlag)
	if err != nil {
		return err
	}
	if !approved {
		fmt.Println(color.YellowString("aborted"))
		return nil
	}

	err = pgconn.WithTx(ctx, conn, func(tx *sql.Tx) error {
		for _, v := range rollback {
			for _, stmt := range v.Down {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("rolling back %s: %w", v.Name, err)
				}
			}
			if err := h.DeleteVersion(ctx, tx, v.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println(color.GreenString("✓ rolled back %d version(s), now at %s", len(rollback), target))
	return nil
}
