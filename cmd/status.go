package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/podo/podo/internal/diff"
	"github.com/podo/podo/internal/history/db"
	"github.com/podo/podo/internal/history/fs"
	"github.com/podo/podo/internal/pgconn"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the database's applied version and any unstaged or unapplied changes",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	var (
		dbCurrent   string
		lastApplied *db.AppliedVersion
		initialized bool
	)
	if err := pgconn.WithTx(ctx, conn, func(tx *sql.Tx) error {
		exists, err := h.MetaSchemaExists(ctx, tx)
		if err != nil {
			return err
		}
		initialized = exists
		if !exists {
			return nil
		}
		cur, err := h.CurrentVersion(ctx, tx)
		if err != nil {
			return err
		}
		dbCurrent = cur
		if cur != fs.Init {
			v, err := h.GetVersion(ctx, tx, cur)
			if err != nil {
				return err
			}
			lastApplied = v
		}
		return nil
	}); err != nil {
		return err
	}

	if !initialized {
		fmt.Println(color.YellowString("database not initialized — run `podo up` to apply the history"))
		dbCurrent = fs.Init
	} else if lastApplied != nil {
		fmt.Printf("applied version: %s (%s)\n", color.CyanString(dbCurrent), humanize.Time(lastApplied.AppliedAt))
	} else {
		fmt.Println("applied version: " + color.CyanString(fs.Init))
	}

	head := fsHead(p.FS)
	if head == dbCurrent {
		fmt.Println(color.GreenString("✓ database is up to date with the filesystem history"))
	} else {
		pending, err := p.FS.GetUpwardRange(dbCurrent, head)
		if err != nil {
			return err
		}
		fmt.Printf("%d version(s) pending (run `podo up`):\n", len(pending))
		for _, v := range pending {
			fmt.Println("  " + color.YellowString(v.Name))
		}
	}

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
		fmt.Println(color.GreenString("✓ no staged changes"))
		return nil
	}
	fmt.Printf("%d staged change(s) (run `podo stage` to record them):\n", len(changes))
	for _, c := range changes {
		fmt.Println("  " + color.MagentaString(c.Render()))
	}
	return nil
}
