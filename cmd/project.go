package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/podo/podo/internal/change"
	"github.com/podo/podo/internal/config"
	"github.com/podo/podo/internal/docdef"
	"github.com/podo/podo/internal/history/fs"
	"github.com/podo/podo/internal/pgconn"
	"github.com/podo/podo/internal/snapshot"
)

// project bundles everything a command needs after config discovery: the
// parsed config, the resolved profile, and the filesystem history. The
// declared target snapshot is parsed on demand by targetSnapshot.
type project struct {
	Config  *config.Config
	Profile config.Profile
	FS      *fs.History
}

func loadProject() (*project, error) {
	cfg, err := config.Discover()
	if err != nil {
		return nil, fmt.Errorf("%w (run `podo init` first)", err)
	}
	profile, err := cfg.Profile(profileFlag)
	if err != nil {
		return nil, err
	}
	h, err := fs.FromDir(cfg.HistoryDir())
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return &project{Config: cfg, Profile: profile, FS: h}, nil
}

func (p *project) openDB(ctx context.Context) (*sql.DB, error) {
	return pgconn.Open(p.Profile.DatabaseURL)
}

// targetSnapshot parses every declarative document in the definitions
// directory into one Database.
func (p *project) targetSnapshot() (*snapshot.Database, error) {
	entries, err := os.ReadDir(p.Config.DefinitionsDir())
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions directory: %w", err)
	}
	files := map[string][]byte{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(p.Config.DefinitionsDir(), e.Name()))
		if err != nil {
			return nil, err
		}
		files[e.Name()] = data
	}
	return docdef.ParseDirectory(files)
}

// replaySnapshot reconstructs the Database that results from applying every
// change recorded between fs.Init and upTo, in order. It is the filesystem
// history's view of "what the schema currently looks like", independent of
// what has actually been applied to any live database.
func replaySnapshot(h *fs.History, upTo string) (*snapshot.Database, error) {
	db := snapshot.NewDatabase()
	if upTo == fs.Init {
		return db, nil
	}
	versions, err := h.GetUpwardRange(fs.Init, upTo)
	if err != nil {
		return nil, err
	}
	for _, v := range versions {
		for _, c := range v.Changes {
			if err := c.Apply(db); err != nil {
				return nil, fmt.Errorf("replaying %s: %w", v.Name, err)
			}
		}
	}
	return db, nil
}

// fsHead returns the name of the last non-stage version in the filesystem
// history (the tip of the linear chain).
func fsHead(h *fs.History) string {
	cur := fs.Init
	for {
		next, ok := h.NextMap[cur]
		if !ok || next == fs.Stage {
			return cur
		}
		cur = next
	}
}

// annotateDown computes the down statement for each change using diff's
// witness snapshot convention: witness is the state immediately before the
// change is applied, so Invert is called against an accumulating copy.
func annotateDown(changes []change.Change, base *snapshot.Database) ([]string, error) {
	witness := base.Clone()
	downs := make([]string, len(changes))
	for i, c := range changes {
		inv, err := c.Invert(witness)
		if err != nil {
			return nil, fmt.Errorf("computing down statement: %w", err)
		}
		downs[i] = inv.Render()
		if err := c.Apply(witness); err != nil {
			return nil, err
		}
	}
	return downs, nil
}
