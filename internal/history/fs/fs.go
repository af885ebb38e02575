// Package fs implements the filesystem history: a linear chain of
// Versions, each persisted as one YAML file, with branch detection and
// upward-range traversal.
package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/podo/podo/internal/change"
	"github.com/podo/podo/internal/historyschema"
	"gopkg.in/yaml.v3"
)

const (
	Init  = "init"
	Stage = "stage"
)

// Version is one node in the history chain.
type Version struct {
	Name     string          `yaml:"name"`
	Previous *string         `yaml:"previous"`
	Changes  []change.Change `yaml:"-"`
	Up       []string        `yaml:"up"`
	Down     []string        `yaml:"down"`
}

// versionFile is the on-disk shape; Changes round-trips through the tagged
// envelope codec in the change package instead of yaml struct tags.
type versionFile struct {
	Name     string   `yaml:"name"`
	Previous *string  `yaml:"previous"`
	Changes  yaml.Node `yaml:"changes"`
	Up       []string `yaml:"up"`
	Down     []string `yaml:"down"`
}

func NewInit() *Version {
	return &Version{Name: Init}
}

func NewStage(previous string) *Version {
	return &Version{Name: Stage, Previous: &previous}
}

func (v *Version) IsEmpty() bool {
	return len(v.Changes) == 0
}

func (v *Version) Reset() {
	v.Changes = nil
	v.Up = nil
	v.Down = nil
}

// AddChange records one Change onto the version: its up statement is
// appended, its down statement is prepended so Down replays in reverse
// order of Up.
func (v *Version) AddChange(c change.Change, downStatement string) {
	v.Changes = append(v.Changes, c)
	v.Up = append(v.Up, c.Render())
	v.Down = append([]string{downStatement}, v.Down...)
}

// ErrorKind distinguishes the closed error set FSHistory operations raise.
type ErrorKind int

const (
	Branched ErrorKind = iota
	Unreachable
)

type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// History is the in-memory view over one directory of version files.
type History struct {
	Dir            string
	NextMap        map[string]string // previous -> next, used for branch detection
	CurrentVersion string
}

// FromDir loads every version file in dir, builds the previous->next
// adjacency, and detects branching (two versions sharing the same
// Previous). The chain's head (the version nothing points at as Previous,
// excluding "stage") becomes CurrentVersion.
func FromDir(dir string) (*History, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	h := &History{Dir: dir, NextMap: map[string]string{}}
	names := map[string]bool{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		v, err := loadVersionFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		names[v.Name] = true
		if v.Previous != nil {
			if existing, ok := h.NextMap[*v.Previous]; ok && existing != v.Name {
				return nil, &Error{Kind: Branched, Msg: fmt.Sprintf(
					"history branched: both %q and %q have previous %q", existing, v.Name, *v.Previous)}
			}
			h.NextMap[*v.Previous] = v.Name
		}
	}
	// walk from init following NextMap to find the tip that isn't "stage"
	cur := Init
	for {
		next, ok := h.NextMap[cur]
		if !ok || next == Stage {
			break
		}
		cur = next
	}
	h.CurrentVersion = cur
	return h, nil
}

func (h *History) path(name string) string {
	return filepath.Join(h.Dir, name+".yaml")
}

func (h *History) Get(name string) (*Version, error) {
	return loadVersionFile(h.path(name))
}

// Save persists v to its own file using an atomic write-then-rename, so a
// crash mid-write never leaves a half-written version file in place.
func (h *History) Save(v *Version) error {
	data, err := marshalVersionFile(v)
	if err != nil {
		return err
	}
	tmp := h.path(v.Name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, h.path(v.Name))
}

// GetUpwardRange walks from `to` back through Previous links until it
// reaches `from`, then reverses the walk: the result is ordered from the
// version immediately after `from` up to and including `to`.
func (h *History) GetUpwardRange(from, to string) ([]*Version, error) {
	var chain []*Version
	cur := to
	for cur != from {
		v, err := h.Get(cur)
		if err != nil {
			return nil, err
		}
		chain = append(chain, v)
		if v.Previous == nil {
			return nil, &Error{Kind: Unreachable, Msg: fmt.Sprintf("version %q is not reachable from %q", to, from)}
		}
		cur = *v.Previous
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func loadVersionFile(path string) (*Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vf versionFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, err
	}
	var changes []change.Change
	if vf.Changes.Kind != 0 {
		var generic interface{}
		if err := vf.Changes.Decode(&generic); err != nil {
			return nil, err
		}
		if err := historyschema.ValidateChangeList(generic); err != nil {
			return nil, err
		}
		encoded, err := yaml.Marshal(&vf.Changes)
		if err != nil {
			return nil, err
		}
		changes, err = change.Decode(encoded)
		if err != nil {
			return nil, err
		}
	}
	return &Version{Name: vf.Name, Previous: vf.Previous, Changes: changes, Up: vf.Up, Down: vf.Down}, nil
}

func marshalVersionFile(v *Version) ([]byte, error) {
	encoded, err := change.Encode(v.Changes)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(encoded, &node); err != nil {
		return nil, err
	}
	var contentNode yaml.Node
	if len(node.Content) > 0 {
		contentNode = *node.Content[0]
	}
	vf := versionFile{Name: v.Name, Previous: v.Previous, Changes: contentNode, Up: v.Up, Down: v.Down}
	return yaml.Marshal(&vf)
}
