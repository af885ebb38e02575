package docdef

import (
	"sort"
	"strings"

	"github.com/podo/podo/internal/snapshot"
	"gopkg.in/yaml.v3"
)

// ParseDocument parses one declarative YAML document into a Database. The
// document root is a mapping whose keys are "schema <name>" nodes.
func ParseDocument(data []byte) (*snapshot.Database, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Message: err.Error()}
	}
	if len(root.Content) == 0 {
		return snapshot.NewDatabase(), nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, &ParseError{Message: "document root must be a mapping of schema nodes"}
	}

	db := snapshot.NewDatabase()
	errs := &HasErrors{}
	for _, p := range pairs(mapping) {
		keyword, name := splitKeywordName(p.key)
		if keyword != "schema" || name == "" {
			errs.Add(&ParseError{Path: []string{p.key}, Message: "expected a \"schema <name>\" node at document root"})
			continue
		}
		schema, err := parseSchema(name, p.value)
		if err != nil {
			errs.Add(wrapPath(name, err))
			continue
		}
		if existing, ok := db.Schemas[name]; ok {
			if mergeErr := existing.MergeSchema(schema); mergeErr != nil {
				errs.Add(wrapPath(name, mergeErr))
			}
			continue
		}
		_ = db.AddSchema(schema)
	}
	return db, errs.AsError()
}

// ParseDirectory parses every *.yaml/*.yml file under dir (read via the
// caller-supplied file set, sorted by name) and merges them into one
// Database, matching the original source's directory-merge semantics:
// same-named schemas across files merge their relations and functions.
func ParseDirectory(files map[string][]byte) (*snapshot.Database, error) {
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)

	db := snapshot.NewDatabase()
	errs := &HasErrors{}
	for _, name := range names {
		fileDB, err := ParseDocument(files[name])
		if err != nil {
			if he, ok := err.(*HasErrors); ok {
				for _, e := range he.Errors {
					errs.Add(wrapPath(name, e))
				}
			} else if pe, ok := err.(*ParseError); ok {
				errs.Add(wrapPath(name, pe))
			}
			continue
		}
		if mergeErr := db.MergeDatabase(fileDB); mergeErr != nil {
			errs.Add(&ParseError{Path: []string{name}, Message: mergeErr.Error()})
		}
	}
	return db, errs.AsError()
}

func wrapPath(segment string, err error) *ParseError {
	if pe, ok := err.(*ParseError); ok {
		return pe.withPath(segment)
	}
	return &ParseError{Path: []string{segment}, Message: err.Error()}
}

type kv struct {
	key   string
	value *yaml.Node
}

func pairs(mapping *yaml.Node) []kv {
	out := make([]kv, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		out = append(out, kv{key: mapping.Content[i].Value, value: mapping.Content[i+1]})
	}
	return out
}

func scalarField(mapping *yaml.Node, field string) (string, bool) {
	for _, p := range pairs(mapping) {
		if p.key == field && p.value.Kind == yaml.ScalarNode {
			return p.value.Value, true
		}
	}
	return "", false
}

func boolField(mapping *yaml.Node, field string, def bool) bool {
	v, ok := scalarField(mapping, field)
	if !ok {
		return def
	}
	return v == "true" || v == "yes"
}

func stringListField(mapping *yaml.Node, field string) []string {
	for _, p := range pairs(mapping) {
		if p.key != field {
			continue
		}
		if p.value.Kind == yaml.SequenceNode {
			out := make([]string, len(p.value.Content))
			for i, c := range p.value.Content {
				out[i] = c.Value
			}
			return out
		}
		if p.value.Kind == yaml.ScalarNode {
			return splitCommaList(p.value.Value)
		}
	}
	return nil
}

func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
