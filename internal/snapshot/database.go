package snapshot

import "sort"

type Database struct {
	Schemas map[string]*Schema
}

func NewDatabase() *Database {
	return &Database{Schemas: map[string]*Schema{}}
}

func (d *Database) GetSchema(name string) (*Schema, error) {
	s, ok := d.Schemas[name]
	if !ok {
		return nil, SchemaNotFound(name)
	}
	return s, nil
}

func (d *Database) HasSchema(name string) bool {
	_, ok := d.Schemas[name]
	return ok
}

func (d *Database) AddSchema(s *Schema) error {
	if d.HasSchema(s.Name) {
		return SchemaAlreadyExists(s.Name)
	}
	d.Schemas[s.Name] = s
	return nil
}

func (d *Database) RemoveSchema(name string) (*Schema, error) {
	s, ok := d.Schemas[name]
	if !ok {
		return nil, SchemaNotFound(name)
	}
	delete(d.Schemas, name)
	return s, nil
}

// SortedSchemaNames returns schema names in sorted order, the iteration
// order used by the diff engine and every renderer for determinism.
func (d *Database) SortedSchemaNames() []string {
	names := make([]string, 0, len(d.Schemas))
	for n := range d.Schemas {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MergeDatabase folds source's schemas into d. A schema present in both is
// merged recursively; a schema only present in source is added whole.
func (d *Database) MergeDatabase(source *Database) error {
	for _, name := range source.SortedSchemaNames() {
		src := source.Schemas[name]
		if existing, ok := d.Schemas[name]; ok {
			if err := existing.MergeSchema(src); err != nil {
				return err
			}
			continue
		}
		if err := d.AddSchema(src); err != nil {
			return err
		}
	}
	return nil
}

// Clone produces a deep copy, used as the "witness" snapshot that Invert
// needs to compute the reverse of a change without mutating the live
// in-progress snapshot.
func (d *Database) Clone() *Database {
	out := NewDatabase()
	for _, name := range d.SortedSchemaNames() {
		out.Schemas[name] = cloneSchema(d.Schemas[name])
	}
	return out
}

func cloneSchema(s *Schema) *Schema {
	out := NewSchema(s.Name)
	for name, r := range s.Relations {
		out.Relations[name] = cloneRelation(r)
	}
	for name, f := range s.Functions {
		fc := *f
		out.Functions[name] = &fc
	}
	return out
}

func cloneRelation(r Relation) Relation {
	switch v := r.(type) {
	case *Table:
		t := NewTable(v.SchemaName, v.Name)
		for _, c := range v.Columns {
			cc := *c
			t.Columns = append(t.Columns, &cc)
		}
		for name, c := range v.Constraints {
			t.Constraints[name] = cloneConstraint(c)
		}
		return t
	case *View:
		vv := *v
		return &vv
	case *Index:
		ic := *v
		ic.KeyExpressions = append([]string(nil), v.KeyExpressions...)
		return &ic
	case *Sequence:
		sc := *v
		return &sc
	default:
		panic("snapshot: unreachable relation variant")
	}
}

func cloneConstraint(c Constraint) Constraint {
	switch v := c.(type) {
	case *PrimaryKey:
		cc := *v
		cc.Columns = append([]string(nil), v.Columns...)
		return &cc
	case *Unique:
		cc := *v
		cc.Columns = append([]string(nil), v.Columns...)
		return &cc
	case *ForeignKey:
		cc := *v
		cc.Columns = append([]string(nil), v.Columns...)
		cc.TargetColumns = append([]string(nil), v.TargetColumns...)
		return &cc
	case *Check:
		cc := *v
		return &cc
	default:
		panic("snapshot: unreachable constraint variant")
	}
}
