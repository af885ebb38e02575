// Package diff implements the structural diff engine: given a source
// and a target snapshot.Database, produce the ordered Change list that
// transforms source into target. The recursion partitions every keyed
// container into target-only ("create"), both ("update"), and source-only
// ("drop") buckets, in that order, and further orders constraint-drops
// before column-drops before table-drops within an update/drop.
package diff

import (
	"sort"

	"github.com/podo/podo/internal/change"
	"github.com/podo/podo/internal/snapshot"
)

// Diff returns the Change list that turns source into target.
func Diff(source, target *snapshot.Database) ([]change.Change, error) {
	var creates, updates, drops []change.Change

	for _, name := range target.SortedSchemaNames() {
		if !source.HasSchema(name) {
			cs, err := diffSchemaCreate(target.Schemas[name])
			if err != nil {
				return nil, err
			}
			creates = append(creates, cs...)
		}
	}
	for _, name := range target.SortedSchemaNames() {
		if source.HasSchema(name) {
			cs, err := diffSchemaUpdate(source.Schemas[name], target.Schemas[name])
			if err != nil {
				return nil, err
			}
			updates = append(updates, cs...)
		}
	}
	for _, name := range source.SortedSchemaNames() {
		if !target.HasSchema(name) {
			cs, err := diffSchemaDrop(source.Schemas[name])
			if err != nil {
				return nil, err
			}
			drops = append(drops, cs...)
		}
	}

	out := make([]change.Change, 0, len(creates)+len(updates)+len(drops))
	out = append(out, creates...)
	out = append(out, updates...)
	out = append(out, drops...)
	return out, nil
}

func diffSchemaCreate(s *snapshot.Schema) ([]change.Change, error) {
	var out []change.Change
	out = append(out, &change.CreateSchemaChange{SchemaName: s.Name})
	for _, name := range s.SortedRelationNames() {
		cs, err := diffRelationCreate(s.Relations[name])
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	for _, name := range s.SortedFunctionNames() {
		fn := s.Functions[name]
		fnCopy := *fn
		out = append(out, &change.CreateFunctionChange{Function: &fnCopy})
	}
	return out, nil
}

func diffSchemaDrop(s *snapshot.Schema) ([]change.Change, error) {
	var out []change.Change
	for _, name := range s.SortedFunctionNames() {
		out = append(out, &change.DropFunctionChange{SchemaName: s.Name, Name: name})
	}
	for _, name := range s.SortedRelationNames() {
		cs, err := diffRelationDrop(s.Relations[name])
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	out = append(out, &change.DropSchemaChange{SchemaName: s.Name})
	return out, nil
}

func diffSchemaUpdate(source, target *snapshot.Schema) ([]change.Change, error) {
	var creates, updates, drops []change.Change

	for _, name := range target.SortedRelationNames() {
		if !source.HasRelation(name) {
			cs, err := diffRelationCreate(target.Relations[name])
			if err != nil {
				return nil, err
			}
			creates = append(creates, cs...)
		}
	}
	for _, name := range target.SortedRelationNames() {
		if source.HasRelation(name) {
			cs, err := diffRelationUpdate(source.Relations[name], target.Relations[name])
			if err != nil {
				return nil, err
			}
			updates = append(updates, cs...)
		}
	}
	for _, name := range source.SortedRelationNames() {
		if !target.HasRelation(name) {
			cs, err := diffRelationDrop(source.Relations[name])
			if err != nil {
				return nil, err
			}
			drops = append(drops, cs...)
		}
	}

	for _, name := range target.SortedFunctionNames() {
		tf := target.Functions[name]
		if sf, ok := source.Functions[name]; ok {
			if *sf != *tf {
				fnCopy := *tf
				updates = append(updates, &change.DropFunctionChange{SchemaName: tf.SchemaName, Name: name},
					&change.CreateFunctionChange{Function: &fnCopy})
			}
			continue
		}
		fnCopy := *tf
		creates = append(creates, &change.CreateFunctionChange{Function: &fnCopy})
	}
	for _, name := range source.SortedFunctionNames() {
		if !target.HasFunction(name) {
			drops = append(drops, &change.DropFunctionChange{SchemaName: source.Name, Name: name})
		}
	}

	out := make([]change.Change, 0, len(creates)+len(updates)+len(drops))
	out = append(out, creates...)
	out = append(out, updates...)
	out = append(out, drops...)
	return out, nil
}

// diffRelationCreate emits the change(s) to create a relation from nothing.
func diffRelationCreate(r snapshot.Relation) ([]change.Change, error) {
	switch v := r.(type) {
	case *snapshot.Table:
		cols := make([]*snapshot.Column, len(v.Columns))
		copy(cols, v.Columns)
		out := []change.Change{&change.CreateTableChange{SchemaName: v.SchemaName, TableName: v.Name, Columns: cols}}
		for _, name := range sortedConstraintNames(v) {
			cs, err := addConstraintChange(v.Constraints[name])
			if err != nil {
				return nil, err
			}
			out = append(out, cs)
		}
		return out, nil
	case *snapshot.View:
		vv := *v
		return []change.Change{&change.CreateViewChange{View: &vv}}, nil
	case *snapshot.Index:
		ic := *v
		return []change.Change{&change.CreateIndexChange{Index: &ic}}, nil
	case *snapshot.Sequence:
		sc := *v
		return []change.Change{&change.CreateSequenceChange{Sequence: &sc}}, nil
	default:
		return nil, errUnreachableRelation
	}
}

// diffRelationDrop emits the change(s) to drop a relation entirely.
func diffRelationDrop(r snapshot.Relation) ([]change.Change, error) {
	switch v := r.(type) {
	case *snapshot.Table:
		var out []change.Change
		for _, name := range sortedConstraintNames(v) {
			out = append(out, dropConstraintChange(v.SchemaName, v.Name, v.Constraints[name]))
		}
		out = append(out, &change.DropTableChange{SchemaName: v.SchemaName, TableName: v.Name})
		return out, nil
	case *snapshot.View:
		return []change.Change{&change.DropViewChange{SchemaName: v.SchemaName, Name: v.Name}}, nil
	case *snapshot.Index:
		return []change.Change{&change.DropIndexChange{SchemaName: v.SchemaName, Name: v.Name}}, nil
	case *snapshot.Sequence:
		return []change.Change{&change.DropSequenceChange{SchemaName: v.SchemaName, Name: v.Name}}, nil
	default:
		return nil, errUnreachableRelation
	}
}

// diffRelationUpdate compares two relations of possibly different variants.
// A variant mismatch is rendered as drop-then-create.
func diffRelationUpdate(source, target snapshot.Relation) ([]change.Change, error) {
	st, sIsTable := source.(*snapshot.Table)
	tt, tIsTable := target.(*snapshot.Table)
	if sIsTable && tIsTable {
		return diffTableUpdate(st, tt)
	}
	if fmtKind(source) != fmtKind(target) {
		drop, err := diffRelationDrop(source)
		if err != nil {
			return nil, err
		}
		create, err := diffRelationCreate(target)
		if err != nil {
			return nil, err
		}
		return append(drop, create...), nil
	}
	// Same non-table variant on both sides: replace wholesale if changed.
	if relationsEqual(source, target) {
		return nil, nil
	}
	drop, err := diffRelationDrop(source)
	if err != nil {
		return nil, err
	}
	create, err := diffRelationCreate(target)
	if err != nil {
		return nil, err
	}
	return append(drop, create...), nil
}

func fmtKind(r snapshot.Relation) string {
	switch r.(type) {
	case *snapshot.Table:
		return "table"
	case *snapshot.View:
		return "view"
	case *snapshot.Index:
		return "index"
	case *snapshot.Sequence:
		return "sequence"
	default:
		return "unknown"
	}
}

func relationsEqual(a, b snapshot.Relation) bool {
	switch av := a.(type) {
	case *snapshot.View:
		bv := b.(*snapshot.View)
		return *av == *bv
	case *snapshot.Index:
		bv := b.(*snapshot.Index)
		return av.Unique == bv.Unique && av.Method == bv.Method && av.TableName == bv.TableName &&
			stringSliceEqual(av.KeyExpressions, bv.KeyExpressions)
	case *snapshot.Sequence:
		bv := b.(*snapshot.Sequence)
		return *av == *bv
	default:
		return false
	}
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedConstraintNames(t *snapshot.Table) []string {
	names := make([]string, 0, len(t.Constraints))
	for n := range t.Constraints {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var errUnreachableRelation = &unreachableError{"relation"}

type unreachableError struct{ what string }

func (e *unreachableError) Error() string { return "diff: unreachable " + e.what + " variant" }
