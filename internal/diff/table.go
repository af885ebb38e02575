package diff

import (
	"github.com/podo/podo/internal/change"
	"github.com/podo/podo/internal/snapshot"
)

// diffTableUpdate compares two tables column-by-column and constraint-by-
// constraint. Ordering within the returned slice: column creates, column
// updates, constraint creates/updates, then constraint drops, column drops
// (column drops happen last so a drop never outruns a constraint that still
// references the column).
func diffTableUpdate(source, target *snapshot.Table) ([]change.Change, error) {
	var creates, updates, drops []change.Change

	sourceCols := map[string]*snapshot.Column{}
	for _, c := range source.Columns {
		sourceCols[c.Name] = c
	}
	targetCols := map[string]*snapshot.Column{}
	for _, c := range target.Columns {
		targetCols[c.Name] = c
	}

	for _, tc := range target.Columns {
		if _, ok := sourceCols[tc.Name]; !ok {
			cc := *tc
			creates = append(creates, &change.AddColumnChange{SchemaName: target.SchemaName, TableName: target.Name, Column: &cc})
		}
	}
	for _, tc := range target.Columns {
		sc, ok := sourceCols[tc.Name]
		if !ok {
			continue
		}
		updates = append(updates, diffColumnUpdate(source.SchemaName, source.Name, sc, tc)...)
	}

	for _, name := range sortedConstraintNames(target) {
		tCon := target.Constraints[name]
		sCon, existed := source.Constraints[name]
		if !existed {
			cs, err := addConstraintChange(tCon)
			if err != nil {
				return nil, err
			}
			updates = append(updates, cs)
			continue
		}
		cs, err := diffConstraintUpdate(sCon, tCon)
		if err != nil {
			return nil, err
		}
		updates = append(updates, cs...)
	}

	for _, name := range sortedConstraintNames(source) {
		if _, ok := target.Constraints[name]; !ok {
			drops = append(drops, dropConstraintChange(source.SchemaName, source.Name, source.Constraints[name]))
		}
	}
	for _, sc := range source.Columns {
		if _, ok := targetCols[sc.Name]; !ok {
			drops = append(drops, &change.DropColumnChange{SchemaName: source.SchemaName, TableName: source.Name, ColumnName: sc.Name})
		}
	}

	out := make([]change.Change, 0, len(creates)+len(updates)+len(drops))
	out = append(out, creates...)
	out = append(out, updates...)
	out = append(out, drops...)
	return out, nil
}

func diffColumnUpdate(schemaName, tableName string, source, target *snapshot.Column) []change.Change {
	var out []change.Change
	if source.DataType != target.DataType {
		out = append(out, &change.AlterColumnSetDataTypeChange{
			SchemaName: schemaName, TableName: tableName, ColumnName: target.Name, DataType: target.DataType,
		})
	}
	if source.NotNull != target.NotNull {
		out = append(out, &change.AlterColumnSetNotNullChange{
			SchemaName: schemaName, TableName: tableName, ColumnName: target.Name, NotNull: target.NotNull,
		})
	}
	if !optionalStringEqual(source.Default, target.Default) {
		out = append(out, &change.AlterColumnSetDefaultChange{
			SchemaName: schemaName, TableName: tableName, ColumnName: target.Name, Default: target.Default,
		})
	}
	return out
}

func optionalStringEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func addConstraintChange(c snapshot.Constraint) (change.Change, error) {
	switch v := c.(type) {
	case *snapshot.PrimaryKey:
		cc := *v
		return &change.AddPrimaryKeyChange{PK: &cc}, nil
	case *snapshot.Unique:
		cc := *v
		return &change.AddUniqueChange{Unique: &cc}, nil
	case *snapshot.ForeignKey:
		cc := *v
		return &change.AddForeignKeyChange{FK: &cc}, nil
	case *snapshot.Check:
		cc := *v
		return &change.AddCheckChange{Check: &cc}, nil
	default:
		return nil, errUnreachableConstraint
	}
}

func dropConstraintChange(schemaName, tableName string, c snapshot.Constraint) change.Change {
	switch c.(type) {
	case *snapshot.PrimaryKey:
		return &change.DropPrimaryKeyChange{SchemaName: schemaName, TableName: tableName, Name: c.GetName()}
	case *snapshot.Unique:
		return &change.DropUniqueChange{SchemaName: schemaName, TableName: tableName, Name: c.GetName()}
	case *snapshot.ForeignKey:
		return &change.DropForeignKeyChange{SchemaName: schemaName, TableName: tableName, Name: c.GetName()}
	case *snapshot.Check:
		return &change.DropCheckChange{SchemaName: schemaName, TableName: tableName, Name: c.GetName()}
	default:
		return nil
	}
}

// diffConstraintUpdate compares two same-named constraints. A variant
// mismatch is drop-then-create; matching variants with a structural-key
// difference (columns, target) are drop-then-create, while a pure
// cosmetic-attribute difference (deferrable, match/update/delete rule) is
// rendered as a single Alter*Change.
func diffConstraintUpdate(source, target snapshot.Constraint) ([]change.Change, error) {
	switch sv := source.(type) {
	case *snapshot.PrimaryKey:
		tv, ok := target.(*snapshot.PrimaryKey)
		if !ok {
			return replaceConstraint(source, target)
		}
		if *sv == *tv {
			return nil, nil
		}
		if !stringSliceEqual(sv.Columns, tv.Columns) {
			return replaceConstraint(source, target)
		}
		tvCopy := *tv
		return []change.Change{&change.AlterPrimaryKeyChange{SchemaName: tv.SchemaName, TableName: tv.TableName, Name: tv.Name, PK: &tvCopy}}, nil
	case *snapshot.Unique:
		tv, ok := target.(*snapshot.Unique)
		if !ok {
			return replaceConstraint(source, target)
		}
		if *sv == *tv {
			return nil, nil
		}
		if !stringSliceEqual(sv.Columns, tv.Columns) {
			return replaceConstraint(source, target)
		}
		tvCopy := *tv
		return []change.Change{&change.AlterUniqueChange{SchemaName: tv.SchemaName, TableName: tv.TableName, Name: tv.Name, Unique: &tvCopy}}, nil
	case *snapshot.ForeignKey:
		tv, ok := target.(*snapshot.ForeignKey)
		if !ok {
			return replaceConstraint(source, target)
		}
		if *sv == *tv {
			return nil, nil
		}
		if !stringSliceEqual(sv.Columns, tv.Columns) || sv.TargetSchema != tv.TargetSchema ||
			sv.TargetTable != tv.TargetTable || !stringSliceEqual(sv.TargetColumns, tv.TargetColumns) {
			return replaceConstraint(source, target)
		}
		tvCopy := *tv
		return []change.Change{&change.AlterForeignKeyChange{SchemaName: tv.SchemaName, TableName: tv.TableName, Name: tv.Name, FK: &tvCopy}}, nil
	case *snapshot.Check:
		tv, ok := target.(*snapshot.Check)
		if !ok {
			return replaceConstraint(source, target)
		}
		if *sv == *tv {
			return nil, nil
		}
		if sv.Expression != tv.Expression {
			return replaceConstraint(source, target)
		}
		tvCopy := *tv
		return []change.Change{&change.AlterCheckChange{SchemaName: tv.SchemaName, TableName: tv.TableName, Name: tv.Name, Check: &tvCopy}}, nil
	default:
		return nil, errUnreachableConstraint
	}
}

func replaceConstraint(source, target snapshot.Constraint) ([]change.Change, error) {
	add, err := addConstraintChange(target)
	if err != nil {
		return nil, err
	}
	drop := dropConstraintChange(source.GetSchemaName(), source.GetTableName(), source)
	return []change.Change{drop, add}, nil
}

var errUnreachableConstraint = &unreachableError{"constraint"}
