package docdef

import (
	"strings"

	"github.com/podo/podo/internal/change"
	"github.com/podo/podo/internal/snapshot"
	"github.com/podo/podo/internal/sqlvalidate"
	"gopkg.in/yaml.v3"
)

func parseTable(schemaName, name string, node *yaml.Node) (*snapshot.Table, error) {
	if node.Kind != yaml.MappingNode {
		return nil, &ParseError{Message: "table node must be a mapping"}
	}
	table := snapshot.NewTable(schemaName, name)
	errs := &HasErrors{}
	for _, p := range pairs(node) {
		keyword, rest := splitKeywordName(p.key)
		switch keyword {
		case "column":
			if err := parseTableColumn(table, schemaName, name, rest, p.value); err != nil {
				errs.Add(wrapPath(p.key, err))
			}
		case "constraint":
			if err := parseTableConstraint(table, schemaName, name, rest, p.value); err != nil {
				errs.Add(wrapPath(p.key, err))
			}
		default:
			errs.Add(&ParseError{Path: []string{p.key}, Message: "unknown keyword " + keyword + " in table node"})
		}
	}
	return table, errs.AsError()
}

func parseTableColumn(table *snapshot.Table, schemaName, tableName, colName string, value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return &ParseError{Message: "column value must be a shorthand expression"}
	}
	expr, err := ParseColumnExpr(value.Value)
	if err != nil {
		return err
	}
	if expr.Default != nil {
		if err := sqlvalidate.Expression(*expr.Default); err != nil {
			return &ParseError{Message: err.Error()}
		}
	}
	col := &snapshot.Column{
		SchemaName: schemaName, TableName: tableName, Name: colName,
		DataType: expr.DataType, NotNull: expr.NotNull, Default: expr.Default,
	}
	if err := table.AddColumn(col); err != nil {
		return &ParseError{Message: err.Error()}
	}
	return nil
}

// parseTableConstraint parses a "constraint <name>:" node, whose single
// child key selects the constraint kind (primary_key, unique, foreign_key,
// or check).
func parseTableConstraint(table *snapshot.Table, schemaName, tableName, constraintName string, node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return &ParseError{Message: "constraint node must be a mapping"}
	}
	kindPairs := pairs(node)
	if len(kindPairs) != 1 {
		return &ParseError{Message: "constraint node must have exactly one constraint-kind subkey"}
	}
	kp := kindPairs[0]
	kind, _ := splitKeywordName(kp.key)
	switch kind {
	case "primary_key":
		pk, err := parsePrimaryKey(schemaName, tableName, constraintName, kp.value)
		if err != nil {
			return err
		}
		if err := table.AddConstraint(pk); err != nil {
			return &ParseError{Message: err.Error()}
		}
	case "unique":
		u, err := parseUnique(schemaName, tableName, constraintName, kp.value)
		if err != nil {
			return err
		}
		if err := table.AddConstraint(u); err != nil {
			return &ParseError{Message: err.Error()}
		}
	case "foreign_key":
		fk, err := parseForeignKey(schemaName, tableName, constraintName, kp.value)
		if err != nil {
			return err
		}
		if err := table.AddConstraint(fk); err != nil {
			return &ParseError{Message: err.Error()}
		}
	case "check":
		ch, err := parseCheck(schemaName, tableName, constraintName, kp.value)
		if err != nil {
			return err
		}
		if err := table.AddConstraint(ch); err != nil {
			return &ParseError{Message: err.Error()}
		}
	default:
		return &ParseError{Message: "unknown constraint kind " + kind}
	}
	return nil
}

func parsePrimaryKey(schemaName, tableName, name string, node *yaml.Node) (*snapshot.PrimaryKey, error) {
	return &snapshot.PrimaryKey{
		SchemaName: schemaName, TableName: tableName, Name: name,
		Columns:           stringListField(node, "columns"),
		Deferrable:        boolField(node, "deferrable", change.DefaultConstraintDeferrable()),
		InitiallyDeferred: boolField(node, "initially_deferred", false),
	}, nil
}

func parseUnique(schemaName, tableName, name string, node *yaml.Node) (*snapshot.Unique, error) {
	return &snapshot.Unique{
		SchemaName: schemaName, TableName: tableName, Name: name,
		Columns:           stringListField(node, "columns"),
		Deferrable:        boolField(node, "deferrable", change.DefaultConstraintDeferrable()),
		InitiallyDeferred: boolField(node, "initially_deferred", false),
	}, nil
}

func parseCheck(schemaName, tableName, name string, node *yaml.Node) (*snapshot.Check, error) {
	expr, _ := scalarField(node, "expression")
	if err := sqlvalidate.Expression(expr); err != nil {
		return nil, &ParseError{Message: err.Error()}
	}
	return &snapshot.Check{
		SchemaName: schemaName, TableName: tableName, Name: name,
		Expression:        expr,
		Deferrable:        boolField(node, "deferrable", change.DefaultConstraintDeferrable()),
		InitiallyDeferred: boolField(node, "initially_deferred", false),
	}, nil
}

// parseForeignKey reads the "references" field as "schema.table(col1, col2)"
// or bare "table(col1, col2)" (defaulting the target schema to the owning
// table's schema).
func parseForeignKey(schemaName, tableName, name string, node *yaml.Node) (*snapshot.ForeignKey, error) {
	ref, _ := scalarField(node, "references")
	targetSchema, targetTable, targetCols, err := parseReference(ref, schemaName)
	if err != nil {
		return nil, err
	}
	matchOption, ok := scalarField(node, "match")
	if !ok {
		matchOption = change.DefaultForeignKeyMatchOption()
	}
	updateRule, ok := scalarField(node, "on_update")
	if !ok {
		updateRule = change.DefaultForeignKeyUpdateRule()
	}
	deleteRule, ok := scalarField(node, "on_delete")
	if !ok {
		deleteRule = change.DefaultForeignKeyDeleteRule()
	}
	return &snapshot.ForeignKey{
		SchemaName: schemaName, TableName: tableName, Name: name,
		Columns:           stringListField(node, "columns"),
		TargetSchema:      targetSchema,
		TargetTable:       targetTable,
		TargetColumns:     targetCols,
		MatchOption:       matchOption,
		UpdateRule:        updateRule,
		DeleteRule:        deleteRule,
		Deferrable:        boolField(node, "deferrable", change.DefaultConstraintDeferrable()),
		InitiallyDeferred: boolField(node, "initially_deferred", false),
	}, nil
}

func parseReference(ref, defaultSchema string) (schemaName, table string, columns []string, err error) {
	open := strings.IndexByte(ref, '(')
	if open < 0 || !strings.HasSuffix(ref, ")") {
		return "", "", nil, &ParseError{Message: "references must be \"[schema.]table(col, ...)\", got: " + ref}
	}
	head := ref[:open]
	colsPart := ref[open+1 : len(ref)-1]
	columns = splitCommaList(colsPart)

	if dot := strings.IndexByte(head, '.'); dot >= 0 {
		return head[:dot], head[dot+1:], columns, nil
	}
	return defaultSchema, head, columns, nil
}
