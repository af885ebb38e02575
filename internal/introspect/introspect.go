// Package introspect reads a live PostgreSQL database's catalogs into a
// snapshot.Database, in the dependency order schemas -> sequences ->
// tables -> columns -> primary keys -> uniques -> foreign keys -> checks ->
// indexes -> functions.
package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/podo/podo/internal/snapshot"
)

// Database introspects every user-created schema (excluding the PostgreSQL
// and information_schema system schemas and the given metadata schema name)
// into one snapshot.Database.
func Database(ctx context.Context, conn *sql.DB, metadataSchema string) (*snapshot.Database, error) {
	schemaNames, err := listSchemas(ctx, conn, metadataSchema)
	if err != nil {
		return nil, err
	}
	db := snapshot.NewDatabase()
	for _, name := range schemaNames {
		schema, err := Schema(ctx, conn, name)
		if err != nil {
			return nil, fmt.Errorf("introspect schema %s: %w", name, err)
		}
		if err := db.AddSchema(schema); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func listSchemas(ctx context.Context, conn *sql.DB, metadataSchema string) ([]string, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT nspname FROM pg_namespace
		WHERE nspname NOT LIKE 'pg\_%' ESCAPE '\' AND nspname != 'information_schema' AND nspname != $1
		ORDER BY nspname`, metadataSchema)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Schema introspects one schema: its sequences, tables (with columns and
// constraints), views, indexes and functions.
func Schema(ctx context.Context, conn *sql.DB, schemaName string) (*snapshot.Schema, error) {
	schema := snapshot.NewSchema(schemaName)

	sequences, err := getSequences(ctx, conn, schemaName)
	if err != nil {
		return nil, fmt.Errorf("sequences: %w", err)
	}
	for i := range sequences {
		if sequences[i].OwnedByTable != nil {
			continue
		}
		if err := schema.AddRelation(&sequences[i]); err != nil {
			return nil, err
		}
	}

	tableNames, err := getTableNames(ctx, conn, schemaName)
	if err != nil {
		return nil, fmt.Errorf("tables: %w", err)
	}
	for _, tableName := range tableNames {
		table, err := getTable(ctx, conn, schemaName, tableName)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", tableName, err)
		}
		if err := schema.AddRelation(table); err != nil {
			return nil, err
		}
	}

	indexes, err := getIndexes(ctx, conn, schemaName)
	if err != nil {
		return nil, fmt.Errorf("indexes: %w", err)
	}
	for i := range indexes {
		if err := schema.AddRelation(&indexes[i]); err != nil {
			return nil, err
		}
	}

	views, err := getViews(ctx, conn, schemaName)
	if err != nil {
		return nil, fmt.Errorf("views: %w", err)
	}
	for i := range views {
		if err := schema.AddRelation(&views[i]); err != nil {
			return nil, err
		}
	}

	functions, err := getFunctions(ctx, conn, schemaName)
	if err != nil {
		return nil, fmt.Errorf("functions: %w", err)
	}
	for i := range functions {
		if err := schema.AddFunction(&functions[i]); err != nil {
			return nil, err
		}
	}

	return schema, nil
}

func getTableNames(ctx context.Context, conn *sql.DB, schemaName string) ([]string, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name`, schemaName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func getTable(ctx context.Context, conn *sql.DB, schemaName, tableName string) (*snapshot.Table, error) {
	table := snapshot.NewTable(schemaName, tableName)

	columns, err := getColumns(ctx, conn, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	for i := range columns {
		if err := table.AddColumn(&columns[i]); err != nil {
			return nil, err
		}
	}

	pk, err := getPrimaryKey(ctx, conn, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("primary key: %w", err)
	}
	if pk != nil {
		if err := table.AddConstraint(pk); err != nil {
			return nil, err
		}
	}

	uniques, err := getUniques(ctx, conn, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("uniques: %w", err)
	}
	for i := range uniques {
		if err := table.AddConstraint(&uniques[i]); err != nil {
			return nil, err
		}
	}

	fks, err := getForeignKeys(ctx, conn, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("foreign keys: %w", err)
	}
	for i := range fks {
		if err := table.AddConstraint(&fks[i]); err != nil {
			return nil, err
		}
	}

	checks, err := getChecks(ctx, conn, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("checks: %w", err)
	}
	for i := range checks {
		if err := table.AddConstraint(&checks[i]); err != nil {
			return nil, err
		}
	}

	return table, nil
}

func getColumns(ctx context.Context, conn *sql.DB, schemaName, tableName string) ([]snapshot.Column, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []snapshot.Column
	for rows.Next() {
		var name, dataType, nullable string
		var defaultVal sql.NullString
		if err := rows.Scan(&name, &dataType, &nullable, &defaultVal); err != nil {
			return nil, err
		}
		col := snapshot.Column{
			SchemaName: schemaName, TableName: tableName, Name: name,
			DataType: strings.TrimSpace(dataType), NotNull: nullable == "NO",
		}
		if defaultVal.Valid {
			d := defaultVal.String
			col.Default = &d
		}
		out = append(out, col)
	}
	return out, rows.Err()
}

func getPrimaryKey(ctx context.Context, conn *sql.DB, schemaName, tableName string) (*snapshot.PrimaryKey, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT tc.constraint_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = $1 AND tc.table_name = $2 AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position`, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var pk *snapshot.PrimaryKey
	for rows.Next() {
		var name, col string
		if err := rows.Scan(&name, &col); err != nil {
			return nil, err
		}
		if pk == nil {
			pk = &snapshot.PrimaryKey{SchemaName: schemaName, TableName: tableName, Name: name}
		}
		pk.Columns = append(pk.Columns, col)
	}
	return pk, rows.Err()
}

func getUniques(ctx context.Context, conn *sql.DB, schemaName, tableName string) ([]snapshot.Unique, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT tc.constraint_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = $1 AND tc.table_name = $2 AND tc.constraint_type = 'UNIQUE'
		ORDER BY tc.constraint_name, kcu.ordinal_position`, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	byName := map[string]*snapshot.Unique{}
	var order []string
	for rows.Next() {
		var name, col string
		if err := rows.Scan(&name, &col); err != nil {
			return nil, err
		}
		u, ok := byName[name]
		if !ok {
			u = &snapshot.Unique{SchemaName: schemaName, TableName: tableName, Name: name}
			byName[name] = u
			order = append(order, name)
		}
		u.Columns = append(u.Columns, col)
	}
	out := make([]snapshot.Unique, len(order))
	for i, n := range order {
		out[i] = *byName[n]
	}
	return out, rows.Err()
}

func getForeignKeys(ctx context.Context, conn *sql.DB, schemaName, tableName string) ([]snapshot.ForeignKey, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT
			tc.constraint_name, kcu.column_name,
			ccu.table_schema, ccu.table_name, ccu.column_name,
			rc.match_option, rc.update_rule, rc.delete_rule
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		JOIN information_schema.referential_constraints rc
			ON tc.constraint_name = rc.constraint_name AND tc.table_schema = rc.constraint_schema
		JOIN information_schema.constraint_column_usage ccu
			ON rc.unique_constraint_name = ccu.constraint_name AND rc.unique_constraint_schema = ccu.table_schema
		WHERE tc.table_schema = $1 AND tc.table_name = $2 AND tc.constraint_type = 'FOREIGN KEY'
		ORDER BY tc.constraint_name, kcu.ordinal_position`, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	byName := map[string]*snapshot.ForeignKey{}
	var order []string
	for rows.Next() {
		var name, col, targetSchema, targetTable, targetCol, match, updateRule, deleteRule string
		if err := rows.Scan(&name, &col, &targetSchema, &targetTable, &targetCol, &match, &updateRule, &deleteRule); err != nil {
			return nil, err
		}
		fk, ok := byName[name]
		if !ok {
			fk = &snapshot.ForeignKey{
				SchemaName: schemaName, TableName: tableName, Name: name,
				TargetSchema: targetSchema, TargetTable: targetTable,
				MatchOption: match, UpdateRule: updateRule, DeleteRule: deleteRule,
			}
			byName[name] = fk
			order = append(order, name)
		}
		fk.Columns = append(fk.Columns, col)
		fk.TargetColumns = append(fk.TargetColumns, targetCol)
	}
	out := make([]snapshot.ForeignKey, len(order))
	for i, n := range order {
		out[i] = *byName[n]
	}
	return out, rows.Err()
}

func getChecks(ctx context.Context, conn *sql.DB, schemaName, tableName string) ([]snapshot.Check, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT cc.constraint_name, cc.check_clause
		FROM information_schema.check_constraints cc
		JOIN information_schema.table_constraints tc
			ON cc.constraint_name = tc.constraint_name AND cc.constraint_schema = tc.table_schema
		WHERE tc.table_schema = $1 AND tc.table_name = $2
		ORDER BY cc.constraint_name`, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []snapshot.Check
	for rows.Next() {
		var name, clause string
		if err := rows.Scan(&name, &clause); err != nil {
			return nil, err
		}
		out = append(out, snapshot.Check{SchemaName: schemaName, TableName: tableName, Name: name, Expression: clause})
	}
	return out, rows.Err()
}

func getIndexes(ctx context.Context, conn *sql.DB, schemaName string) ([]snapshot.Index, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT i.relname, t.relname, ix.indisunique, am.amname,
			pg_get_indexdef(ix.indexrelid, 0, false)
		FROM pg_index ix
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_am am ON am.oid = i.relam
		WHERE n.nspname = $1 AND NOT ix.indisprimary
		ORDER BY i.relname`, schemaName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []snapshot.Index
	for rows.Next() {
		var name, tableName, method, def string
		var unique bool
		if err := rows.Scan(&name, &tableName, &unique, &method, &def); err != nil {
			return nil, err
		}
		out = append(out, snapshot.Index{
			SchemaName: schemaName, Name: name, TableName: tableName,
			Unique: unique, Method: method, KeyExpressions: extractIndexColumns(def),
		})
	}
	return out, rows.Err()
}

var indexColumnsRe = regexp.MustCompile(`\(([^)]*)\)`)

func extractIndexColumns(def string) []string {
	m := indexColumnsRe.FindStringSubmatch(def)
	if m == nil {
		return nil
	}
	parts := strings.Split(m[1], ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func getViews(ctx context.Context, conn *sql.DB, schemaName string) ([]snapshot.View, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT table_name, view_definition FROM information_schema.views
		WHERE table_schema = $1 ORDER BY table_name`, schemaName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []snapshot.View
	for rows.Next() {
		var name, def string
		if err := rows.Scan(&name, &def); err != nil {
			return nil, err
		}
		out = append(out, snapshot.View{SchemaName: schemaName, Name: name, Query: strings.TrimSpace(def)})
	}
	return out, rows.Err()
}

func getSequences(ctx context.Context, conn *sql.DB, schemaName string) ([]snapshot.Sequence, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT s.relname, seq.data_type, seq.increment, seq.minimum_value, seq.maximum_value,
			seq.start_value, seq.cache_size, seq.cycle_option,
			d.refobjid::regclass::text, a.attname
		FROM pg_class s
		JOIN pg_namespace n ON n.oid = s.relnamespace
		JOIN information_schema.sequences seq ON seq.sequence_schema = n.nspname AND seq.sequence_name = s.relname
		LEFT JOIN pg_depend d ON d.objid = s.oid AND d.classid = 'pg_class'::regclass AND d.deptype = 'a'
		LEFT JOIN pg_attribute a ON a.attrelid = d.refobjid AND a.attnum = d.refobjsubid
		WHERE s.relkind = 'S' AND n.nspname = $1
		ORDER BY s.relname`, schemaName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []snapshot.Sequence
	for rows.Next() {
		var name, dataType, cycle string
		var increment, minVal, maxVal, start, cache int64
		var ownedTable, ownedCol sql.NullString
		if err := rows.Scan(&name, &dataType, &increment, &minVal, &maxVal, &start, &cache, &cycle, &ownedTable, &ownedCol); err != nil {
			return nil, err
		}
		s := snapshot.Sequence{
			SchemaName: schemaName, Name: name, DataType: dataType,
			Increment: increment, MinValue: minVal, MaxValue: maxVal, Start: start, Cache: cache,
			Cycle: cycle == "YES",
		}
		if ownedTable.Valid {
			t := ownedTable.String
			s.OwnedByTable = &t
		}
		if ownedCol.Valid {
			c := ownedCol.String
			s.OwnedByColumn = &c
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func getFunctions(ctx context.Context, conn *sql.DB, schemaName string) ([]snapshot.Function, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT p.proname, p.prosrc, l.lanname, pg_get_function_result(p.oid),
			CASE p.provolatile WHEN 'i' THEN 'IMMUTABLE' WHEN 's' THEN 'STABLE' ELSE 'VOLATILE' END
		FROM pg_proc p
		JOIN pg_namespace n ON n.oid = p.pronamespace
		JOIN pg_language l ON l.oid = p.prolang
		WHERE n.nspname = $1
		ORDER BY p.proname`, schemaName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []snapshot.Function
	for rows.Next() {
		var f snapshot.Function
		f.SchemaName = schemaName
		if err := rows.Scan(&f.Name, &f.Body, &f.Language, &f.Returns, &f.Volatility); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
