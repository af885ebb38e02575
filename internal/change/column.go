package change

import (
	"fmt"

	"github.com/podo/podo/internal/snapshot"
	"github.com/podo/podo/internal/sqlfmt"
)

type AddColumnChange struct {
	SchemaName string
	TableName  string
	Column     *snapshot.Column
}

func (c *AddColumnChange) Kind() string { return "AddColumnChange" }

func (c *AddColumnChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.SchemaName, c.TableName)
	if err != nil {
		return err
	}
	col := *c.Column
	col.SchemaName, col.TableName = c.SchemaName, c.TableName
	return table.AddColumn(&col)
}

func (c *AddColumnChange) Render() string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;",
		sqlfmt.QA(c.SchemaName, c.TableName), renderColumnDef(c.Column))
}

func (c *AddColumnChange) Invert(witness *snapshot.Database) (Change, error) {
	return &DropColumnChange{SchemaName: c.SchemaName, TableName: c.TableName, ColumnName: c.Column.Name}, nil
}

type DropColumnChange struct {
	SchemaName string
	TableName  string
	ColumnName string
}

func (c *DropColumnChange) Kind() string { return "DropColumnChange" }

func (c *DropColumnChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.SchemaName, c.TableName)
	if err != nil {
		return err
	}
	_, err = table.RemoveColumn(c.ColumnName)
	return err
}

func (c *DropColumnChange) Render() string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;",
		sqlfmt.QA(c.SchemaName, c.TableName), sqlfmt.QN(c.ColumnName))
}

func (c *DropColumnChange) Invert(witness *snapshot.Database) (Change, error) {
	table, err := getTable(witness, c.SchemaName, c.TableName)
	if err != nil {
		return nil, err
	}
	col, err := table.GetColumn(c.ColumnName)
	if err != nil {
		return nil, err
	}
	cc := *col
	return &AddColumnChange{SchemaName: c.SchemaName, TableName: c.TableName, Column: &cc}, nil
}

type RenameColumnChange struct {
	SchemaName string
	TableName  string
	OldName    string
	NewName    string
}

func (c *RenameColumnChange) Kind() string { return "RenameColumnChange" }

func (c *RenameColumnChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.SchemaName, c.TableName)
	if err != nil {
		return err
	}
	col, err := table.GetColumn(c.OldName)
	if err != nil {
		return err
	}
	if table.HasColumn(c.NewName) {
		return snapshot.ColumnAlreadyExists(c.SchemaName, c.TableName, c.NewName)
	}
	col.Name = c.NewName
	return nil
}

func (c *RenameColumnChange) Render() string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s;",
		sqlfmt.QA(c.SchemaName, c.TableName), sqlfmt.QN(c.OldName), sqlfmt.QN(c.NewName))
}

func (c *RenameColumnChange) Invert(witness *snapshot.Database) (Change, error) {
	return &RenameColumnChange{SchemaName: c.SchemaName, TableName: c.TableName, OldName: c.NewName, NewName: c.OldName}, nil
}

type AlterColumnSetDataTypeChange struct {
	SchemaName string
	TableName  string
	ColumnName string
	DataType   string
}

func (c *AlterColumnSetDataTypeChange) Kind() string { return "AlterColumnSetDataTypeChange" }

func (c *AlterColumnSetDataTypeChange) Apply(db *snapshot.Database) error {
	col, err := getColumn(db, c.SchemaName, c.TableName, c.ColumnName)
	if err != nil {
		return err
	}
	col.DataType = c.DataType
	return nil
}

func (c *AlterColumnSetDataTypeChange) Render() string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DATA TYPE %s;",
		sqlfmt.QA(c.SchemaName, c.TableName), sqlfmt.QN(c.ColumnName), c.DataType)
}

func (c *AlterColumnSetDataTypeChange) Invert(witness *snapshot.Database) (Change, error) {
	col, err := getColumn(witness, c.SchemaName, c.TableName, c.ColumnName)
	if err != nil {
		return nil, err
	}
	return &AlterColumnSetDataTypeChange{SchemaName: c.SchemaName, TableName: c.TableName, ColumnName: c.ColumnName, DataType: col.DataType}, nil
}

type AlterColumnSetDefaultChange struct {
	SchemaName string
	TableName  string
	ColumnName string
	Default    *string
}

func (c *AlterColumnSetDefaultChange) Kind() string { return "AlterColumnSetDefaultChange" }

func (c *AlterColumnSetDefaultChange) Apply(db *snapshot.Database) error {
	col, err := getColumn(db, c.SchemaName, c.TableName, c.ColumnName)
	if err != nil {
		return err
	}
	col.Default = c.Default
	return nil
}

func (c *AlterColumnSetDefaultChange) Render() string {
	if c.Default == nil {
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT;",
			sqlfmt.QA(c.SchemaName, c.TableName), sqlfmt.QN(c.ColumnName))
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s;",
		sqlfmt.QA(c.SchemaName, c.TableName), sqlfmt.QN(c.ColumnName), *c.Default)
}

func (c *AlterColumnSetDefaultChange) Invert(witness *snapshot.Database) (Change, error) {
	col, err := getColumn(witness, c.SchemaName, c.TableName, c.ColumnName)
	if err != nil {
		return nil, err
	}
	return &AlterColumnSetDefaultChange{SchemaName: c.SchemaName, TableName: c.TableName, ColumnName: c.ColumnName, Default: col.Default}, nil
}

type AlterColumnSetNotNullChange struct {
	SchemaName string
	TableName  string
	ColumnName string
	NotNull    bool
}

func (c *AlterColumnSetNotNullChange) Kind() string { return "AlterColumnSetNotNullChange" }

func (c *AlterColumnSetNotNullChange) Apply(db *snapshot.Database) error {
	col, err := getColumn(db, c.SchemaName, c.TableName, c.ColumnName)
	if err != nil {
		return err
	}
	col.NotNull = c.NotNull
	return nil
}

func (c *AlterColumnSetNotNullChange) Render() string {
	clause := "DROP NOT NULL"
	if c.NotNull {
		clause = "SET NOT NULL"
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s;",
		sqlfmt.QA(c.SchemaName, c.TableName), sqlfmt.QN(c.ColumnName), clause)
}

func (c *AlterColumnSetNotNullChange) Invert(witness *snapshot.Database) (Change, error) {
	col, err := getColumn(witness, c.SchemaName, c.TableName, c.ColumnName)
	if err != nil {
		return nil, err
	}
	return &AlterColumnSetNotNullChange{SchemaName: c.SchemaName, TableName: c.TableName, ColumnName: c.ColumnName, NotNull: col.NotNull}, nil
}

func getTable(db *snapshot.Database, schemaName, tableName string) (*snapshot.Table, error) {
	schema, err := db.GetSchema(schemaName)
	if err != nil {
		return nil, err
	}
	rel, err := schema.GetRelation(tableName)
	if err != nil {
		return nil, err
	}
	return snapshot.AsTable(rel)
}

func getColumn(db *snapshot.Database, schemaName, tableName, columnName string) (*snapshot.Column, error) {
	table, err := getTable(db, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	return table.GetColumn(columnName)
}
