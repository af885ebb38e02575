package change

import (
	"fmt"
	"strings"

	"github.com/podo/podo/internal/snapshot"
	"github.com/podo/podo/internal/sqlfmt"
)

type CreateTableChange struct {
	SchemaName string
	TableName  string
	Columns    []*snapshot.Column
}

func (c *CreateTableChange) Kind() string { return "CreateTableChange" }

func (c *CreateTableChange) Apply(db *snapshot.Database) error {
	schema, err := db.GetSchema(c.SchemaName)
	if err != nil {
		return err
	}
	table := snapshot.NewTable(c.SchemaName, c.TableName)
	for _, col := range c.Columns {
		cc := *col
		cc.SchemaName, cc.TableName = c.SchemaName, c.TableName
		if err := table.AddColumn(&cc); err != nil {
			return err
		}
	}
	return schema.AddRelation(table)
}

func (c *CreateTableChange) Render() string {
	defs := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		defs[i] = renderColumnDef(col)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);",
		sqlfmt.QA(c.SchemaName, c.TableName), strings.Join(defs, ",\n  "))
}

func (c *CreateTableChange) Invert(witness *snapshot.Database) (Change, error) {
	return &DropTableChange{SchemaName: c.SchemaName, TableName: c.TableName}, nil
}

func renderColumnDef(col *snapshot.Column) string {
	var b strings.Builder
	b.WriteString(sqlfmt.QN(col.Name))
	b.WriteString(" ")
	b.WriteString(col.DataType)
	if col.NotNull {
		b.WriteString(" NOT NULL")
	}
	if col.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(*col.Default)
	}
	return b.String()
}

type DropTableChange struct {
	SchemaName string
	TableName  string
}

func (c *DropTableChange) Kind() string { return "DropTableChange" }

func (c *DropTableChange) Apply(db *snapshot.Database) error {
	schema, err := db.GetSchema(c.SchemaName)
	if err != nil {
		return err
	}
	_, err = schema.RemoveRelation(c.TableName)
	return err
}

func (c *DropTableChange) Render() string {
	return fmt.Sprintf("DROP TABLE %s;", sqlfmt.QA(c.SchemaName, c.TableName))
}

func (c *DropTableChange) Invert(witness *snapshot.Database) (Change, error) {
	schema, err := witness.GetSchema(c.SchemaName)
	if err != nil {
		return nil, err
	}
	rel, err := schema.GetRelation(c.TableName)
	if err != nil {
		return nil, err
	}
	table, err := snapshot.AsTable(rel)
	if err != nil {
		return nil, err
	}
	cols := make([]*snapshot.Column, len(table.Columns))
	copy(cols, table.Columns)
	return &CreateTableChange{SchemaName: c.SchemaName, TableName: c.TableName, Columns: cols}, nil
}
