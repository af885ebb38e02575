package change

import (
	"fmt"

	"github.com/podo/podo/internal/snapshot"
	"github.com/podo/podo/internal/sqlfmt"
)

type CreateSchemaChange struct {
	SchemaName string
}

func (c *CreateSchemaChange) Kind() string { return "CreateSchemaChange" }

func (c *CreateSchemaChange) Apply(db *snapshot.Database) error {
	return db.AddSchema(snapshot.NewSchema(c.SchemaName))
}

func (c *CreateSchemaChange) Render() string {
	return fmt.Sprintf("CREATE SCHEMA %s;", sqlfmt.QN(c.SchemaName))
}

func (c *CreateSchemaChange) Invert(witness *snapshot.Database) (Change, error) {
	return &DropSchemaChange{SchemaName: c.SchemaName}, nil
}

type DropSchemaChange struct {
	SchemaName string
}

func (c *DropSchemaChange) Kind() string { return "DropSchemaChange" }

func (c *DropSchemaChange) Apply(db *snapshot.Database) error {
	_, err := db.RemoveSchema(c.SchemaName)
	return err
}

func (c *DropSchemaChange) Render() string {
	return fmt.Sprintf("DROP SCHEMA %s;", sqlfmt.QN(c.SchemaName))
}

func (c *DropSchemaChange) Invert(witness *snapshot.Database) (Change, error) {
	return &CreateSchemaChange{SchemaName: c.SchemaName}, nil
}
