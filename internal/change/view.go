package change

import (
	"fmt"

	"github.com/podo/podo/internal/snapshot"
	"github.com/podo/podo/internal/sqlfmt"
)

type CreateViewChange struct {
	View *snapshot.View
}

func (c *CreateViewChange) Kind() string { return "CreateViewChange" }

func (c *CreateViewChange) Apply(db *snapshot.Database) error {
	schema, err := db.GetSchema(c.View.SchemaName)
	if err != nil {
		return err
	}
	v := *c.View
	return schema.AddRelation(&v)
}

func (c *CreateViewChange) Render() string {
	return fmt.Sprintf("CREATE VIEW %s AS %s;", sqlfmt.QA(c.View.SchemaName, c.View.Name), c.View.Query)
}

func (c *CreateViewChange) Invert(witness *snapshot.Database) (Change, error) {
	return &DropViewChange{SchemaName: c.View.SchemaName, Name: c.View.Name}, nil
}

type DropViewChange struct {
	SchemaName string
	Name       string
}

func (c *DropViewChange) Kind() string { return "DropViewChange" }

func (c *DropViewChange) Apply(db *snapshot.Database) error {
	schema, err := db.GetSchema(c.SchemaName)
	if err != nil {
		return err
	}
	rel, err := schema.RemoveRelation(c.Name)
	if err != nil {
		return err
	}
	_, err = snapshot.AsView(rel)
	return err
}

func (c *DropViewChange) Render() string {
	return fmt.Sprintf("DROP VIEW %s;", sqlfmt.QA(c.SchemaName, c.Name))
}

func (c *DropViewChange) Invert(witness *snapshot.Database) (Change, error) {
	schema, err := witness.GetSchema(c.SchemaName)
	if err != nil {
		return nil, err
	}
	rel, err := schema.GetRelation(c.Name)
	if err != nil {
		return nil, err
	}
	v, err := snapshot.AsView(rel)
	if err != nil {
		return nil, err
	}
	vCopy := *v
	return &CreateViewChange{View: &vCopy}, nil
}
