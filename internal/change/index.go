package change

import (
	"fmt"

	"github.com/podo/podo/internal/snapshot"
	"github.com/podo/podo/internal/sqlfmt"
)

type CreateIndexChange struct {
	Index *snapshot.Index
}

func (c *CreateIndexChange) Kind() string { return "CreateIndexChange" }

func (c *CreateIndexChange) Apply(db *snapshot.Database) error {
	schema, err := db.GetSchema(c.Index.SchemaName)
	if err != nil {
		return err
	}
	idx := *c.Index
	idx.KeyExpressions = append([]string(nil), c.Index.KeyExpressions...)
	return schema.AddRelation(&idx)
}

func (c *CreateIndexChange) Render() string {
	idx := c.Index
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	using := ""
	if idx.Method != DefaultIndexMethod() {
		using = "USING " + idx.Method + " "
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s %s(%s);",
		unique, sqlfmt.QN(idx.Name), sqlfmt.QA(idx.SchemaName, idx.TableName),
		using, sqlfmt.L(idx.KeyExpressions))
}

func (c *CreateIndexChange) Invert(witness *snapshot.Database) (Change, error) {
	return &DropIndexChange{SchemaName: c.Index.SchemaName, Name: c.Index.Name}, nil
}

type DropIndexChange struct {
	SchemaName string
	Name       string
}

func (c *DropIndexChange) Kind() string { return "DropIndexChange" }

func (c *DropIndexChange) Apply(db *snapshot.Database) error {
	schema, err := db.GetSchema(c.SchemaName)
	if err != nil {
		return err
	}
	rel, err := schema.RemoveRelation(c.Name)
	if err != nil {
		return err
	}
	_, err = snapshot.AsIndex(rel)
	return err
}

func (c *DropIndexChange) Render() string {
	return fmt.Sprintf("DROP INDEX %s;", sqlfmt.QA(c.SchemaName, c.Name))
}

func (c *DropIndexChange) Invert(witness *snapshot.Database) (Change, error) {
	schema, err := witness.GetSchema(c.SchemaName)
	if err != nil {
		return nil, err
	}
	rel, err := schema.GetRelation(c.Name)
	if err != nil {
		return nil, err
	}
	idx, err := snapshot.AsIndex(rel)
	if err != nil {
		return nil, err
	}
	idxCopy := *idx
	return &CreateIndexChange{Index: &idxCopy}, nil
}
