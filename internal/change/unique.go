package change

import (
	"fmt"

	"github.com/podo/podo/internal/snapshot"
	"github.com/podo/podo/internal/sqlfmt"
)

type AddUniqueChange struct {
	Unique *snapshot.Unique
}

func (c *AddUniqueChange) Kind() string { return "AddUniqueChange" }

func (c *AddUniqueChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.Unique.SchemaName, c.Unique.TableName)
	if err != nil {
		return err
	}
	u := *c.Unique
	return table.AddConstraint(&u)
}

func (c *AddUniqueChange) Render() string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s)%s;",
		sqlfmt.QA(c.Unique.SchemaName, c.Unique.TableName), sqlfmt.QN(c.Unique.Name),
		sqlfmt.QL(c.Unique.Columns), renderDeferrable(c.Unique.Deferrable, c.Unique.InitiallyDeferred))
}

func (c *AddUniqueChange) Invert(witness *snapshot.Database) (Change, error) {
	return &DropUniqueChange{SchemaName: c.Unique.SchemaName, TableName: c.Unique.TableName, Name: c.Unique.Name}, nil
}

type DropUniqueChange struct {
	SchemaName string
	TableName  string
	Name       string
}

func (c *DropUniqueChange) Kind() string { return "DropUniqueChange" }

func (c *DropUniqueChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.SchemaName, c.TableName)
	if err != nil {
		return err
	}
	con, err := table.RemoveConstraint(c.Name)
	if err != nil {
		return err
	}
	_, err = snapshot.AsUnique(con)
	return err
}

func (c *DropUniqueChange) Render() string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s;",
		sqlfmt.QA(c.SchemaName, c.TableName), sqlfmt.QN(c.Name))
}

func (c *DropUniqueChange) Invert(witness *snapshot.Database) (Change, error) {
	table, err := getTable(witness, c.SchemaName, c.TableName)
	if err != nil {
		return nil, err
	}
	con, err := table.GetConstraint(c.Name)
	if err != nil {
		return nil, err
	}
	u, err := snapshot.AsUnique(con)
	if err != nil {
		return nil, err
	}
	uCopy := *u
	return &AddUniqueChange{Unique: &uCopy}, nil
}

type AlterUniqueChange struct {
	SchemaName string
	TableName  string
	Name       string
	Unique     *snapshot.Unique
}

func (c *AlterUniqueChange) Kind() string { return "AlterUniqueChange" }

func (c *AlterUniqueChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.SchemaName, c.TableName)
	if err != nil {
		return err
	}
	if _, err := table.RemoveConstraint(c.Name); err != nil {
		return err
	}
	u := *c.Unique
	return table.AddConstraint(&u)
}

func (c *AlterUniqueChange) Render() string {
	drop := (&DropUniqueChange{SchemaName: c.SchemaName, TableName: c.TableName, Name: c.Name}).Render()
	add := (&AddUniqueChange{Unique: c.Unique}).Render()
	return drop + "\n" + add
}

func (c *AlterUniqueChange) Invert(witness *snapshot.Database) (Change, error) {
	table, err := getTable(witness, c.SchemaName, c.TableName)
	if err != nil {
		return nil, err
	}
	con, err := table.GetConstraint(c.Name)
	if err != nil {
		return nil, err
	}
	u, err := snapshot.AsUnique(con)
	if err != nil {
		return nil, err
	}
	uCopy := *u
	return &AlterUniqueChange{SchemaName: c.SchemaName, TableName: c.TableName, Name: c.Name, Unique: &uCopy}, nil
}
