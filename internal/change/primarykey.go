package change

import (
	"fmt"

	"github.com/podo/podo/internal/snapshot"
	"github.com/podo/podo/internal/sqlfmt"
)

func renderDeferrable(deferrable, initiallyDeferred bool) string {
	if !deferrable {
		return ""
	}
	s := " DEFERRABLE"
	if initiallyDeferred {
		s += " INITIALLY DEFERRED"
	}
	return s
}

type AddPrimaryKeyChange struct {
	PK *snapshot.PrimaryKey
}

func (c *AddPrimaryKeyChange) Kind() string { return "AddPrimaryKeyChange" }

func (c *AddPrimaryKeyChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.PK.SchemaName, c.PK.TableName)
	if err != nil {
		return err
	}
	pk := *c.PK
	return table.AddConstraint(&pk)
}

func (c *AddPrimaryKeyChange) Render() string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s PRIMARY KEY (%s)%s;",
		sqlfmt.QA(c.PK.SchemaName, c.PK.TableName), sqlfmt.QN(c.PK.Name),
		sqlfmt.QL(c.PK.Columns), renderDeferrable(c.PK.Deferrable, c.PK.InitiallyDeferred))
}

func (c *AddPrimaryKeyChange) Invert(witness *snapshot.Database) (Change, error) {
	return &DropPrimaryKeyChange{SchemaName: c.PK.SchemaName, TableName: c.PK.TableName, Name: c.PK.Name}, nil
}

type DropPrimaryKeyChange struct {
	SchemaName string
	TableName  string
	Name       string
}

func (c *DropPrimaryKeyChange) Kind() string { return "DropPrimaryKeyChange" }

func (c *DropPrimaryKeyChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.SchemaName, c.TableName)
	if err != nil {
		return err
	}
	con, err := table.RemoveConstraint(c.Name)
	if err != nil {
		return err
	}
	_, err = snapshot.AsPrimaryKey(con)
	return err
}

func (c *DropPrimaryKeyChange) Render() string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s;",
		sqlfmt.QA(c.SchemaName, c.TableName), sqlfmt.QN(c.Name))
}

func (c *DropPrimaryKeyChange) Invert(witness *snapshot.Database) (Change, error) {
	table, err := getTable(witness, c.SchemaName, c.TableName)
	if err != nil {
		return nil, err
	}
	con, err := table.GetConstraint(c.Name)
	if err != nil {
		return nil, err
	}
	pk, err := snapshot.AsPrimaryKey(con)
	if err != nil {
		return nil, err
	}
	pkCopy := *pk
	return &AddPrimaryKeyChange{PK: &pkCopy}, nil
}

type AlterPrimaryKeyChange struct {
	SchemaName string
	TableName  string
	Name       string
	PK         *snapshot.PrimaryKey
}

func (c *AlterPrimaryKeyChange) Kind() string { return "AlterPrimaryKeyChange" }

func (c *AlterPrimaryKeyChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.SchemaName, c.TableName)
	if err != nil {
		return err
	}
	if _, err := table.RemoveConstraint(c.Name); err != nil {
		return err
	}
	pk := *c.PK
	return table.AddConstraint(&pk)
}

func (c *AlterPrimaryKeyChange) Render() string {
	drop := (&DropPrimaryKeyChange{SchemaName: c.SchemaName, TableName: c.TableName, Name: c.Name}).Render()
	add := (&AddPrimaryKeyChange{PK: c.PK}).Render()
	return drop + "\n" + add
}

func (c *AlterPrimaryKeyChange) Invert(witness *snapshot.Database) (Change, error) {
	table, err := getTable(witness, c.SchemaName, c.TableName)
	if err != nil {
		return nil, err
	}
	con, err := table.GetConstraint(c.Name)
	if err != nil {
		return nil, err
	}
	pk, err := snapshot.AsPrimaryKey(con)
	if err != nil {
		return nil, err
	}
	pkCopy := *pk
	return &AlterPrimaryKeyChange{SchemaName: c.SchemaName, TableName: c.TableName, Name: c.Name, PK: &pkCopy}, nil
}
