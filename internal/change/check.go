package change

import (
	"fmt"

	"github.com/podo/podo/internal/snapshot"
	"github.com/podo/podo/internal/sqlfmt"
)

type AddCheckChange struct {
	Check *snapshot.Check
}

func (c *AddCheckChange) Kind() string { return "AddCheckChange" }

func (c *AddCheckChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.Check.SchemaName, c.Check.TableName)
	if err != nil {
		return err
	}
	ch := *c.Check
	return table.AddConstraint(&ch)
}

func (c *AddCheckChange) Render() string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)%s;",
		sqlfmt.QA(c.Check.SchemaName, c.Check.TableName), sqlfmt.QN(c.Check.Name),
		c.Check.Expression, renderDeferrable(c.Check.Deferrable, c.Check.InitiallyDeferred))
}

func (c *AddCheckChange) Invert(witness *snapshot.Database) (Change, error) {
	return &DropCheckChange{SchemaName: c.Check.SchemaName, TableName: c.Check.TableName, Name: c.Check.Name}, nil
}

type DropCheckChange struct {
	SchemaName string
	TableName  string
	Name       string
}

func (c *DropCheckChange) Kind() string { return "DropCheckChange" }

func (c *DropCheckChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.SchemaName, c.TableName)
	if err != nil {
		return err
	}
	con, err := table.RemoveConstraint(c.Name)
	if err != nil {
		return err
	}
	_, err = snapshot.AsCheck(con)
	return err
}

func (c *DropCheckChange) Render() string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s;",
		sqlfmt.QA(c.SchemaName, c.TableName), sqlfmt.QN(c.Name))
}

func (c *DropCheckChange) Invert(witness *snapshot.Database) (Change, error) {
	table, err := getTable(witness, c.SchemaName, c.TableName)
	if err != nil {
		return nil, err
	}
	con, err := table.GetConstraint(c.Name)
	if err != nil {
		return nil, err
	}
	ch, err := snapshot.AsCheck(con)
	if err != nil {
		return nil, err
	}
	chCopy := *ch
	return &AddCheckChange{Check: &chCopy}, nil
}

type AlterCheckChange struct {
	SchemaName string
	TableName  string
	Name       string
	Check      *snapshot.Check
}

func (c *AlterCheckChange) Kind() string { return "AlterCheckChange" }

func (c *AlterCheckChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.SchemaName, c.TableName)
	if err != nil {
		return err
	}
	if _, err := table.RemoveConstraint(c.Name); err != nil {
		return err
	}
	ch := *c.Check
	return table.AddConstraint(&ch)
}

func (c *AlterCheckChange) Render() string {
	drop := (&DropCheckChange{SchemaName: c.SchemaName, TableName: c.TableName, Name: c.Name}).Render()
	add := (&AddCheckChange{Check: c.Check}).Render()
	return drop + "\n" + add
}

func (c *AlterCheckChange) Invert(witness *snapshot.Database) (Change, error) {
	table, err := getTable(witness, c.SchemaName, c.TableName)
	if err != nil {
		return nil, err
	}
	con, err := table.GetConstraint(c.Name)
	if err != nil {
		return nil, err
	}
	ch, err := snapshot.AsCheck(con)
	if err != nil {
		return nil, err
	}
	chCopy := *ch
	return &AlterCheckChange{SchemaName: c.SchemaName, TableName: c.TableName, Name: c.Name, Check: &chCopy}, nil
}
