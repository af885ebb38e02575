package change

import (
	"fmt"

	"github.com/podo/podo/internal/snapshot"
	"github.com/podo/podo/internal/sqlfmt"
)

type AddForeignKeyChange struct {
	FK *snapshot.ForeignKey
}

func (c *AddForeignKeyChange) Kind() string { return "AddForeignKeyChange" }

func (c *AddForeignKeyChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.FK.SchemaName, c.FK.TableName)
	if err != nil {
		return err
	}
	if _, err := db.GetSchema(c.FK.TargetSchema); err != nil {
		return &InvalidReferenceError{Change: c.Kind(), Detail: "target schema " + c.FK.TargetSchema + " not found"}
	}
	fk := *c.FK
	return table.AddConstraint(&fk)
}

func (c *AddForeignKeyChange) Render() string {
	fk := c.FK
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s) %s %s %s%s;",
		sqlfmt.QA(fk.SchemaName, fk.TableName), sqlfmt.QN(fk.Name), sqlfmt.QL(fk.Columns),
		sqlfmt.QA(fk.TargetSchema, fk.TargetTable), sqlfmt.QL(fk.TargetColumns),
		fk.MatchOption, fk.UpdateRule, fk.DeleteRule,
		renderDeferrable(fk.Deferrable, fk.InitiallyDeferred))
}

func (c *AddForeignKeyChange) Invert(witness *snapshot.Database) (Change, error) {
	return &DropForeignKeyChange{SchemaName: c.FK.SchemaName, TableName: c.FK.TableName, Name: c.FK.Name}, nil
}

type DropForeignKeyChange struct {
	SchemaName string
	TableName  string
	Name       string
}

func (c *DropForeignKeyChange) Kind() string { return "DropForeignKeyChange" }

func (c *DropForeignKeyChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.SchemaName, c.TableName)
	if err != nil {
		return err
	}
	con, err := table.RemoveConstraint(c.Name)
	if err != nil {
		return err
	}
	_, err = snapshot.AsForeignKey(con)
	return err
}

func (c *DropForeignKeyChange) Render() string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s;",
		sqlfmt.QA(c.SchemaName, c.TableName), sqlfmt.QN(c.Name))
}

func (c *DropForeignKeyChange) Invert(witness *snapshot.Database) (Change, error) {
	table, err := getTable(witness, c.SchemaName, c.TableName)
	if err != nil {
		return nil, err
	}
	con, err := table.GetConstraint(c.Name)
	if err != nil {
		return nil, err
	}
	fk, err := snapshot.AsForeignKey(con)
	if err != nil {
		return nil, err
	}
	fkCopy := *fk
	return &AddForeignKeyChange{FK: &fkCopy}, nil
}

type AlterForeignKeyChange struct {
	SchemaName string
	TableName  string
	Name       string
	FK         *snapshot.ForeignKey
}

func (c *AlterForeignKeyChange) Kind() string { return "AlterForeignKeyChange" }

func (c *AlterForeignKeyChange) Apply(db *snapshot.Database) error {
	table, err := getTable(db, c.SchemaName, c.TableName)
	if err != nil {
		return err
	}
	if _, err := table.RemoveConstraint(c.Name); err != nil {
		return err
	}
	fk := *c.FK
	return table.AddConstraint(&fk)
}

func (c *AlterForeignKeyChange) Render() string {
	drop := (&DropForeignKeyChange{SchemaName: c.SchemaName, TableName: c.TableName, Name: c.Name}).Render()
	add := (&AddForeignKeyChange{FK: c.FK}).Render()
	return drop + "\n" + add
}

func (c *AlterForeignKeyChange) Invert(witness *snapshot.Database) (Change, error) {
	table, err := getTable(witness, c.SchemaName, c.TableName)
	if err != nil {
		return nil, err
	}
	con, err := table.GetConstraint(c.Name)
	if err != nil {
		return nil, err
	}
	fk, err := snapshot.AsForeignKey(con)
	if err != nil {
		return nil, err
	}
	fkCopy := *fk
	return &AlterForeignKeyChange{SchemaName: c.SchemaName, TableName: c.TableName, Name: c.Name, FK: &fkCopy}, nil
}
