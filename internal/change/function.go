package change

import (
	"fmt"
	"strings"

	"github.com/podo/podo/internal/snapshot"
	"github.com/podo/podo/internal/sqlfmt"
)

type CreateFunctionChange struct {
	Function *snapshot.Function
}

func (c *CreateFunctionChange) Kind() string { return "CreateFunctionChange" }

func (c *CreateFunctionChange) Apply(db *snapshot.Database) error {
	schema, err := db.GetSchema(c.Function.SchemaName)
	if err != nil {
		return err
	}
	fn := *c.Function
	return schema.AddFunction(&fn)
}

func (c *CreateFunctionChange) Render() string {
	f := c.Function
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE FUNCTION %s()", sqlfmt.QA(f.SchemaName, f.Name))
	if f.Returns != DefaultFunctionReturns() {
		fmt.Fprintf(&b, " RETURNS %s", f.Returns)
	}
	if f.Language != DefaultFunctionLanguage() {
		fmt.Fprintf(&b, " LANGUAGE %s", f.Language)
	}
	if f.Volatility != DefaultFunctionVolatility() {
		fmt.Fprintf(&b, " %s", f.Volatility)
	}
	fmt.Fprintf(&b, " AS $$%s$$;", f.Body)
	return b.String()
}

func (c *CreateFunctionChange) Invert(witness *snapshot.Database) (Change, error) {
	return &DropFunctionChange{SchemaName: c.Function.SchemaName, Name: c.Function.Name}, nil
}

type DropFunctionChange struct {
	SchemaName string
	Name       string
}

func (c *DropFunctionChange) Kind() string { return "DropFunctionChange" }

func (c *DropFunctionChange) Apply(db *snapshot.Database) error {
	schema, err := db.GetSchema(c.SchemaName)
	if err != nil {
		return err
	}
	_, err = schema.RemoveFunction(c.Name)
	return err
}

func (c *DropFunctionChange) Render() string {
	return fmt.Sprintf("DROP FUNCTION %s();", sqlfmt.QA(c.SchemaName, c.Name))
}

func (c *DropFunctionChange) Invert(witness *snapshot.Database) (Change, error) {
	schema, err := witness.GetSchema(c.SchemaName)
	if err != nil {
		return nil, err
	}
	fn, err := schema.GetFunction(c.Name)
	if err != nil {
		return nil, err
	}
	fnCopy := *fn
	return &CreateFunctionChange{Function: &fnCopy}, nil
}
