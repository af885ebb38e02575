// Package snapshot is the in-memory object graph for one point-in-time
// database schema. It is a strict tree: schemas hold relations and
// functions, tables hold columns and constraints, and every cross-object
// reference (foreign key target, index owner, sequence ownership) is held
// as a name tuple rather than a pointer.
package snapshot

// Column is always owned by exactly one Table and kept in declaration
// order inside Table.Columns.
type Column struct {
	SchemaName string
	TableName  string
	Name       string

	DataType string
	NotNull  bool
	Default  *string
}

// Table is one of the four Relation variants.
type Table struct {
	SchemaName string
	Name       string

	Columns     []*Column
	Constraints map[string]Constraint
}

func NewTable(schemaName, name string) *Table {
	return &Table{SchemaName: schemaName, Name: name, Constraints: map[string]Constraint{}}
}

func (t *Table) GetColumn(name string) (*Column, error) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, ColumnNotFound(t.SchemaName, t.Name, name)
}

func (t *Table) HasColumn(name string) bool {
	_, err := t.GetColumn(name)
	return err == nil
}

func (t *Table) AddColumn(c *Column) error {
	if t.HasColumn(c.Name) {
		return ColumnAlreadyExists(t.SchemaName, t.Name, c.Name)
	}
	t.Columns = append(t.Columns, c)
	return nil
}

func (t *Table) RemoveColumn(name string) (*Column, error) {
	for i, c := range t.Columns {
		if c.Name == name {
			t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
			return c, nil
		}
	}
	return nil, ColumnNotFound(t.SchemaName, t.Name, name)
}

func (t *Table) GetConstraint(name string) (Constraint, error) {
	c, ok := t.Constraints[name]
	if !ok {
		return nil, ConstraintNotFound(t.SchemaName, t.Name, name)
	}
	return c, nil
}

func (t *Table) HasConstraint(name string) bool {
	_, ok := t.Constraints[name]
	return ok
}

func (t *Table) AddConstraint(c Constraint) error {
	if t.HasConstraint(c.GetName()) {
		return ConstraintAlreadyExists(t.SchemaName, t.Name, c.GetName())
	}
	t.Constraints[c.GetName()] = c
	return nil
}

func (t *Table) RemoveConstraint(name string) (Constraint, error) {
	c, ok := t.Constraints[name]
	if !ok {
		return nil, ConstraintNotFound(t.SchemaName, t.Name, name)
	}
	delete(t.Constraints, name)
	return c, nil
}

// View is the second Relation variant: a named SELECT query.
type View struct {
	SchemaName string
	Name       string
	Query      string
}

// Index is the third Relation variant.
type Index struct {
	SchemaName string
	Name       string

	TableName      string
	Unique         bool
	Method         string
	KeyExpressions []string
}

// Sequence is the fourth Relation variant.
type Sequence struct {
	SchemaName string
	Name       string

	DataType      string
	Increment     int64
	MinValue      int64
	MaxValue      int64
	Start         int64
	Cache         int64
	Cycle         bool
	OwnedByTable  *string
	OwnedByColumn *string
}

// Function lives in a Schema alongside relations.
type Function struct {
	SchemaName string
	Name       string

	Body       string
	Language   string
	Returns    string
	Volatility string
}

// PrimaryKey, Unique, ForeignKey and Check are the four Constraint variants.
type PrimaryKey struct {
	SchemaName string
	TableName  string
	Name       string

	Columns []string

	Deferrable        bool
	InitiallyDeferred bool
}

type Unique struct {
	SchemaName string
	TableName  string
	Name       string

	Columns []string

	Deferrable        bool
	InitiallyDeferred bool
}

type ForeignKey struct {
	SchemaName string
	TableName  string
	Name       string

	Columns        []string
	TargetSchema   string
	TargetTable    string
	TargetColumns  []string
	MatchOption    string
	UpdateRule     string
	DeleteRule     string

	Deferrable        bool
	InitiallyDeferred bool
}

type Check struct {
	SchemaName string
	TableName  string
	Name       string
	Expression string

	Deferrable        bool
	InitiallyDeferred bool
}
