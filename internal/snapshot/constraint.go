package snapshot

// Constraint is the closed four-variant union PrimaryKey | ForeignKey |
// Unique | Check attached to a Table.
type Constraint interface {
	GetSchemaName() string
	GetTableName() string
	GetName() string
	constraintKind() string
}

func (p *PrimaryKey) GetSchemaName() string  { return p.SchemaName }
func (p *PrimaryKey) GetTableName() string   { return p.TableName }
func (p *PrimaryKey) GetName() string        { return p.Name }
func (p *PrimaryKey) constraintKind() string { return "primary key" }

func (f *ForeignKey) GetSchemaName() string  { return f.SchemaName }
func (f *ForeignKey) GetTableName() string   { return f.TableName }
func (f *ForeignKey) GetName() string        { return f.Name }
func (f *ForeignKey) constraintKind() string { return "foreign key" }

func (u *Unique) GetSchemaName() string  { return u.SchemaName }
func (u *Unique) GetTableName() string   { return u.TableName }
func (u *Unique) GetName() string        { return u.Name }
func (u *Unique) constraintKind() string { return "unique" }

func (c *Check) GetSchemaName() string  { return c.SchemaName }
func (c *Check) GetTableName() string   { return c.TableName }
func (c *Check) GetName() string        { return c.Name }
func (c *Check) constraintKind() string { return "check" }

func AsPrimaryKey(c Constraint) (*PrimaryKey, error) {
	if p, ok := c.(*PrimaryKey); ok {
		return p, nil
	}
	return nil, ConstraintUnexpectedType(c.GetSchemaName(), c.GetTableName(), c.GetName(), "primary key", c.constraintKind())
}

func AsForeignKey(c Constraint) (*ForeignKey, error) {
	if f, ok := c.(*ForeignKey); ok {
		return f, nil
	}
	return nil, ConstraintUnexpectedType(c.GetSchemaName(), c.GetTableName(), c.GetName(), "foreign key", c.constraintKind())
}

func AsUnique(c Constraint) (*Unique, error) {
	if u, ok := c.(*Unique); ok {
		return u, nil
	}
	return nil, ConstraintUnexpectedType(c.GetSchemaName(), c.GetTableName(), c.GetName(), "unique", c.constraintKind())
}

func AsCheck(c Constraint) (*Check, error) {
	if ch, ok := c.(*Check); ok {
		return ch, nil
	}
	return nil, ConstraintUnexpectedType(c.GetSchemaName(), c.GetTableName(), c.GetName(), "check", c.constraintKind())
}
