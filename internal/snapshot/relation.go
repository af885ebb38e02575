package snapshot

// Relation is the closed four-variant union Table | View | Index | Sequence.
// The variants are distinguished by a type switch at every dispatch site
// rather than a discriminant field, matching the Rust source's enum.
type Relation interface {
	GetSchemaName() string
	GetName() string
	relationKind() string
}

func (t *Table) GetSchemaName() string    { return t.SchemaName }
func (t *Table) GetName() string          { return t.Name }
func (t *Table) relationKind() string     { return "table" }
func (v *View) GetSchemaName() string     { return v.SchemaName }
func (v *View) GetName() string           { return v.Name }
func (v *View) relationKind() string      { return "view" }
func (i *Index) GetSchemaName() string    { return i.SchemaName }
func (i *Index) GetName() string          { return i.Name }
func (i *Index) relationKind() string     { return "index" }
func (s *Sequence) GetSchemaName() string { return s.SchemaName }
func (s *Sequence) GetName() string       { return s.Name }
func (s *Sequence) relationKind() string  { return "sequence" }

func AsTable(r Relation) (*Table, error) {
	if t, ok := r.(*Table); ok {
		return t, nil
	}
	return nil, RelationUnexpectedType(r.GetSchemaName(), r.GetName(), "table", r.relationKind())
}

func AsView(r Relation) (*View, error) {
	if v, ok := r.(*View); ok {
		return v, nil
	}
	return nil, RelationUnexpectedType(r.GetSchemaName(), r.GetName(), "view", r.relationKind())
}

func AsIndex(r Relation) (*Index, error) {
	if i, ok := r.(*Index); ok {
		return i, nil
	}
	return nil, RelationUnexpectedType(r.GetSchemaName(), r.GetName(), "index", r.relationKind())
}

func AsSequence(r Relation) (*Sequence, error) {
	if s, ok := r.(*Sequence); ok {
		return s, nil
	}
	return nil, RelationUnexpectedType(r.GetSchemaName(), r.GetName(), "sequence", r.relationKind())
}
