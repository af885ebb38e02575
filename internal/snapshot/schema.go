package snapshot

import "sort"

type Schema struct {
	Name      string
	Relations map[string]Relation
	Functions map[string]*Function
}

func NewSchema(name string) *Schema {
	return &Schema{Name: name, Relations: map[string]Relation{}, Functions: map[string]*Function{}}
}

func (s *Schema) GetRelation(name string) (Relation, error) {
	r, ok := s.Relations[name]
	if !ok {
		return nil, RelationNotFound(s.Name, name)
	}
	return r, nil
}

func (s *Schema) HasRelation(name string) bool {
	_, ok := s.Relations[name]
	return ok
}

func (s *Schema) AddRelation(r Relation) error {
	if s.HasRelation(r.GetName()) {
		return RelationAlreadyExists(s.Name, r.GetName())
	}
	s.Relations[r.GetName()] = r
	return nil
}

func (s *Schema) RemoveRelation(name string) (Relation, error) {
	r, ok := s.Relations[name]
	if !ok {
		return nil, RelationNotFound(s.Name, name)
	}
	delete(s.Relations, name)
	return r, nil
}

// SortedRelationNames returns relation names in sorted order, the
// iteration order used everywhere determinism matters (diffing, rendering).
func (s *Schema) SortedRelationNames() []string {
	names := make([]string, 0, len(s.Relations))
	for n := range s.Relations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Schema) GetFunction(name string) (*Function, error) {
	f, ok := s.Functions[name]
	if !ok {
		return nil, FunctionNotFound(s.Name, name)
	}
	return f, nil
}

func (s *Schema) HasFunction(name string) bool {
	_, ok := s.Functions[name]
	return ok
}

func (s *Schema) AddFunction(f *Function) error {
	if s.HasFunction(f.Name) {
		return FunctionAlreadyExists(s.Name, f.Name)
	}
	s.Functions[f.Name] = f
	return nil
}

func (s *Schema) RemoveFunction(name string) (*Function, error) {
	f, ok := s.Functions[name]
	if !ok {
		return nil, FunctionNotFound(s.Name, name)
	}
	delete(s.Functions, name)
	return f, nil
}

func (s *Schema) SortedFunctionNames() []string {
	names := make([]string, 0, len(s.Functions))
	for n := range s.Functions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MergeSchema folds source's relations and functions into s, failing if
// any name collides (used when loading multiple declarative documents that
// each contribute to the same schema).
func (s *Schema) MergeSchema(source *Schema) error {
	for _, name := range source.SortedRelationNames() {
		if err := s.AddRelation(source.Relations[name]); err != nil {
			return err
		}
	}
	for _, name := range source.SortedFunctionNames() {
		if err := s.AddFunction(source.Functions[name]); err != nil {
			return err
		}
	}
	return nil
}
