package change

import (
	"fmt"
	"strings"

	"github.com/podo/podo/internal/snapshot"
	"github.com/podo/podo/internal/sqlfmt"
)

type CreateSequenceChange struct {
	Sequence *snapshot.Sequence
}

func (c *CreateSequenceChange) Kind() string { return "CreateSequenceChange" }

func (c *CreateSequenceChange) Apply(db *snapshot.Database) error {
	schema, err := db.GetSchema(c.Sequence.SchemaName)
	if err != nil {
		return err
	}
	seq := *c.Sequence
	return schema.AddRelation(&seq)
}

func (c *CreateSequenceChange) Render() string {
	s := c.Sequence
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE SEQUENCE %s", sqlfmt.QA(s.SchemaName, s.Name))
	if s.DataType != DefaultSequenceDataType() {
		fmt.Fprintf(&b, " AS %s", s.DataType)
	}
	if s.Increment != DefaultSequenceIncrement() {
		fmt.Fprintf(&b, " INCREMENT %d", s.Increment)
	}
	defaultMin, defaultMax, defaultStart := DefaultSequenceBounds(s.DataType, s.Increment)
	if s.MinValue != defaultMin {
		fmt.Fprintf(&b, " MINVALUE %d", s.MinValue)
	}
	if s.MaxValue != defaultMax {
		fmt.Fprintf(&b, " MAXVALUE %d", s.MaxValue)
	}
	if s.Start != defaultStart {
		fmt.Fprintf(&b, " START %d", s.Start)
	}
	if s.Cache != DefaultSequenceCache() {
		fmt.Fprintf(&b, " CACHE %d", s.Cache)
	}
	if s.Cycle != DefaultSequenceCycle() {
		b.WriteString(" CYCLE")
	}
	b.WriteString(";")
	return b.String()
}

func (c *CreateSequenceChange) Invert(witness *snapshot.Database) (Change, error) {
	return &DropSequenceChange{SchemaName: c.Sequence.SchemaName, Name: c.Sequence.Name}, nil
}

type DropSequenceChange struct {
	SchemaName string
	Name       string
}

func (c *DropSequenceChange) Kind() string { return "DropSequenceChange" }

func (c *DropSequenceChange) Apply(db *snapshot.Database) error {
	schema, err := db.GetSchema(c.SchemaName)
	if err != nil {
		return err
	}
	rel, err := schema.RemoveRelation(c.Name)
	if err != nil {
		return err
	}
	_, err = snapshot.AsSequence(rel)
	return err
}

func (c *DropSequenceChange) Render() string {
	return fmt.Sprintf("DROP SEQUENCE %s;", sqlfmt.QA(c.SchemaName, c.Name))
}

func (c *DropSequenceChange) Invert(witness *snapshot.Database) (Change, error) {
	schema, err := witness.GetSchema(c.SchemaName)
	if err != nil {
		return nil, err
	}
	rel, err := schema.GetRelation(c.Name)
	if err != nil {
		return nil, err
	}
	seq, err := snapshot.AsSequence(rel)
	if err != nil {
		return nil, err
	}
	seqCopy := *seq
	return &CreateSequenceChange{Sequence: &seqCopy}, nil
}
