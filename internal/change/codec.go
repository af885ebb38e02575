package change

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// envelope mirrors the original source's #[serde(tag = "type", content =
// "change")] wrapper: {type: "<Kind>", change: {...}}. Used to serialize a
// Change list into a Version file or the podo_meta.version table.
type envelope struct {
	Type   string    `yaml:"type"`
	Change yaml.Node `yaml:"change"`
}

// Encode wraps a Change list into its tagged-envelope YAML representation.
func Encode(changes []Change) ([]byte, error) {
	envelopes := make([]envelope, len(changes))
	for i, c := range changes {
		var node yaml.Node
		if err := node.Encode(c); err != nil {
			return nil, fmt.Errorf("encode change %d (%s): %w", i, c.Kind(), err)
		}
		envelopes[i] = envelope{Type: c.Kind(), Change: node}
	}
	return yaml.Marshal(envelopes)
}

// Decode parses a tagged-envelope YAML document back into a Change list,
// dispatching on the Kind tag via the closed type switch below.
func Decode(data []byte) ([]Change, error) {
	var envelopes []envelope
	if err := yaml.Unmarshal(data, &envelopes); err != nil {
		return nil, err
	}
	out := make([]Change, len(envelopes))
	for i, e := range envelopes {
		c, err := decodeOne(e.Type, &e.Change)
		if err != nil {
			return nil, fmt.Errorf("decode change %d (%s): %w", i, e.Type, err)
		}
		out[i] = c
	}
	return out, nil
}

func decodeOne(kind string, node *yaml.Node) (Change, error) {
	var target Change
	switch kind {
	case "CreateSchemaChange":
		target = &CreateSchemaChange{}
	case "DropSchemaChange":
		target = &DropSchemaChange{}
	case "CreateTableChange":
		target = &CreateTableChange{}
	case "DropTableChange":
		target = &DropTableChange{}
	case "AddColumnChange":
		target = &AddColumnChange{}
	case "DropColumnChange":
		target = &DropColumnChange{}
	case "RenameColumnChange":
		target = &RenameColumnChange{}
	case "AlterColumnSetDataTypeChange":
		target = &AlterColumnSetDataTypeChange{}
	case "AlterColumnSetDefaultChange":
		target = &AlterColumnSetDefaultChange{}
	case "AlterColumnSetNotNullChange":
		target = &AlterColumnSetNotNullChange{}
	case "AddPrimaryKeyChange":
		target = &AddPrimaryKeyChange{}
	case "DropPrimaryKeyChange":
		target = &DropPrimaryKeyChange{}
	case "AlterPrimaryKeyChange":
		target = &AlterPrimaryKeyChange{}
	case "AddUniqueChange":
		target = &AddUniqueChange{}
	case "DropUniqueChange":
		target = &DropUniqueChange{}
	case "AlterUniqueChange":
		target = &AlterUniqueChange{}
	case "AddForeignKeyChange":
		target = &AddForeignKeyChange{}
	case "DropForeignKeyChange":
		target = &DropForeignKeyChange{}
	case "AlterForeignKeyChange":
		target = &AlterForeignKeyChange{}
	case "AddCheckChange":
		target = &AddCheckChange{}
	case "DropCheckChange":
		target = &DropCheckChange{}
	case "AlterCheckChange":
		target = &AlterCheckChange{}
	case "CreateIndexChange":
		target = &CreateIndexChange{}
	case "DropIndexChange":
		target = &DropIndexChange{}
	case "CreateSequenceChange":
		target = &CreateSequenceChange{}
	case "DropSequenceChange":
		target = &DropSequenceChange{}
	case "CreateFunctionChange":
		target = &CreateFunctionChange{}
	case "DropFunctionChange":
		target = &DropFunctionChange{}
	case "CreateViewChange":
		target = &CreateViewChange{}
	case "DropViewChange":
		target = &DropViewChange{}
	default:
		return nil, fmt.Errorf("unknown change kind %q", kind)
	}
	if err := node.Decode(target); err != nil {
		return nil, err
	}
	return target, nil
}
