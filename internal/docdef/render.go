package docdef

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/podo/podo/internal/change"
	"github.com/podo/podo/internal/snapshot"
	"gopkg.in/yaml.v3"
)

// RenderDatabase is the inverse of ParseDocument: it produces the
// declarative-document YAML bytes for a Database, used by `clone` (after
// introspection).
func RenderDatabase(db *snapshot.Database) ([]byte, error) {
	root := mappingNode()
	for _, schemaName := range db.SortedSchemaNames() {
		schema := db.Schemas[schemaName]
		addPair(root, "schema "+schemaName, renderSchema(schema))
	}
	return yaml.Marshal(root)
}

func renderSchema(s *snapshot.Schema) *yaml.Node {
	node := mappingNode()
	for _, name := range s.SortedRelationNames() {
		switch r := s.Relations[name].(type) {
		case *snapshot.Table:
			addPair(node, "table "+name, renderTable(r))
		case *snapshot.View:
			addPair(node, "view "+name, renderView(r))
		case *snapshot.Index:
			addPair(node, "index "+name, renderIndex(r))
		case *snapshot.Sequence:
			addPair(node, "sequence "+name, renderSequence(r))
		}
	}
	for _, name := range s.SortedFunctionNames() {
		addPair(node, "function "+name, renderFunction(s.Functions[name]))
	}
	return node
}

func renderTable(t *snapshot.Table) *yaml.Node {
	node := mappingNode()
	for _, c := range t.Columns {
		addPair(node, "column "+c.Name, scalarNode(RenderColumnExpr(c.DataType, c.NotNull, c.Default)))
	}
	for _, name := range sortedKeys(t.Constraints) {
		kind := mappingNode()
		switch c := t.Constraints[name].(type) {
		case *snapshot.PrimaryKey:
			addPair(kind, "primary_key", renderPrimaryKey(c))
		case *snapshot.Unique:
			addPair(kind, "unique", renderUnique(c))
		case *snapshot.ForeignKey:
			addPair(kind, "foreign_key", renderForeignKey(c))
		case *snapshot.Check:
			addPair(kind, "check", renderCheck(c))
		}
		addPair(node, "constraint "+name, kind)
	}
	return node
}

func renderPrimaryKey(pk *snapshot.PrimaryKey) *yaml.Node {
	node := mappingNode()
	addPair(node, "columns", stringListNode(pk.Columns))
	if pk.Deferrable {
		addPair(node, "deferrable", scalarNode("true"))
	}
	if pk.InitiallyDeferred {
		addPair(node, "initially_deferred", scalarNode("true"))
	}
	return node
}

func renderUnique(u *snapshot.Unique) *yaml.Node {
	node := mappingNode()
	addPair(node, "columns", stringListNode(u.Columns))
	if u.Deferrable {
		addPair(node, "deferrable", scalarNode("true"))
	}
	if u.InitiallyDeferred {
		addPair(node, "initially_deferred", scalarNode("true"))
	}
	return node
}

func renderForeignKey(fk *snapshot.ForeignKey) *yaml.Node {
	node := mappingNode()
	addPair(node, "columns", stringListNode(fk.Columns))
	ref := fmt.Sprintf("%s.%s(%s)", fk.TargetSchema, fk.TargetTable, joinComma(fk.TargetColumns))
	addPair(node, "references", scalarNode(ref))
	if fk.MatchOption != "SIMPLE" {
		addPair(node, "match", scalarNode(fk.MatchOption))
	}
	if fk.UpdateRule != "NO ACTION" {
		addPair(node, "on_update", scalarNode(fk.UpdateRule))
	}
	if fk.DeleteRule != "NO ACTION" {
		addPair(node, "on_delete", scalarNode(fk.DeleteRule))
	}
	if fk.Deferrable {
		addPair(node, "deferrable", scalarNode("true"))
	}
	if fk.InitiallyDeferred {
		addPair(node, "initially_deferred", scalarNode("true"))
	}
	return node
}

func renderCheck(c *snapshot.Check) *yaml.Node {
	node := mappingNode()
	addPair(node, "expression", scalarNode(c.Expression))
	if c.Deferrable {
		addPair(node, "deferrable", scalarNode("true"))
	}
	if c.InitiallyDeferred {
		addPair(node, "initially_deferred", scalarNode("true"))
	}
	return node
}

func renderView(v *snapshot.View) *yaml.Node {
	node := mappingNode()
	addPair(node, "query", scalarNode(v.Query))
	return node
}

func renderIndex(i *snapshot.Index) *yaml.Node {
	node := mappingNode()
	addPair(node, "table_name", scalarNode(i.TableName))
	addPair(node, "columns", stringListNode(i.KeyExpressions))
	if i.Unique {
		addPair(node, "unique", scalarNode("true"))
	}
	if i.Method != "btree" {
		addPair(node, "method", scalarNode(i.Method))
	}
	return node
}

func renderSequence(s *snapshot.Sequence) *yaml.Node {
	node := mappingNode()
	if s.DataType != "int8" {
		addPair(node, "data_type", scalarNode(s.DataType))
	}
	if s.Increment != 1 {
		addPair(node, "increment", scalarNode(strconv.FormatInt(s.Increment, 10)))
	}
	defMin, defMax, defStart := change.DefaultSequenceBounds(s.DataType, s.Increment)
	if s.MinValue != defMin {
		addPair(node, "min_value", scalarNode(strconv.FormatInt(s.MinValue, 10)))
	}
	if s.MaxValue != defMax {
		addPair(node, "max_value", scalarNode(strconv.FormatInt(s.MaxValue, 10)))
	}
	if s.Start != defStart {
		addPair(node, "start", scalarNode(strconv.FormatInt(s.Start, 10)))
	}
	if s.Cache != change.DefaultSequenceCache() {
		addPair(node, "cache", scalarNode(strconv.FormatInt(s.Cache, 10)))
	}
	if s.Cycle {
		addPair(node, "cycle", scalarNode("true"))
	}
	return node
}

func renderFunction(f *snapshot.Function) *yaml.Node {
	node := mappingNode()
	addPair(node, "body", scalarNode(f.Body))
	if f.Language != "SQL" {
		addPair(node, "language", scalarNode(f.Language))
	}
	if f.Returns != "void" {
		addPair(node, "returns", scalarNode(f.Returns))
	}
	if f.Volatility != "VOLATILE" {
		addPair(node, "volatility", scalarNode(f.Volatility))
	}
	return node
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func stringListNode(items []string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, i := range items {
		node.Content = append(node.Content, scalarNode(i))
	}
	return node
}

func addPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, scalarNode(key), value)
}

func joinComma(items []string) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		out += it
	}
	return out
}

func sortedKeys(m map[string]snapshot.Constraint) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
