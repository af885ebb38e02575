// Package sqlfmt renders quoted SQL identifiers and lists used by the
// change algebra and the DDL renderers.
package sqlfmt

import "strings"

// QN quotes a single identifier: name -> "name".
func QN(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QA renders a schema-qualified accessor: schema, relation -> "schema"."relation".
func QA(schema, name string) string {
	return QN(schema) + "." + QN(name)
}

// QL renders a comma-separated list of quoted identifiers.
func QL(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = QN(n)
	}
	return strings.Join(out, ", ")
}

// L renders a comma-separated list of already-formatted fragments.
func L(items []string) string {
	return strings.Join(items, ", ")
}
