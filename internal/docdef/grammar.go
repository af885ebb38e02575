package docdef

import "strings"

// keywords is the fixed whitelist of node keywords and field names the
// grammar recognizes as the first token of a "keyword[ name]" document key.
// Only keys directly under a schema node are matched against this list;
// table nodes accept only "column <name>" and "constraint <name>" keys, and
// constraint and relation nodes read their fields by name.
var keywords = map[string]bool{
	"schema": true, "table": true, "view": true, "index": true,
	"sequence": true, "function": true, "column": true, "constraint": true,
	"primary_key": true, "unique": true,
	"foreign_key": true, "check": true, "columns": true, "references": true,
	"on_update": true, "on_delete": true, "match": true, "deferrable": true,
	"initially_deferred": true, "language": true, "returns": true,
	"volatility": true, "body": true, "query": true, "method": true,
	"cycle": true, "increment": true, "min_value": true, "max_value": true,
	"start": true, "cache": true, "data_type": true, "owned_by_table": true,
	"owned_by_column": true, "table_name": true,
}

// splitKeywordName splits a document key of the form "keyword name" or bare
// "keyword" into its keyword and optional name.
func splitKeywordName(key string) (keyword, name string) {
	parts := strings.SplitN(key, " ", 2)
	if len(parts) == 2 {
		return parts[0], strings.TrimSpace(parts[1])
	}
	return parts[0], ""
}

func isKeyword(k string) bool {
	return keywords[k]
}
