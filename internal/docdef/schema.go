package docdef

import (
	"github.com/podo/podo/internal/change"
	"github.com/podo/podo/internal/snapshot"
	"github.com/podo/podo/internal/sqlvalidate"
	"gopkg.in/yaml.v3"
)

func parseSchema(name string, node *yaml.Node) (*snapshot.Schema, error) {
	if node.Kind != yaml.MappingNode {
		return nil, &ParseError{Message: "schema node must be a mapping"}
	}
	schema := snapshot.NewSchema(name)
	errs := &HasErrors{}
	for _, p := range pairs(node) {
		keyword, relName := splitKeywordName(p.key)
		if !isKeyword(keyword) {
			errs.Add(&ParseError{Path: []string{p.key}, Message: "unknown schema child keyword"})
			continue
		}
		switch keyword {
		case "table":
			table, err := parseTable(name, relName, p.value)
			if err != nil {
				errs.Add(wrapPath(p.key, err))
				continue
			}
			if err := schema.AddRelation(table); err != nil {
				errs.Add(&ParseError{Path: []string{p.key}, Message: err.Error()})
			}
		case "view":
			view, err := parseView(name, relName, p.value)
			if err != nil {
				errs.Add(wrapPath(p.key, err))
				continue
			}
			if err := schema.AddRelation(view); err != nil {
				errs.Add(&ParseError{Path: []string{p.key}, Message: err.Error()})
			}
		case "index":
			idx, err := parseIndex(name, relName, p.value)
			if err != nil {
				errs.Add(wrapPath(p.key, err))
				continue
			}
			if err := schema.AddRelation(idx); err != nil {
				errs.Add(&ParseError{Path: []string{p.key}, Message: err.Error()})
			}
		case "sequence":
			seq, err := parseSequence(name, relName, p.value)
			if err != nil {
				errs.Add(wrapPath(p.key, err))
				continue
			}
			if err := schema.AddRelation(seq); err != nil {
				errs.Add(&ParseError{Path: []string{p.key}, Message: err.Error()})
			}
		case "function":
			fn, err := parseFunction(name, relName, p.value)
			if err != nil {
				errs.Add(wrapPath(p.key, err))
				continue
			}
			if err := schema.AddFunction(fn); err != nil {
				errs.Add(&ParseError{Path: []string{p.key}, Message: err.Error()})
			}
		default:
			errs.Add(&ParseError{Path: []string{p.key}, Message: "keyword not valid at schema level"})
		}
	}
	return schema, errs.AsError()
}

func parseView(schemaName, name string, node *yaml.Node) (*snapshot.View, error) {
	query, _ := scalarField(node, "query")
	if err := sqlvalidate.Query(query); err != nil {
		return nil, &ParseError{Message: err.Error()}
	}
	return &snapshot.View{SchemaName: schemaName, Name: name, Query: query}, nil
}

func parseIndex(schemaName, name string, node *yaml.Node) (*snapshot.Index, error) {
	tableName, _ := scalarField(node, "table_name")
	method, ok := scalarField(node, "method")
	if !ok {
		method = change.DefaultIndexMethod()
	}
	return &snapshot.Index{
		SchemaName:     schemaName,
		Name:           name,
		TableName:      tableName,
		Unique:         boolField(node, "unique", change.DefaultIndexUnique()),
		Method:         method,
		KeyExpressions: stringListField(node, "columns"),
	}, nil
}

func parseSequence(schemaName, name string, node *yaml.Node) (*snapshot.Sequence, error) {
	dataType, ok := scalarField(node, "data_type")
	if !ok {
		dataType = change.DefaultSequenceDataType()
	}
	increment := change.DefaultSequenceIncrement()
	if v, ok := scalarField(node, "increment"); ok {
		increment = parseInt(v)
	}
	defMin, defMax, defStart := change.DefaultSequenceBounds(dataType, increment)
	minValue, maxValue, start, cache := defMin, defMax, defStart, change.DefaultSequenceCache()
	if v, ok := scalarField(node, "min_value"); ok {
		minValue = parseInt(v)
	}
	if v, ok := scalarField(node, "max_value"); ok {
		maxValue = parseInt(v)
	}
	if v, ok := scalarField(node, "start"); ok {
		start = parseInt(v)
	}
	if v, ok := scalarField(node, "cache"); ok {
		cache = parseInt(v)
	}
	return &snapshot.Sequence{
		SchemaName: schemaName,
		Name:       name,
		DataType:   dataType,
		Increment:  increment,
		MinValue:   minValue,
		MaxValue:   maxValue,
		Start:      start,
		Cache:      cache,
		Cycle:      boolField(node, "cycle", change.DefaultSequenceCycle()),
	}, nil
}

func parseFunction(schemaName, name string, node *yaml.Node) (*snapshot.Function, error) {
	body, _ := scalarField(node, "body")
	language, ok := scalarField(node, "language")
	if !ok {
		language = change.DefaultFunctionLanguage()
	}
	returns, ok := scalarField(node, "returns")
	if !ok {
		returns = change.DefaultFunctionReturns()
	}
	volatility, ok := scalarField(node, "volatility")
	if !ok {
		volatility = change.DefaultFunctionVolatility()
	}
	if language == "SQL" {
		if err := sqlvalidate.Query(body); err != nil {
			return nil, &ParseError{Message: err.Error()}
		}
	}
	return &snapshot.Function{
		SchemaName: schemaName, Name: name, Body: body,
		Language: language, Returns: returns, Volatility: volatility,
	}, nil
}

func parseInt(s string) int64 {
	var neg bool
	var n int64
	for i, r := range s {
		if i == 0 && r == '-' {
			neg = true
			continue
		}
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int64(r-'0')
	}
	if neg {
		n = -n
	}
	return n
}
