package change

// Default values elided from rendered DDL when a field equals them, and
// supplied when a declarative document node omits the field.

func DefaultConstraintDeferrable() bool { return false }

func DefaultForeignKeyMatchOption() string { return "SIMPLE" }
func DefaultForeignKeyUpdateRule() string  { return "NO ACTION" }
func DefaultForeignKeyDeleteRule() string  { return "NO ACTION" }

func DefaultIndexUnique() bool     { return false }
func DefaultIndexMethod() string   { return "btree" }

func DefaultFunctionLanguage() string   { return "SQL" }
func DefaultFunctionReturns() string    { return "void" }
func DefaultFunctionVolatility() string { return "VOLATILE" }

func DefaultSequenceDataType() string { return "int8" }
func DefaultSequenceIncrement() int64 { return 1 }
func DefaultSequenceCache() int64     { return 1 }
func DefaultSequenceCycle() bool      { return false }

// DefaultSequenceBounds derives min/max/start the way CREATE SEQUENCE does
// when those clauses are omitted: ascending sequences start at 1 and run to
// the data type's max; descending sequences start at -1 and run down to the
// data type's min.
func DefaultSequenceBounds(dataType string, increment int64) (min, max, start int64) {
	var typeMin, typeMax int64
	switch dataType {
	case "int2", "smallint":
		typeMin, typeMax = -32768, 32767
	case "int4", "integer":
		typeMin, typeMax = -2147483648, 2147483647
	default: // int8/bigint
		typeMin, typeMax = -9223372036854775808, 9223372036854775807
	}
	if increment >= 0 {
		return 1, typeMax, 1
	}
	return typeMin, -1, -1
}
