package historyschema

import "testing"

func TestValidateChangeListAcceptsWellFormedEnvelope(t *testing.T) {
	decoded := []interface{}{
		map[string]interface{}{
			"type":   "CreateSchemaChange",
			"change": map[string]interface{}{"SchemaName": "public"},
		},
	}
	if err := ValidateChangeList(decoded); err != nil {
		t.Fatalf("expected valid change list, got error: %v", err)
	}
}

func TestValidateChangeListRejectsMissingType(t *testing.T) {
	decoded := []interface{}{
		map[string]interface{}{
			"change": map[string]interface{}{"SchemaName": "public"},
		},
	}
	if err := ValidateChangeList(decoded); err == nil {
		t.Fatal("expected error for entry missing \"type\"")
	}
}

func TestValidateChangeListRejectsNonObjectEntry(t *testing.T) {
	decoded := []interface{}{"not an object"}
	if err := ValidateChangeList(decoded); err == nil {
		t.Fatal("expected error for non-object entry")
	}
}

func TestValidateChangeListAcceptsEmptyList(t *testing.T) {
	if err := ValidateChangeList([]interface{}{}); err != nil {
		t.Fatalf("expected empty list to validate, got: %v", err)
	}
}
