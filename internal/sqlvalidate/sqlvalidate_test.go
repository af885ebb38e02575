package sqlvalidate

import "testing"

func TestExpressionAcceptsValidExpressions(t *testing.T) {
	cases := []string{
		"0",
		"now()",
		"'active'",
		"a + b",
	}
	for _, c := range cases {
		if err := Expression(c); err != nil {
			t.Errorf("Expression(%q) returned error: %v", c, err)
		}
	}
}

func TestExpressionRejectsInvalidSyntax(t *testing.T) {
	if err := Expression("select select"); err == nil {
		t.Fatal("expected error for malformed expression")
	}
}

func TestQueryAcceptsValidSelect(t *testing.T) {
	if err := Query("SELECT id, name FROM users WHERE active"); err != nil {
		t.Fatalf("expected valid query, got: %v", err)
	}
}

func TestQueryRejectsInvalidSyntax(t *testing.T) {
	if err := Query("SELEKT * FORM users"); err == nil {
		t.Fatal("expected error for malformed query")
	}
}
