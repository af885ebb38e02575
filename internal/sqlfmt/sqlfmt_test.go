package sqlfmt

import "testing"

func TestQN(t *testing.T) {
	cases := map[string]string{
		"users":      `"users"`,
		`weird"name`: `"weird""name"`,
	}
	for in, want := range cases {
		if got := QN(in); got != want {
			t.Errorf("QN(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQA(t *testing.T) {
	if got, want := QA("public", "users"), `"public"."users"`; got != want {
		t.Errorf("QA = %q, want %q", got, want)
	}
}

func TestQL(t *testing.T) {
	if got, want := QL([]string{"a", "b"}), `"a", "b"`; got != want {
		t.Errorf("QL = %q, want %q", got, want)
	}
	if got, want := QL(nil), ``; got != want {
		t.Errorf("QL(nil) = %q, want %q", got, want)
	}
}

func TestL(t *testing.T) {
	if got, want := L([]string{"1", "2"}), "1, 2"; got != want {
		t.Errorf("L = %q, want %q", got, want)
	}
}
