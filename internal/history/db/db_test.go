package db

import "testing"

func TestNewDefaultsMetadataSchema(t *testing.T) {
	h := New("")
	if h.Schema != DefaultMetadataSchema {
		t.Fatalf("Schema = %q, want %q", h.Schema, DefaultMetadataSchema)
	}
}

func TestNewRespectsExplicitSchema(t *testing.T) {
	h := New("custom_meta")
	if h.Schema != "custom_meta" {
		t.Fatalf("Schema = %q, want %q", h.Schema, "custom_meta")
	}
}

func TestTableIsQualifiedBySchema(t *testing.T) {
	h := New("podo_meta")
	if got, want := h.table(), `"podo_meta"."version"`; got != want {
		t.Fatalf("table() = %q, want %q", got, want)
	}
}
