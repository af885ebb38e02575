package snapshot

import "testing"

func TestDatabaseAddSchemaDuplicate(t *testing.T) {
	db := NewDatabase()
	if err := db.AddSchema(NewSchema("public")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := db.AddSchema(NewSchema("public"))
	serr, ok := err.(*Error)
	if !ok || serr.Kind != ObjectAlreadyExists {
		t.Fatalf("expected ObjectAlreadyExists, got %v", err)
	}
}

func TestDatabaseGetSchemaNotFound(t *testing.T) {
	db := NewDatabase()
	_, err := db.GetSchema("missing")
	serr, ok := err.(*Error)
	if !ok || serr.Kind != ObjectNotFound {
		t.Fatalf("expected ObjectNotFound, got %v", err)
	}
}

func TestTableColumnOrderPreserved(t *testing.T) {
	table := NewTable("public", "users")
	for _, name := range []string{"id", "email", "created_at"} {
		if err := table.AddColumn(&Column{SchemaName: "public", TableName: "users", Name: name, DataType: "text"}); err != nil {
			t.Fatalf("AddColumn(%s): %v", name, err)
		}
	}
	got := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		got[i] = c.Name
	}
	want := []string{"id", "email", "created_at"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("column order = %v, want %v", got, want)
		}
	}

	if _, err := table.RemoveColumn("email"); err != nil {
		t.Fatalf("RemoveColumn: %v", err)
	}
	if table.HasColumn("email") {
		t.Fatal("expected email column removed")
	}
	if len(table.Columns) != 2 {
		t.Fatalf("expected 2 columns after removal, got %d", len(table.Columns))
	}
}

func TestAsTableRejectsOtherVariants(t *testing.T) {
	v := &View{SchemaName: "public", Name: "active_users", Query: "select 1"}
	_, err := AsTable(v)
	serr, ok := err.(*Error)
	if !ok || serr.Kind != ObjectHasUnexpectedType {
		t.Fatalf("expected ObjectHasUnexpectedType, got %v", err)
	}
}

func TestDatabaseCloneIsDeep(t *testing.T) {
	db := NewDatabase()
	schema := NewSchema("public")
	table := NewTable("public", "users")
	_ = table.AddColumn(&Column{SchemaName: "public", TableName: "users", Name: "id", DataType: "bigint"})
	_ = table.AddConstraint(&PrimaryKey{SchemaName: "public", TableName: "users", Name: "users_pkey", Columns: []string{"id"}})
	_ = schema.AddRelation(table)
	_ = db.AddSchema(schema)

	clone := db.Clone()
	clonedTable, err := AsTable(clone.Schemas["public"].Relations["users"])
	if err != nil {
		t.Fatalf("AsTable: %v", err)
	}
	clonedTable.Columns[0].DataType = "int"
	if table.Columns[0].DataType != "bigint" {
		t.Fatal("mutating the clone's column mutated the original")
	}

	clonedTable.Columns[0].DataType = "bigint"
	pk, err := AsPrimaryKey(clonedTable.Constraints["users_pkey"])
	if err != nil {
		t.Fatalf("AsPrimaryKey: %v", err)
	}
	pk.Columns[0] = "other"
	original, _ := AsPrimaryKey(table.Constraints["users_pkey"])
	if original.Columns[0] != "id" {
		t.Fatal("mutating the clone's constraint columns mutated the original")
	}
}

func TestMergeDatabaseMergesSharedSchema(t *testing.T) {
	base := NewDatabase()
	baseSchema := NewSchema("public")
	_ = baseSchema.AddRelation(NewTable("public", "users"))
	_ = base.AddSchema(baseSchema)

	incoming := NewDatabase()
	incomingSchema := NewSchema("public")
	_ = incomingSchema.AddRelation(NewTable("public", "orders"))
	_ = incoming.AddSchema(incomingSchema)

	if err := base.MergeDatabase(incoming); err != nil {
		t.Fatalf("MergeDatabase: %v", err)
	}
	if !base.Schemas["public"].HasRelation("users") || !base.Schemas["public"].HasRelation("orders") {
		t.Fatal("expected merged schema to contain both relations")
	}
}
