package docdef

import (
	"testing"

	"github.com/podo/podo/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTable(t *testing.T, s *snapshot.Schema, name string) *snapshot.Table {
	t.Helper()
	rel, err := s.GetRelation(name)
	require.NoError(t, err)
	table, err := snapshot.AsTable(rel)
	require.NoError(t, err)
	return table
}

func TestParseColumnExprBasic(t *testing.T) {
	expr, err := ParseColumnExpr("text")
	require.NoError(t, err)
	assert.Equal(t, "text", expr.DataType)
	assert.False(t, expr.NotNull)
	assert.Nil(t, expr.Default)
}

func TestParseColumnExprNotNullWithDefault(t *testing.T) {
	expr, err := ParseColumnExpr("integer! = 0")
	require.NoError(t, err)
	assert.Equal(t, "integer", expr.DataType)
	assert.True(t, expr.NotNull)
	require.NotNil(t, expr.Default)
	assert.Equal(t, "0", *expr.Default)
}

func TestParseColumnExprDefaultWithEmbeddedOperators(t *testing.T) {
	expr, err := ParseColumnExpr("text = 'a=b!c'")
	require.NoError(t, err)
	assert.Equal(t, "text", expr.DataType)
	require.NotNil(t, expr.Default)
	assert.Equal(t, "'a=b!c'", *expr.Default)
}

func TestRenderColumnExprRoundTrip(t *testing.T) {
	def := "now()"
	rendered := RenderColumnExpr("timestamptz", true, &def)
	assert.Equal(t, "timestamptz! = now()", rendered)

	expr, err := ParseColumnExpr(rendered)
	require.NoError(t, err)
	assert.Equal(t, "timestamptz", expr.DataType)
	assert.True(t, expr.NotNull)
	require.NotNil(t, expr.Default)
	assert.Equal(t, "now()", *expr.Default)
}

func TestParseDocumentTableWithPrimaryKeyAndForeignKey(t *testing.T) {
	doc := []byte(`
schema public:
  table users:
    column id: bigint!
    column email: text!
    constraint users_pkey:
      primary_key:
        columns: [id]
  table orders:
    column id: bigint!
    column user_id: bigint!
    constraint orders_user_id_fkey:
      foreign_key:
        columns: [user_id]
        references: users(id)
`)
	db, err := ParseDocument(doc)
	require.NoError(t, err)
	schema, err := db.GetSchema("public")
	require.NoError(t, err)

	users := getTable(t, schema, "users")
	assert.True(t, users.HasColumn("email"))
	assert.Contains(t, users.Constraints, "users_pkey")

	orders := getTable(t, schema, "orders")
	assert.Contains(t, orders.Constraints, "orders_user_id_fkey")
}

func TestParseDocumentRejectsNonSchemaRootKey(t *testing.T) {
	doc := []byte(`
table users:
  column id: bigint!
`)
	_, err := ParseDocument(doc)
	assert.Error(t, err)
}

func TestParseDocumentRejectsInvalidColumnExpr(t *testing.T) {
	doc := []byte(`
schema public:
  table users:
    column id: "!!!"
`)
	_, err := ParseDocument(doc)
	assert.Error(t, err)
}

func TestRenderDatabaseRoundTrip(t *testing.T) {
	doc := []byte(`
schema public:
  table users:
    column id: bigint!
    column name: text
    constraint users_pkey:
      primary_key:
        columns: [id]
`)
	db, err := ParseDocument(doc)
	require.NoError(t, err)

	rendered, err := RenderDatabase(db)
	require.NoError(t, err)

	reparsed, err := ParseDocument(rendered)
	require.NoError(t, err)

	schema, err := reparsed.GetSchema("public")
	require.NoError(t, err)
	users := getTable(t, schema, "users")
	assert.True(t, users.HasColumn("id"))
	assert.True(t, users.HasColumn("name"))
	assert.Contains(t, users.Constraints, "users_pkey")
}

func TestParseDirectoryMergesSameSchemaAcrossFiles(t *testing.T) {
	files := map[string][]byte{
		"a.yaml": []byte("schema public:\n  table users:\n    column id: bigint!\n"),
		"b.yaml": []byte("schema public:\n  table orders:\n    column id: bigint!\n"),
	}
	db, err := ParseDirectory(files)
	require.NoError(t, err)
	schema, err := db.GetSchema("public")
	require.NoError(t, err)
	assert.True(t, schema.HasRelation("users"))
	assert.True(t, schema.HasRelation("orders"))
}
