package change

import (
	"testing"

	"github.com/podo/podo/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDBWithTable() *snapshot.Database {
	db := snapshot.NewDatabase()
	schema := snapshot.NewSchema("public")
	table := snapshot.NewTable("public", "users")
	_ = table.AddColumn(&snapshot.Column{SchemaName: "public", TableName: "users", Name: "id", DataType: "bigint", NotNull: true})
	_ = schema.AddRelation(table)
	_ = db.AddSchema(schema)
	return db
}

func TestCreateTableChangeApplyAndInvert(t *testing.T) {
	db := snapshot.NewDatabase()
	_ = db.AddSchema(snapshot.NewSchema("public"))

	c := &CreateTableChange{
		SchemaName: "public",
		TableName:  "users",
		Columns:    []*snapshot.Column{{Name: "id", DataType: "bigint", NotNull: true}},
	}
	require.NoError(t, c.Apply(db))
	assert.True(t, db.Schemas["public"].HasRelation("users"))
	assert.Contains(t, c.Render(), `CREATE TABLE "public"."users"`)

	witness := snapshot.NewDatabase()
	_ = witness.AddSchema(snapshot.NewSchema("public"))
	inv, err := c.Invert(witness)
	require.NoError(t, err)
	assert.Equal(t, "DropTableChange", inv.Kind())
	assert.Equal(t, `DROP TABLE "public"."users";`, inv.Render())
}

func TestDropTableChangeInvertRecoversColumns(t *testing.T) {
	witness := newDBWithTable()
	c := &DropTableChange{SchemaName: "public", TableName: "users"}
	require.NoError(t, c.Apply(witness.Clone()))

	inv, err := c.Invert(witness)
	require.NoError(t, err)
	create, ok := inv.(*CreateTableChange)
	require.True(t, ok)
	require.Len(t, create.Columns, 1)
	assert.Equal(t, "id", create.Columns[0].Name)
}

func TestAddColumnDropColumnRoundTrip(t *testing.T) {
	db := newDBWithTable()
	add := &AddColumnChange{SchemaName: "public", TableName: "users", Column: &snapshot.Column{Name: "email", DataType: "text"}}
	require.NoError(t, add.Apply(db))

	table, err := getTable(db, "public", "users")
	require.NoError(t, err)
	assert.True(t, table.HasColumn("email"))

	witnessBefore := db.Clone()
	drop := &DropColumnChange{SchemaName: "public", TableName: "users", ColumnName: "email"}
	require.NoError(t, drop.Apply(db))
	assert.False(t, table.HasColumn("email"))

	inv, err := drop.Invert(witnessBefore)
	require.NoError(t, err)
	back, ok := inv.(*AddColumnChange)
	require.True(t, ok)
	assert.Equal(t, "email", back.Column.Name)
}

func TestAlterColumnSetNotNullInvertRestoresPriorValue(t *testing.T) {
	witness := newDBWithTable() // id column is NotNull: true
	c := &AlterColumnSetNotNullChange{SchemaName: "public", TableName: "users", ColumnName: "id", NotNull: false}
	inv, err := c.Invert(witness)
	require.NoError(t, err)
	alter, ok := inv.(*AlterColumnSetNotNullChange)
	require.True(t, ok)
	assert.True(t, alter.NotNull)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := []Change{
		&CreateSchemaChange{SchemaName: "public"},
		&CreateTableChange{SchemaName: "public", TableName: "users", Columns: []*snapshot.Column{{Name: "id", DataType: "bigint"}}},
		&AddColumnChange{SchemaName: "public", TableName: "users", Column: &snapshot.Column{Name: "email", DataType: "text"}},
	}

	encoded, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(original))

	for i, c := range original {
		assert.Equal(t, c.Kind(), decoded[i].Kind())
		assert.Equal(t, c.Render(), decoded[i].Render())
	}
}

func TestDecodeUnknownKindFails(t *testing.T) {
	_, err := Decode([]byte("- type: NotARealChange\n  change: {}\n"))
	assert.Error(t, err)
}
