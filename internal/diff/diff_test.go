package diff

import (
	"testing"

	"github.com/podo/podo/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dbWithUsersTable(notNull bool) *snapshot.Database {
	db := snapshot.NewDatabase()
	schema := snapshot.NewSchema("public")
	table := snapshot.NewTable("public", "users")
	_ = table.AddColumn(&snapshot.Column{SchemaName: "public", TableName: "users", Name: "id", DataType: "bigint", NotNull: true})
	_ = table.AddColumn(&snapshot.Column{SchemaName: "public", TableName: "users", Name: "name", DataType: "text", NotNull: notNull})
	_ = schema.AddRelation(table)
	_ = db.AddSchema(schema)
	return db
}

func TestDiffEmptyWhenIdentical(t *testing.T) {
	source := dbWithUsersTable(false)
	target := dbWithUsersTable(false)
	changes, err := Diff(source, target)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestDiffCreateSchemaAndTable(t *testing.T) {
	source := snapshot.NewDatabase()
	target := dbWithUsersTable(false)

	changes, err := Diff(source, target)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "CreateSchemaChange", changes[0].Kind())
	assert.Equal(t, "CreateTableChange", changes[1].Kind())
}

func TestDiffDropTableAndSchema(t *testing.T) {
	source := dbWithUsersTable(false)
	target := snapshot.NewDatabase()

	changes, err := Diff(source, target)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "DropTableChange", changes[0].Kind())
	assert.Equal(t, "DropSchemaChange", changes[1].Kind())
}

func TestDiffColumnNotNullChange(t *testing.T) {
	source := dbWithUsersTable(false)
	target := dbWithUsersTable(true)

	changes, err := Diff(source, target)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "AlterColumnSetNotNullChange", changes[0].Kind())
}

func TestDiffPrimaryKeyStructuralChangeIsDropThenCreate(t *testing.T) {
	source := dbWithUsersTable(false)
	sourceTable, err := snapshot.AsTable(source.Schemas["public"].Relations["users"])
	require.NoError(t, err)
	require.NoError(t, sourceTable.AddConstraint(&snapshot.PrimaryKey{SchemaName: "public", TableName: "users", Name: "users_pkey", Columns: []string{"id"}}))

	target := dbWithUsersTable(false)
	targetTable, err := snapshot.AsTable(target.Schemas["public"].Relations["users"])
	require.NoError(t, err)
	require.NoError(t, targetTable.AddConstraint(&snapshot.PrimaryKey{SchemaName: "public", TableName: "users", Name: "users_pkey", Columns: []string{"id", "name"}}))

	changes, err := Diff(source, target)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "DropPrimaryKeyChange", changes[0].Kind())
	assert.Equal(t, "AddPrimaryKeyChange", changes[1].Kind())
}

func TestDiffCheckIdenticalIsNoOp(t *testing.T) {
	source := dbWithUsersTable(false)
	sourceTable, err := snapshot.AsTable(source.Schemas["public"].Relations["users"])
	require.NoError(t, err)
	require.NoError(t, sourceTable.AddConstraint(&snapshot.Check{SchemaName: "public", TableName: "users", Name: "name_check", Expression: "name <> ''"}))

	target := dbWithUsersTable(false)
	targetTable, err := snapshot.AsTable(target.Schemas["public"].Relations["users"])
	require.NoError(t, err)
	require.NoError(t, targetTable.AddConstraint(&snapshot.Check{SchemaName: "public", TableName: "users", Name: "name_check", Expression: "name <> ''"}))

	changes, err := Diff(source, target)
	require.NoError(t, err)
	assert.Empty(t, changes)
}
