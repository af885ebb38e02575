package fs

import (
	"testing"

	"github.com/podo/podo/internal/change"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T) *History {
	t.Helper()
	dir := t.TempDir()
	return &History{Dir: dir, NextMap: map[string]string{}}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	h := newTestHistory(t)

	init := NewInit()
	require.NoError(t, h.Save(init))

	v1 := &Version{Name: "v1", Previous: strPtr(Init)}
	v1.AddChange(&change.CreateSchemaChange{SchemaName: "public"}, `DROP SCHEMA "public";`)
	require.NoError(t, h.Save(v1))

	loaded, err := h.Get("v1")
	require.NoError(t, err)
	assert.Equal(t, "v1", loaded.Name)
	require.Len(t, loaded.Changes, 1)
	assert.Equal(t, "CreateSchemaChange", loaded.Changes[0].Kind())
	assert.Equal(t, []string{`CREATE SCHEMA "public";`}, loaded.Up)
	assert.Equal(t, []string{`DROP SCHEMA "public";`}, loaded.Down)
}

func TestVersionAddChangePrependsDown(t *testing.T) {
	v := NewStage(Init)
	v.AddChange(&change.CreateSchemaChange{SchemaName: "a"}, "DROP SCHEMA a;")
	v.AddChange(&change.CreateSchemaChange{SchemaName: "b"}, "DROP SCHEMA b;")

	assert.Equal(t, []string{"DROP SCHEMA b;", "DROP SCHEMA a;"}, v.Down)
	assert.False(t, v.IsEmpty())

	v.Reset()
	assert.True(t, v.IsEmpty())
	assert.Nil(t, v.Up)
	assert.Nil(t, v.Down)
}

func TestFromDirDetectsBranching(t *testing.T) {
	dir := t.TempDir()
	h := &History{Dir: dir, NextMap: map[string]string{}}

	require.NoError(t, h.Save(NewInit()))
	require.NoError(t, h.Save(&Version{Name: "v1", Previous: strPtr(Init)}))
	require.NoError(t, h.Save(&Version{Name: "v2", Previous: strPtr(Init)}))

	_, err := FromDir(dir)
	require.Error(t, err)
	fsErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, Branched, fsErr.Kind)
}

func TestFromDirFindsCurrentVersionExcludingStage(t *testing.T) {
	dir := t.TempDir()
	h := &History{Dir: dir, NextMap: map[string]string{}}

	require.NoError(t, h.Save(NewInit()))
	require.NoError(t, h.Save(&Version{Name: "v1", Previous: strPtr(Init)}))
	require.NoError(t, h.Save(NewStage("v1")))

	loaded, err := FromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "v1", loaded.CurrentVersion)
}

func TestGetUpwardRangeOrdersFromAfterFromToTo(t *testing.T) {
	h := newTestHistory(t)
	require.NoError(t, h.Save(NewInit()))
	require.NoError(t, h.Save(&Version{Name: "v1", Previous: strPtr(Init)}))
	require.NoError(t, h.Save(&Version{Name: "v2", Previous: strPtr("v1")}))
	require.NoError(t, h.Save(&Version{Name: "v3", Previous: strPtr("v2")}))

	chain, err := h.GetUpwardRange(Init, "v3")
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, []string{"v1", "v2", "v3"}, []string{chain[0].Name, chain[1].Name, chain[2].Name})
}

func TestGetUpwardRangeUnreachableFromRaisesError(t *testing.T) {
	h := newTestHistory(t)
	require.NoError(t, h.Save(NewInit()))
	require.NoError(t, h.Save(&Version{Name: "v1", Previous: strPtr(Init)}))

	_, err := h.GetUpwardRange("nonexistent", "v1")
	require.Error(t, err)
	fsErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, Unreachable, fsErr.Kind)
}

func strPtr(s string) *string { return &s }
