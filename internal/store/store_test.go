package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptassoc/internal/assoc"
	"github.com/vk/scriptassoc/internal/tablepath"
)

func openDemo(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "project.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	f, err := ReadFixtureFile(filepath.Join("testdata", "demo.yaml"))
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, f))
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestStore_LoadTableData(t *testing.T) {
	s := openDemo(t)

	data, err := s.LoadTableData(context.Background(), tablepath.MustParse("TableA"))

	require.NoError(t, err)
	assert.Equal(t, "Structure", data.Type)
	assert.Equal(t, [][]string{
		{"a1", "int32", "", "first"},
		{"a2", "float", "", "second"},
		{"a3", "char", "", "third"},
	}, data.Rows)
}

func TestStore_LoadTableData_CustomValues(t *testing.T) {
	s := openDemo(t)
	ctx := context.Background()

	instance, err := s.LoadTableData(ctx, tablepath.MustParse("Parent,Header.hdr"))
	require.NoError(t, err)
	proto, err := s.LoadTableData(ctx, tablepath.MustParse("Header"))
	require.NoError(t, err)

	assert.Equal(t, "parent header id", instance.Rows[0][3])
	assert.Equal(t, "id", proto.Rows[0][3], "prototype rows must stay untouched")
}

func TestStore_LoadTableData_Missing(t *testing.T) {
	s := openDemo(t)

	_, err := s.LoadTableData(context.Background(), tablepath.MustParse("Nope"))

	assert.ErrorContains(t, err, "table 'Nope' not found")
}

func TestStore_TypeMetadata(t *testing.T) {
	s := openDemo(t)
	ctx := context.Background()

	def, err := s.TypeDefinition(ctx, "Command")
	require.NoError(t, err)
	assert.True(t, def.IsCommand())
	assert.Equal(t, []string{"Command Name", "Command Code", "Description"}, def.ColumnNames())

	prim, err := s.IsPrimitive(ctx, "int16")
	require.NoError(t, err)
	assert.True(t, prim)
	prim, err = s.IsPrimitive(ctx, "Header")
	require.NoError(t, err)
	assert.False(t, prim)

	refs, err := s.QueryTableAndTypeList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []TableRef{
		{Name: "Cmds", Type: "Command"},
		{Name: "Parent", Type: "Structure"},
		{Name: "Header", Type: "Structure"},
		{Name: "Sample", Type: "Structure"},
		{Name: "TableA", Type: "Structure"},
	}, refs)
}

func TestStore_TableExists(t *testing.T) {
	s := openDemo(t)

	testCases := []struct {
		path     string
		expected bool
	}{
		{"TableA", true},
		{"Parent,Header.hdr", true},
		{"Parent,Sample.samples[1]", true},
		{"Parent,Header.nope", false},
		{"Parent,Sample.hdr", false},
		{"TableA,Header.hdr", false},
		{"Cmds,Header.hdr", false},
		{"Missing", false},
		{" ", false},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			ok, err := s.TableExists(context.Background(), tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ok)
		})
	}
}

func TestStore_TableTree(t *testing.T) {
	s := openDemo(t)
	ctx := context.Background()

	roots, err := s.RootTables(ctx)
	require.NoError(t, err)
	tree, err := s.TableTree(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Cmds", "Parent", "TableA"}, roots)
	expected := []string{
		"Cmds",
		"Parent",
		"Parent,Header.hdr",
		"Parent,Sample.samples[0]",
		"Parent,Sample.samples[1]",
		"TableA",
	}
	if diff := cmp.Diff(expected, tree); diff != "" {
		t.Errorf("TableTree() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_GroupByName(t *testing.T) {
	s := openDemo(t)
	ctx := context.Background()

	g, ok, err := s.GroupByName(ctx, "Telemetry")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"Parent,Header.hdr", "TableA"}, g.Tables)
	assert.Equal(t, []string{"Parent", "Parent,Header.hdr", "TableA"}, g.TablesAndAncestors())

	_, ok, err = s.GroupByName(ctx, "Nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Associations(t *testing.T) {
	s := openDemo(t)
	ctx := context.Background()

	// --- Act ---
	err := s.AddAssociation(ctx, assoc.Association{Name: "adhoc", ScriptPath: "x.sh", Members: "Cmds"})
	require.NoError(t, err)
	dupErr := s.AddAssociation(ctx, assoc.Association{Name: "adhoc", ScriptPath: "y.sh"})
	badErr := s.AddAssociation(ctx, assoc.Association{Name: "bad name", ScriptPath: "y.sh"})
	removed, err := s.DeleteAssociation(ctx, "report")
	require.NoError(t, err)
	removedAgain, err := s.DeleteAssociation(ctx, "report")
	require.NoError(t, err)
	all, err := s.RetrieveAssociations(ctx)
	require.NoError(t, err)

	// --- Assert ---
	assert.ErrorContains(t, dupErr, "already exists")
	assert.Error(t, badErr)
	assert.True(t, removed)
	assert.False(t, removedAgain)
	assert.Equal(t, []assoc.Association{
		{Name: "telemetry", ScriptPath: "telemetry.sh", Members: "Group:Telemetry"},
		{Name: "adhoc", ScriptPath: "x.sh", Members: "Cmds"},
	}, all)
}

func TestStore_Metadata(t *testing.T) {
	s := openDemo(t)

	md, err := s.Metadata(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Demo Spacecraft", md.Project)
	require.Len(t, md.Fields, 2)
	require.Len(t, md.Groups, 2)
	assert.Equal(t, "App", md.Groups[1].Name)
	assert.True(t, md.Groups[1].IsApplication)
	assert.Equal(t, []string{"Cmds"}, md.Groups[1].Tables)
	require.Len(t, md.Links, 1)
	assert.Equal(t, "10", md.Links[0].Rate)
	assert.Equal(t, []string{"Parent,Header.hdr.id"}, md.Links[0].Members)
}

func TestStore_SeedReplacesCatalog(t *testing.T) {
	s := openDemo(t)
	ctx := context.Background()
	_, err := s.RootTables(ctx)
	require.NoError(t, err)

	err = s.Seed(ctx, &Fixture{
		Project:    "Other",
		TableTypes: []FixtureTableType{{Name: "Limits", Columns: []FixtureColumn{{Name: "Limit"}}}},
		Tables:     []FixtureTable{{Name: "Lim", Type: "Limits", Rows: [][]string{{"5"}}}},
	})
	require.NoError(t, err)

	roots, err := s.RootTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lim"}, roots)
	all, err := s.RetrieveAssociations(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
