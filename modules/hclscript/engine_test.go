package hclscript_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptassoc/internal/binding"
	"github.com/vk/scriptassoc/internal/engine"
	"github.com/vk/scriptassoc/internal/loader"
	"github.com/vk/scriptassoc/internal/schema"
	"github.com/vk/scriptassoc/internal/testutil"
	"github.com/vk/scriptassoc/modules/hclscript"
)

func demoHandler(outDir string) *binding.Handler {
	return binding.New(binding.Options{
		ScriptName: "report.hcl",
		OutputDir:  outDir,
		Tables: []binding.TableInfo{{
			Type: "Structure",
			Name: "TableA",
			Rows: []loader.Row{
				loader.NewRow([]string{"a", "int", "", "first"}, "Structure", "TableA"),
				loader.NewRow([]string{"b", "float", "", "second"}, "Structure", "TableA"),
				loader.NewRow([]string{"c", "char", "", "third"}, "Structure", "TableA"),
			},
		}},
		Types:    map[string]*schema.TypeDefinition{"Structure": testutil.StructureType()},
		Metadata: &binding.Metadata{Project: "demo"},
		Now:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})
}

func newRegistry(out *testutil.SafeBuffer) *engine.Registry {
	reg := engine.NewRegistry()
	(&hclscript.Module{Output: out}).Register(reg)
	return reg
}

func TestEngine_Dispatch(t *testing.T) {
	testCases := []struct {
		name        string
		script      string
		wantErr     string
		wantPrinted string
		wantFiles   map[string]string
	}{
		{
			name: "outputs and prints",
			script: `
locals {
  rows  = ccdd.tables.Structure.rows
  names = [for r in local.rows : r.cells[0]]
}

print "summary" {
  message = format("%s has %d rows", ccdd.project, ccdd_num_rows("structure"))
}

output "names.txt" {
  content = join(",", local.names)
}

output "nested/second.txt" {
  content = ccdd_table_data("Structure", "Data Type", 1)
}
`,
			wantPrinted: "demo has 3 rows\n",
			wantFiles:   map[string]string{"names.txt": "a,b,c", "nested/second.txt": "float"},
		},
		{
			name: "failing check carries message",
			script: `
check "enough_rows" {
  condition     = length(ccdd.tables.Structure.rows) > 5
  error_message = "expected more than five rows"
}
output "never.txt" {
  content = "x"
}
`,
			wantErr: "error 'expected more than five rows'",
		},
		{
			name: "check without message",
			script: `
check "empty" {
  condition = false
}
`,
			wantErr: "check 'empty' failed",
		},
		{
			name:    "undefined reference",
			script:  `print "x" { message = ccdd.tables.Command.name }`,
			wantErr: "Unsupported attribute",
		},
		{
			name:    "syntax error",
			script:  `print "x" {`,
			wantErr: "report.hcl",
		},
		{
			name:    "unknown block",
			script:  `resource "x" {}`,
			wantErr: "Unsupported block type",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			dir := testutil.WriteScripts(t, map[string]string{"report.hcl": tc.script})
			outDir := t.TempDir()
			var printed testutil.SafeBuffer
			reg := newRegistry(&printed)

			// --- Act ---
			err := reg.Dispatch(context.Background(), filepath.Join(dir, "report.hcl"), demoHandler(outDir))

			// --- Assert ---
			if tc.wantErr != "" {
				var rtErr *engine.ScriptRuntimeError
				require.ErrorAs(t, err, &rtErr)
				assert.Equal(t, filepath.Join(dir, "report.hcl"), rtErr.Path)
				assert.ErrorContains(t, err, tc.wantErr)
				assert.NoFileExists(t, filepath.Join(outDir, "never.txt"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantPrinted, printed.String())
			for name, want := range tc.wantFiles {
				got, err := os.ReadFile(filepath.Join(outDir, name))
				require.NoError(t, err)
				assert.Equal(t, want, string(got))
			}
		})
	}
}

func TestEngine_OutputAppend(t *testing.T) {
	dir := testutil.WriteScripts(t, map[string]string{"log.hcl": `
output "log.txt" {
  content = "one\n"
}
output "log.txt" {
  content = "two\n"
  append  = true
}
`})
	outDir := t.TempDir()

	err := newRegistry(&testutil.SafeBuffer{}).Dispatch(context.Background(), filepath.Join(dir, "log.hcl"), demoHandler(outDir))

	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(outDir, "log.txt"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(got))
}

func TestEngine_EnvironmentVariables(t *testing.T) {
	t.Setenv("SCRIPTASSOC_TEST_TARGET", "flight")
	dir := testutil.WriteScripts(t, map[string]string{"env.hcl": `
print "target" {
  message = upper(env.SCRIPTASSOC_TEST_TARGET)
}
`})
	var printed testutil.SafeBuffer

	err := newRegistry(&printed).Dispatch(context.Background(), filepath.Join(dir, "env.hcl"), demoHandler(t.TempDir()))

	require.NoError(t, err)
	assert.Equal(t, "FLIGHT\n", printed.String())
}

func TestEngine_EnvironmentOverrides(t *testing.T) {
	// --- Arrange ---
	t.Setenv("SCRIPTASSOC_TEST_TARGET", "flight")
	dir := testutil.WriteScripts(t, map[string]string{"env.hcl": `
print "target" {
  message = "${env.SCRIPTASSOC_TEST_TARGET}/${env.ONLY_OVERRIDE}"
}
`})
	var printed testutil.SafeBuffer
	env := map[string]string{"SCRIPTASSOC_TEST_TARGET": "ground", "ONLY_OVERRIDE": "set"}

	// --- Act ---
	err := newRegistry(&printed).DispatchEnv(context.Background(), filepath.Join(dir, "env.hcl"), demoHandler(t.TempDir()), env)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "ground/set\n", printed.String())
}

func TestEngine_CancelledBeforeFirstBlock(t *testing.T) {
	dir := testutil.WriteScripts(t, map[string]string{"x.hcl": `print "x" { message = "hi" }`})
	var printed testutil.SafeBuffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newRegistry(&printed).Dispatch(ctx, filepath.Join(dir, "x.hcl"), demoHandler(t.TempDir()))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, printed.String())
}
