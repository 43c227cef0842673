package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptassoc/internal/cli"
	"github.com/vk/scriptassoc/internal/engine"
	"github.com/vk/scriptassoc/internal/testutil"
)

type panicModule struct{}

func (panicModule) Register(*engine.Registry) { panic("engine table corrupted") }

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--db", filepath.Join(t.TempDir(), "p.db"), "engines"}
	out := &testutil.SafeBuffer{}

	// --- Act ---
	runErr := run(out, args, panicModule{})

	// --- Assert ---
	require.Error(t, runErr)
	assert.Contains(t, runErr.Error(), "application panicked")
	assert.Contains(t, runErr.Error(), "engine table corrupted")
}

func TestRun_Help(t *testing.T) {
	t.Parallel()
	out := &testutil.SafeBuffer{}

	err := run(out, []string{"--help"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "assoc")
}

func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()
	db := filepath.Join(t.TempDir(), "p.db")
	badManifest := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(badManifest, []byte(`engine "x" {`), 0o644))

	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown flag", []string{"--this-is-not-a-valid-flag"}, "unknown flag: --this-is-not-a-valid-flag"},
		{"unknown command", []string{"frobnicate"}, "unknown command"},
		{"missing db", []string{"list"}, "DBPath"},
		{"bad log level", []string{"--db", db, "--log-level", "loud", "list"}, "invalid log-level"},
		{"seed without file", []string{"--db", db, "seed"}, "accepts 1 arg(s)"},
		{"run without selection", []string{"--db", db, "run"}, "nothing to run"},
		{"bad env override", []string{"--db", db, "--env", "NOVALUE", "list"}, `environment override "NOVALUE" is missing '='`},
		{"bad engine manifest", []string{"--db", db, "--engines", badManifest, "list"}, "failed to load engine manifests"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Act ---
			err := run(&testutil.SafeBuffer{}, tc.args)

			// --- Assert ---
			var exitErr *cli.ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}

func TestRun_EndToEnd(t *testing.T) {
	// --- Arrange ---
	db := filepath.Join(t.TempDir(), "p.db")
	outDir := t.TempDir()
	scripts := testutil.WriteScripts(t, map[string]string{
		"count.hcl": `output "count.txt" { content = format("%d", ccdd_num_rows("Structure")) }`,
		"fail.hcl":  `check "never" { condition = false }`,
	})
	base := []string{"--db", db, "--output-dir", outDir, "--env", "SCRIPTS=" + scripts}
	fixture := filepath.Join("..", "..", "internal", "store", "testdata", "demo.yaml")
	out := &testutil.SafeBuffer{}

	// --- Act & Assert ---
	require.NoError(t, run(out, append(base, "seed", fixture)))

	require.NoError(t, run(out, append(base, "assoc", "add", "count", "${SCRIPTS}/count.hcl", "TableA + Cmds")))
	require.NoError(t, run(out, append(base, "assoc", "add", "fail", "${SCRIPTS}/fail.hcl", "TableA")))
	dupErr := run(out, append(base, "assoc", "add", "count", "${SCRIPTS}/count.hcl"))
	assert.ErrorContains(t, dupErr, "already exists")

	require.NoError(t, run(out, append(base, "list")))
	assert.Contains(t, out.String(), "SCRIPT_MISSING")
	assert.Contains(t, out.String(), "TableA, Cmds")

	require.NoError(t, run(out, append(base, "run", "count")))
	written, err := os.ReadFile(filepath.Join(outDir, "count.txt"))
	require.NoError(t, err)
	assert.Equal(t, "3", string(written))
	assert.Contains(t, out.String(), "[100%] Done")

	failErr := run(out, append(base, "run", "count", "fail"))
	var exitErr *cli.ExitError
	require.ErrorAs(t, failErr, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, out.String(), "Following script(s) failed to execute: '${SCRIPTS}/fail.hcl : TableA'")

	require.NoError(t, run(out, append(base, "assoc", "delete", "fail")))
	assert.Error(t, run(out, append(base, "assoc", "delete", "fail")))
}
