package cli_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptassoc/internal/cli"
	"github.com/vk/scriptassoc/internal/testutil"
	"github.com/vk/scriptassoc/modules/hclscript"
)

func TestNewRootCommand_Subcommands(t *testing.T) {
	root := cli.NewRootCommand(&testutil.SafeBuffer{})

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"run", "list", "engines", "seed", "assoc"})
	for _, flag := range []string{"db", "engines", "env", "env-file", "output-dir", "halt-grace", "progress-url", "log-format", "log-level"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestExecute_Engines(t *testing.T) {
	// --- Arrange ---
	out := &testutil.SafeBuffer{}
	args := []string{"--db", filepath.Join(t.TempDir(), "p.db"), "engines"}

	// --- Act ---
	err := cli.Execute(context.Background(), out, args, &hclscript.Module{Output: out})

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Hcl: 2 (built-in)\n  Hcl files (*.hcl)\n")
}

func TestExecute_ProgressServerUnreachable(t *testing.T) {
	// --- Arrange ---
	out := &testutil.SafeBuffer{}
	args := []string{
		"--db", filepath.Join(t.TempDir(), "p.db"),
		"--progress-url", "ftp://",
		"run", "--all",
	}

	// --- Act ---
	err := cli.Execute(context.Background(), out, args, &hclscript.Module{Output: out})

	// --- Assert ---
	assert.ErrorContains(t, err, "must include scheme and host")
}

func TestExitError(t *testing.T) {
	err := &cli.ExitError{Code: 3, Message: "boom"}
	assert.Equal(t, "boom", err.Error())
}
