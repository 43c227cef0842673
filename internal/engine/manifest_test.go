package engine_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptassoc/internal/engine"
)

const pythonManifest = `
engine "python" {
  description = "CPython interpreter"
  version     = "3.12"
  extensions  = ["py"]
  command     = ["python3", "-u"]
  env = {
    PYTHONDONTWRITEBYTECODE = "1"
  }
}
`

const nodeManifest = `
engine "ecmascript" {
  extensions = ["js", "mjs"]
  command    = ["node"]
}
`

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadManifests(t *testing.T) {
	ctx := context.Background()

	t.Run("directory", func(t *testing.T) {
		// --- Arrange ---
		dir := t.TempDir()
		writeManifest(t, dir, "python.hcl", pythonManifest)
		writeManifest(t, dir, "node.hcl", nodeManifest)
		writeManifest(t, dir, "readme.txt", "not a manifest")

		// --- Act ---
		manifests, err := engine.LoadManifests(ctx, dir)

		// --- Assert ---
		require.NoError(t, err)
		require.Len(t, manifests, 2)
		infos := []engine.Info{manifests[0].Info, manifests[1].Info}
		expected := []engine.Info{
			{Name: "ecmascript", Command: []string{"node"}, Extensions: []string{"js", "mjs"}},
			{Name: "python", Description: "CPython interpreter", Version: "3.12", Command: []string{"python3", "-u"}, Extensions: []string{"py"}},
		}
		if diff := cmp.Diff(expected, infos); diff != "" {
			t.Errorf("manifest infos mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, map[string]string{"PYTHONDONTWRITEBYTECODE": "1"}, manifests[1].Env)
	})

	t.Run("single file", func(t *testing.T) {
		p := writeManifest(t, t.TempDir(), "python.hcl", pythonManifest)
		manifests, err := engine.LoadManifests(ctx, p)
		require.NoError(t, err)
		require.Len(t, manifests, 1)
		assert.Equal(t, p, manifests[0].Source)
	})

	t.Run("missing path yields nothing", func(t *testing.T) {
		manifests, err := engine.LoadManifests(ctx, filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Empty(t, manifests)
	})

	t.Run("empty path yields nothing", func(t *testing.T) {
		manifests, err := engine.LoadManifests(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, manifests)
	})
}

func TestLoadManifests_Invalid(t *testing.T) {
	testCases := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"syntax error", "bad.hcl", `engine "x" {`, "failed to parse"},
		{"missing command", "bad.hcl", `engine "x" { extensions = ["x"] }`, "failed to decode"},
		{"empty command", "bad.hcl", `engine "x" {
  extensions = ["x"]
  command    = []
}`, "empty command"},
		{"no extensions", "bad.hcl", `engine "x" {
  extensions = []
  command    = ["x"]
}`, "declares no extensions"},
		{"wrong file type", "engines.toml", ``, "not an .hcl file"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := writeManifest(t, t.TempDir(), tc.file, tc.content)
			_, err := engine.LoadManifests(context.Background(), p)
			assert.ErrorContains(t, err, tc.contains)
		})
	}
}

func TestManifest_Registration(t *testing.T) {
	var out bytes.Buffer
	m := engine.Manifest{
		Info: engine.Info{Name: "python", Command: []string{"python3"}, Extensions: []string{"py"}},
		Env:  map[string]string{"A": "1"},
	}

	reg := m.Registration(&out)
	first, second := reg.New(), reg.New()

	assert.NotSame(t, first, second)
	proc, ok := first.(*engine.ProcessEngine)
	require.True(t, ok)
	assert.Equal(t, []string{"python3"}, proc.Command)
	assert.Equal(t, map[string]string{"A": "1"}, proc.Env)
	assert.Same(t, &out, proc.Output)
}
