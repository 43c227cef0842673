package envexpand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrides(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  Overrides
		expectErr string
	}{
		{name: "empty", input: "", expected: Overrides{}},
		{name: "newline separated", input: "A=1\nB=two", expected: Overrides{"A": "1", "B": "two"}},
		{name: "semicolon separated", input: "A=1; B=/x/y", expected: Overrides{"A": "1", "B": "/x/y"}},
		{name: "comments and blanks", input: "# note\n\nA=1\n", expected: Overrides{"A": "1"}},
		{name: "quoted value", input: `A="hello world"`, expected: Overrides{"A": "hello world"}},
		{name: "missing equals", input: "A", expectErr: "missing '='"},
		{name: "missing key", input: "=1", expectErr: "has no name"},
		{name: "missing value", input: "A=1\nB=", expectErr: "\"B\" has no value"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseOverrides(tc.input)
			if tc.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestReadOverridesFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.env")
	bad := filepath.Join(dir, "bad.env")
	require.NoError(t, os.WriteFile(good, []byte("SCRIPTS=/opt/s\n"), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte("SCRIPTS=\n"), 0o600))

	o, err := ReadOverridesFile(good)
	require.NoError(t, err)
	assert.Equal(t, Overrides{"SCRIPTS": "/opt/s"}, o)

	_, err = ReadOverridesFile(bad)
	assert.Error(t, err)

	_, err = ReadOverridesFile(filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}

func TestOverrides_Environ(t *testing.T) {
	o := Overrides{"B": "override"}

	env := o.Environ([]string{"A=1", "B=base", "MALFORMED"})

	assert.Equal(t, map[string]string{"A": "1", "B": "override"}, env)
}

func TestOverrides_MergeAndString(t *testing.T) {
	merged := Overrides{"A": "1", "B": "2"}.Merge(Overrides{"B": "3"})

	assert.Equal(t, "A=1\nB=3", merged.String())
}
