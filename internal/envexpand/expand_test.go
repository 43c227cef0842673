package envexpand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	env := map[string]string{
		"HOME":    "/home/ops",
		"SCRIPTS": "/opt/scripts",
		"EMPTY":   "",
	}
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"no tokens", "/tmp/a.py", "/tmp/a.py"},
		{"bare token", "$SCRIPTS/a.py", "/opt/scripts/a.py"},
		{"braced token", "${HOME}/gen/${SCRIPTS}", "/home/ops/gen//opt/scripts"},
		{"unknown bare token kept", "$NOPE/a.py", "$NOPE/a.py"},
		{"unknown braced token kept", "${NOPE}/a.py", "${NOPE}/a.py"},
		{"empty value expands", "x$EMPTY.y", "x.y"},
		{"dollar before punctuation", "cost$/a", "cost$/a"},
		{"trailing dollar", "a$", "a$"},
		{"unterminated brace", "a${HOME", "a${HOME"},
		{"empty braces", "a${}b", "a${}b"},
		{"digit cannot start name", "$1abc", "$1abc"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Expand(tc.input, env))
		})
	}
}

func TestExpandPath_OverridesWin(t *testing.T) {
	t.Setenv("SCRIPTASSOC_TEST_DIR", "/from/process")

	got := ExpandPath("$SCRIPTASSOC_TEST_DIR/x.py", Overrides{"SCRIPTASSOC_TEST_DIR": "/from/override"})

	assert.Equal(t, "/from/override/x.py", got)
	assert.Equal(t, "/from/process/x.py", ExpandPath("$SCRIPTASSOC_TEST_DIR/x.py", nil))
}
