// internal/tablepath/path_test.go
package tablepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_Navigation(t *testing.T) {
	// --- Arrange ---
	p := MustParse("A,B.b,C.c")

	// --- Act ---
	parent, ok := p.Parent()
	child := p.Child("D", "d[0]")
	ancestors := p.Ancestors()

	// --- Assert ---
	require.True(t, ok)
	assert.Equal(t, "A,B.b", parent.String())
	assert.Equal(t, "A,B.b,C.c,D.d[0]", child.String())
	assert.Equal(t, "A,B.b,C.c", p.String(), "Child must not modify the receiver")
	require.Len(t, ancestors, 2)
	assert.Equal(t, "A", ancestors[0].String())
	assert.Equal(t, "A,B.b", ancestors[1].String())
	assert.Equal(t, "C", p.Prototype())
	assert.Equal(t, "c", p.Variable())
	assert.Equal(t, 2, p.Depth())
}

func TestPath_Root(t *testing.T) {
	p := MustParse("A")

	_, ok := p.Parent()
	assert.False(t, ok)
	assert.True(t, p.IsRoot())
	assert.Equal(t, "A", p.Prototype())
	assert.Empty(t, p.Variable())
	assert.Empty(t, p.Ancestors())
}

func TestPath_HasPrototype(t *testing.T) {
	p := MustParse("A,B.b,C.c")

	assert.True(t, p.HasPrototype("A"))
	assert.True(t, p.HasPrototype("C"))
	assert.False(t, p.HasPrototype("b"))
	assert.False(t, p.HasPrototype("D"))
}

func TestPath_IsAncestorOf(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{"root of child", "A", "A,B.b", true},
		{"grandparent", "A", "A,B.b,C.c", true},
		{"self", "A,B.b", "A,B.b", false},
		{"sibling", "A,B.x", "A,B.b,C.c", false},
		{"other root", "X", "A,B.b", false},
		{"child of root", "A,B.b", "A", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MustParse(tc.a).IsAncestorOf(MustParse(tc.b)))
		})
	}
}

func TestParentString(t *testing.T) {
	assert.Equal(t, "A,B.b", ParentString("A,B.b,C.c"))
	assert.Equal(t, "", ParentString("A"))
}
