package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func structureType() *TypeDefinition {
	return &TypeDefinition{
		Name:     "Structure",
		Category: CategoryStructure,
		Columns: []Column{
			{Name: "Variable Name", Role: RoleVariable},
			{Name: "Data Type", Role: RoleDataType},
			{Name: "Array Size", Role: RoleArraySize},
			{Name: "Description", Role: RoleDescription},
		},
	}
}

func isPrimitive(name string) bool {
	switch name {
	case "int8", "int16", "int32", "float", "double", "char":
		return true
	}
	return false
}

func TestChildReference(t *testing.T) {
	testCases := []struct {
		name         string
		row          []string
		expectOK     bool
		expectedType string
		expectedVar  string
	}{
		{name: "primitive row", row: []string{"count", "int32", "", ""}},
		{name: "blank data type", row: []string{"pad", "", "", ""}},
		{name: "plain child", row: []string{"hdr", "Header", "", ""}, expectOK: true, expectedType: "Header", expectedVar: "hdr"},
		{name: "array definition skipped", row: []string{"samples", "Sample", "3", ""}},
		{name: "array member expanded", row: []string{"samples[1]", "Sample", "3", ""}, expectOK: true, expectedType: "Sample", expectedVar: "samples[1]"},
		{name: "2d partial member skipped", row: []string{"grid[0]", "Cell", "2,2", ""}},
		{name: "2d full member expanded", row: []string{"grid[0][1]", "Cell", "2,2", ""}, expectOK: true, expectedType: "Cell", expectedVar: "grid[0][1]"},
		{name: "primitive array member", row: []string{"raw[0]", "char", "8", ""}},
		{name: "short row", row: []string{"x"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dt, v, ok, err := ChildReference(structureType(), tc.row, isPrimitive)

			require.NoError(t, err)
			assert.Equal(t, tc.expectOK, ok)
			assert.Equal(t, tc.expectedType, dt)
			assert.Equal(t, tc.expectedVar, v)
		})
	}
}

func TestChildReference_MissingVariableColumn(t *testing.T) {
	def := &TypeDefinition{
		Name:     "Odd",
		Category: CategoryStructure,
		Columns:  []Column{{Name: "Data Type", Role: RoleDataType}},
	}

	_, _, ok, err := ChildReference(def, []string{"Header"}, isPrimitive)

	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNoVariableColumn)
}

func TestChildReference_NoArrayColumn(t *testing.T) {
	def := structureType()
	def.Columns = def.Columns[:2]

	dt, v, ok, err := ChildReference(def, []string{"samples", "Sample"}, isPrimitive)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sample", dt)
	assert.Equal(t, "samples", v)
}
