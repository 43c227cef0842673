package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeDefinition_GenericType(t *testing.T) {
	testCases := []struct {
		name     string
		def      TypeDefinition
		expected string
	}{
		{"structure subtype", TypeDefinition{Name: "Telemetry Structure", Category: CategoryStructure}, TypeStructure},
		{"command subtype", TypeDefinition{Name: "Uplink", Category: CategoryCommand}, TypeCommand},
		{"other keeps its name", TypeDefinition{Name: "Limits", Category: CategoryOther}, "Limits"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.def.GenericType())
		})
	}
}

func TestTypeDefinition_ColumnLookup(t *testing.T) {
	def := structureType()

	assert.Equal(t, 0, def.ColumnIndex(RoleVariable))
	assert.Equal(t, 2, def.ColumnIndex(RoleArraySize))
	assert.Equal(t, -1, def.ColumnIndex(RoleUnits))
	assert.Equal(t, 1, def.ColumnIndexByName("data type"))
	assert.Equal(t, -1, def.ColumnIndexByName("Rate"))
	assert.Equal(t, []string{"Variable Name", "Data Type", "Array Size", "Description"}, def.ColumnNames())
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("Array_Size")
	require.NoError(t, err)
	assert.Equal(t, RoleArraySize, r)

	r, err = ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleOther, r)

	_, err = ParseRole("bogus")
	assert.Error(t, err)

	for role := range roleNames {
		back, err := ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, back)
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Structure")
	require.NoError(t, err)
	assert.Equal(t, CategoryStructure, c)

	_, err = ParseCategory("table")
	assert.Error(t, err)
}

func TestArrayHelpers(t *testing.T) {
	assert.True(t, IsArrayMember("a[0]"))
	assert.False(t, IsArrayMember("a"))
	assert.Equal(t, 2, ArrayIndexCount("a[0][1]"))
	assert.Equal(t, 0, ArrayDimensions(" "))
	assert.Equal(t, 3, ArrayDimensions("2,3,4"))
}
