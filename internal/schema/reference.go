package schema

import (
	"errors"
	"strings"
)

// ErrNoVariableColumn is returned when a structure row references a child
// type but the table type has no variable name column to name the child.
var ErrNoVariableColumn = errors.New("table type has no variable name column")

// IsArrayMember reports whether a variable name is an array element, such
// as `samples[3]`.
func IsArrayMember(variable string) bool {
	return strings.HasSuffix(variable, "]")
}

// ArrayIndexCount returns how many `[n]` index groups a variable name
// carries.
func ArrayIndexCount(variable string) int {
	return strings.Count(variable, "[")
}

// ArrayDimensions returns how many dimensions an array size cell declares,
// e.g. "2,3" declares two. A blank cell declares none.
func ArrayDimensions(arraySize string) int {
	arraySize = strings.TrimSpace(arraySize)
	if arraySize == "" {
		return 0
	}
	return strings.Count(arraySize, ",") + 1
}

// ChildReference decides whether a row of a table of type def points at a
// child table. It returns the child's data type and the variable holding it.
//
// A row references a child when the type has a data type column holding a
// non-primitive, non-blank value and the row is not an array definition.
// Array definition rows are skipped because each of their members is
// listed as its own row and is expanded instead. For multi-dimensional
// arrays only the fully indexed members are expanded.
func ChildReference(def *TypeDefinition, row []string, isPrimitive func(string) bool) (dataType, variable string, ok bool, err error) {
	dtCol := def.ColumnIndex(RoleDataType)
	if dtCol < 0 || dtCol >= len(row) {
		return "", "", false, nil
	}
	dataType = strings.TrimSpace(row[dtCol])
	if dataType == "" || isPrimitive(dataType) {
		return "", "", false, nil
	}

	varCol := def.ColumnIndex(RoleVariable)
	if varCol < 0 || varCol >= len(row) {
		return "", "", false, ErrNoVariableColumn
	}
	variable = strings.TrimSpace(row[varCol])
	if variable == "" {
		return "", "", false, nil
	}

	arrCol := def.ColumnIndex(RoleArraySize)
	if arrCol < 0 || arrCol >= len(row) {
		return dataType, variable, true, nil
	}
	dims := ArrayDimensions(row[arrCol])
	if dims == 0 {
		return dataType, variable, true, nil
	}
	if IsArrayMember(variable) && ArrayIndexCount(variable) == dims {
		return dataType, variable, true, nil
	}
	return "", "", false, nil
}
