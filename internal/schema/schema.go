package schema

import (
	"fmt"
	"strings"
)

// Generic type names. Any type that is neither a structure nor a command
// keeps its own name as its generic type.
const (
	TypeStructure = "Structure"
	TypeCommand   = "Command"
)

// Role identifies what a column holds.
type Role int

const (
	RoleOther Role = iota
	RoleVariable
	RoleDataType
	RoleArraySize
	RoleBitLength
	RoleDescription
	RoleUnits
)

var roleNames = map[Role]string{
	RoleOther:       "other",
	RoleVariable:    "variable",
	RoleDataType:    "data_type",
	RoleArraySize:   "array_size",
	RoleBitLength:   "bit_length",
	RoleDescription: "description",
	RoleUnits:       "units",
}

// String returns the role's storage name.
func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ParseRole converts a storage name back into a Role. An empty string is
// RoleOther.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleOther, nil
	}
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return RoleOther, fmt.Errorf("unknown column role %q", s)
}

// Category groups table types into the closed set scripts see.
type Category int

const (
	CategoryOther Category = iota
	CategoryStructure
	CategoryCommand
)

// String returns the category's storage name.
func (c Category) String() string {
	switch c {
	case CategoryStructure:
		return "structure"
	case CategoryCommand:
		return "command"
	default:
		return "other"
	}
}

// ParseCategory converts a storage name back into a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "structure":
		return CategoryStructure, nil
	case "command":
		return CategoryCommand, nil
	case "", "other":
		return CategoryOther, nil
	}
	return CategoryOther, fmt.Errorf("unknown table type category %q", s)
}

// Column is one column of a table type.
type Column struct {
	Name string
	Role Role
}

// TypeDefinition describes a table type.
type TypeDefinition struct {
	Name     string
	Category Category
	Columns  []Column
}

// IsStructure reports whether tables of this type may reference children.
func (t *TypeDefinition) IsStructure() bool {
	return t.Category == CategoryStructure
}

// IsCommand reports whether this is a command table type.
func (t *TypeDefinition) IsCommand() bool {
	return t.Category == CategoryCommand
}

// GenericType returns the bucket name rows of this type are combined under.
func (t *TypeDefinition) GenericType() string {
	switch t.Category {
	case CategoryStructure:
		return TypeStructure
	case CategoryCommand:
		return TypeCommand
	default:
		return t.Name
	}
}

// ColumnIndex returns the index of the first column with the given role,
// or -1.
func (t *TypeDefinition) ColumnIndex(role Role) int {
	for i, c := range t.Columns {
		if c.Role == role {
			return i
		}
	}
	return -1
}

// ColumnIndexByName returns the index of the named column, matched
// case-insensitively, or -1.
func (t *TypeDefinition) ColumnIndexByName(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

// ColumnNames returns the column names in order.
func (t *TypeDefinition) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
