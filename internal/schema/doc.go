// Package schema describes table types: their ordered columns, the role
// each column plays (variable name, data type, array size and so on), and
// the generic category a type belongs to. It also holds the rule that
// decides whether a structure row references a child table.
package schema
