// Package store persists the project catalog in SQLite: table types and
// their columns, primitive data types, table prototypes and their rows,
// per-instance custom values, groups, data fields, links and script
// associations. It implements the table, group and association stores the
// rest of the module reads from, and can be seeded from a YAML fixture.
package store
