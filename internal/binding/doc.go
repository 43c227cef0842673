// Package binding builds the `ccdd` object a script sees: the combined
// table rows of its association grouped by generic type, plus project
// metadata such as groups, data fields and links. A Handler is created
// fresh for every script invocation and is never shared.
//
// Engines consume a Handler in one of two forms: a JSON Snapshot written
// for interpreter processes, or a cty value and function set for
// in-process HCL evaluation.
package binding
