// Package envexpand expands $VAR and ${VAR} tokens in script paths using
// the process environment overlaid with a user-supplied override map.
// Overrides are parsed and validated up front so a malformed entry is
// reported before any batch starts.
package envexpand
