// Package resolver expands an association's member spec into a flat,
// de-duplicated list of table paths. Group references expand to their
// member tables together with each member's ancestors, and the universal
// pseudo-group expands to every root table. A Ranks map orders paths the
// way they appear in the full table tree so parents always load first.
package resolver
