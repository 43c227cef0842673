// internal/tablepath/doc.go

/*
Package tablepath provides a structured representation of table instance
paths, based on the canonical format `root[,dataType.variable]*`.

A root table is named by its prototype, e.g. `Telemetry`. A child instance
reached through a structure variable appends a segment naming the child's
data type and the variable that holds it, e.g.
`Telemetry,Header.hdr,Time.stamp[0]`.

The prefix of a child path (up to the last comma) always names the parent
instance, which is what keeps recursive expansion well-ordered.
*/
package tablepath
