// internal/tablepath/path.go
package tablepath

import "strings"

const (
	// Separator joins the root and each child segment.
	Separator = ","
	// VariableSeparator joins a segment's data type and variable name.
	VariableSeparator = "."
)

// String renders the path in its canonical form.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString(p.Root)
	for _, seg := range p.Segments {
		b.WriteString(Separator)
		b.WriteString(seg.String())
	}
	return b.String()
}

// IsRoot reports whether the path names a root table.
func (p Path) IsRoot() bool {
	return len(p.Segments) == 0
}

// Depth is the number of child hops below the root.
func (p Path) Depth() int {
	return len(p.Segments)
}

// Prototype returns the name of the table whose rows back this instance:
// the data type of the last segment, or the root itself.
func (p Path) Prototype() string {
	if len(p.Segments) == 0 {
		return p.Root
	}
	return p.Segments[len(p.Segments)-1].DataType
}

// Variable returns the variable name of the last segment, or "" for a root.
func (p Path) Variable() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1].Variable
}

// Parent returns the path with its last segment removed. The second return
// value is false for a root path.
func (p Path) Parent() (Path, bool) {
	if len(p.Segments) == 0 {
		return Path{}, false
	}
	return Path{Root: p.Root, Segments: p.Segments[:len(p.Segments)-1]}, true
}

// Child returns a new path one level below p. The receiver is not modified.
func (p Path) Child(dataType, variable string) Path {
	segs := make([]Segment, len(p.Segments), len(p.Segments)+1)
	copy(segs, p.Segments)
	return Path{Root: p.Root, Segments: append(segs, Segment{DataType: dataType, Variable: variable})}
}

// Ancestors returns every proper ancestor of p, root first.
func (p Path) Ancestors() []Path {
	out := make([]Path, 0, len(p.Segments))
	for i := 0; i < len(p.Segments); i++ {
		out = append(out, Path{Root: p.Root, Segments: p.Segments[:i]})
	}
	return out
}

// HasPrototype reports whether name already appears as the root or as the
// data type of any segment.
func (p Path) HasPrototype(name string) bool {
	if p.Root == name {
		return true
	}
	for _, seg := range p.Segments {
		if seg.DataType == name {
			return true
		}
	}
	return false
}

// Equal reports whether two paths are identical.
func (p Path) Equal(other Path) bool {
	if p.Root != other.Root || len(p.Segments) != len(other.Segments) {
		return false
	}
	for i := range p.Segments {
		if p.Segments[i] != other.Segments[i] {
			return false
		}
	}
	return true
}

// IsAncestorOf reports whether p is a proper ancestor of other.
func (p Path) IsAncestorOf(other Path) bool {
	if p.Root != other.Root || len(p.Segments) >= len(other.Segments) {
		return false
	}
	for i := range p.Segments {
		if p.Segments[i] != other.Segments[i] {
			return false
		}
	}
	return true
}

// ParentString returns the raw parent prefix of a path string without
// validating it, or "" when the path has no comma.
func ParentString(raw string) string {
	if i := strings.LastIndex(raw, Separator); i >= 0 {
		return raw[:i]
	}
	return ""
}
