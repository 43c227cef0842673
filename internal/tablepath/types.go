// internal/tablepath/types.go
package tablepath

// Segment is one child hop of a path: the data type (prototype) of the
// child and the variable in the parent that holds it.
type Segment struct {
	DataType string
	Variable string
}

// String renders the segment as `dataType.variable`.
func (s Segment) String() string {
	return s.DataType + "." + s.Variable
}

// Path is the structured representation of a table instance path.
type Path struct {
	Root     string
	Segments []Segment
}
