// internal/tablepath/parser.go
package tablepath

import (
	"fmt"
	"strings"
)

// Parse creates a Path by parsing its canonical string representation.
func Parse(raw string) (Path, error) {
	if strings.TrimSpace(raw) == "" {
		return Path{}, fmt.Errorf("table path cannot be empty")
	}

	parts := strings.Split(raw, Separator)
	root := parts[0]
	if root == "" {
		return Path{}, fmt.Errorf("table path %q has an empty root", raw)
	}
	if strings.Contains(root, VariableSeparator) {
		return Path{}, fmt.Errorf("invalid root table name: %q", root)
	}

	p := Path{Root: root}
	for _, part := range parts[1:] {
		if part == "" {
			return Path{}, fmt.Errorf("table path %q contains an empty segment", raw)
		}
		dataType, variable, ok := strings.Cut(part, VariableSeparator)
		if !ok || dataType == "" || variable == "" || strings.Contains(variable, VariableSeparator) {
			return Path{}, fmt.Errorf("invalid path segment format: %q", part)
		}
		p.Segments = append(p.Segments, Segment{DataType: dataType, Variable: variable})
	}
	return p, nil
}

// MustParse is like Parse but panics on error. It is intended for tests and
// static initialisation.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}
