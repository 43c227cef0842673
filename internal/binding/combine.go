package binding

import (
	"github.com/vk/scriptassoc/internal/loader"
	"github.com/vk/scriptassoc/internal/tablepath"
)

// TableInfo is the combined row set of one generic type for one
// association.
type TableInfo struct {
	// Type is the generic type, e.g. Structure.
	Type string
	// Name is the path of the first table contributing rows.
	Name string
	Rows []loader.Row
}

// Combine groups loaded tables by generic type, preserving the order the
// tables are given in. A table whose ancestor is also present is skipped
// since the ancestor's rows already include it.
func Combine(tables []*loader.LoadedTable) []TableInfo {
	parsed := make([]tablepath.Path, len(tables))
	valid := make([]bool, len(tables))
	for i, t := range tables {
		p, err := tablepath.Parse(t.Path)
		parsed[i], valid[i] = p, err == nil
	}

	var out []TableInfo
	index := make(map[string]int)
	for i, t := range tables {
		if valid[i] && hasAncestorIn(parsed[i], parsed, valid) {
			continue
		}
		j, ok := index[t.GenericType]
		if !ok {
			j = len(out)
			index[t.GenericType] = j
			out = append(out, TableInfo{Type: t.GenericType, Name: t.Path})
		}
		out[j].Rows = append(out[j].Rows, t.Rows...)
	}
	return out
}

func hasAncestorIn(p tablepath.Path, all []tablepath.Path, valid []bool) bool {
	for i, other := range all {
		if valid[i] && other.IsAncestorOf(p) {
			return true
		}
	}
	return false
}
