package resolver

import (
	"fmt"

	"github.com/vk/scriptassoc/internal/tablepath"
)

// InvalidPath is injected in place of a group that does not exist. It never
// names a table, so the owning association is flagged unavailable.
const InvalidPath = " "

// Group is a named collection of table paths.
type Group struct {
	Name        string
	Description string
	// Tables lists member paths as stored.
	Tables []string
}

// TablesAndAncestors returns every member path preceded by its ancestors,
// root first, without duplicates.
func (g *Group) TablesAndAncestors() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, raw := range g.Tables {
		p, err := tablepath.Parse(raw)
		if err != nil {
			add(raw)
			continue
		}
		for _, anc := range p.Ancestors() {
			add(anc.String())
		}
		add(raw)
	}
	return out
}

// UnresolvedGroupError reports a member spec naming a group that does not
// exist.
type UnresolvedGroupError struct {
	Group string
}

// Error implements the error interface.
func (e *UnresolvedGroupError) Error() string {
	return fmt.Sprintf("group '%s' does not exist", e.Group)
}
