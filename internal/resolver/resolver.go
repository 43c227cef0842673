package resolver

import (
	"context"
	"fmt"

	"github.com/vk/scriptassoc/internal/assoc"
	"github.com/vk/scriptassoc/internal/ctxlog"
)

// GroupStore looks up groups by name. The bool result is false when the
// group does not exist.
type GroupStore interface {
	GroupByName(ctx context.Context, name string) (*Group, bool, error)
}

// TableTree lists the tables known to the schema.
type TableTree interface {
	// RootTables returns every root table, in schema order.
	RootTables(ctx context.Context) ([]string, error)
	// TableTree returns every table instance path, each parent listed
	// before its children, in schema order.
	TableTree(ctx context.Context) ([]string, error)
}

// Resolution is the result of resolving one member spec.
type Resolution struct {
	// Paths holds the resolved table paths in declaration order.
	Paths []string
	// Groups holds the referenced group names, including missing ones.
	Groups []string
	// MissingGroups holds referenced groups that do not exist.
	MissingGroups []string
}

// Err returns an UnresolvedGroupError for the first missing group, or nil.
func (r *Resolution) Err() error {
	if len(r.MissingGroups) == 0 {
		return nil
	}
	return &UnresolvedGroupError{Group: r.MissingGroups[0]}
}

// Resolver expands member specs.
type Resolver struct {
	groups GroupStore
	tree   TableTree
}

// New creates a Resolver.
func New(groups GroupStore, tree TableTree) *Resolver {
	return &Resolver{groups: groups, tree: tree}
}

// Resolve expands spec into table paths. Missing groups do not fail the
// call: InvalidPath is injected and the group is listed in MissingGroups.
func (r *Resolver) Resolve(ctx context.Context, spec string) (*Resolution, error) {
	logger := ctxlog.FromContext(ctx)
	res := &Resolution{}
	seen := make(map[string]struct{})
	add := func(paths ...string) {
		for _, p := range paths {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			res.Paths = append(res.Paths, p)
		}
	}

	for _, m := range assoc.ParseMembers(spec) {
		switch {
		case m.IsAllTables():
			res.Groups = append(res.Groups, m.Value)
			roots, err := r.tree.RootTables(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to list root tables: %w", err)
			}
			add(roots...)

		case m.IsGroup:
			res.Groups = append(res.Groups, m.Value)
			g, ok, err := r.groups.GroupByName(ctx, m.Value)
			if err != nil {
				return nil, fmt.Errorf("failed to read group '%s': %w", m.Value, err)
			}
			if !ok {
				logger.Warn("Association references an unknown group.", "group", m.Value)
				res.MissingGroups = append(res.MissingGroups, m.Value)
				add(InvalidPath)
				continue
			}
			add(g.TablesAndAncestors()...)

		default:
			add(m.Value)
		}
	}

	logger.Debug("Member spec resolved.", "spec", spec, "paths", len(res.Paths))
	return res, nil
}
