package resolver

import (
	"context"
	"fmt"
	"sort"
)

// Ranks maps a table path to its position in the full table tree.
type Ranks map[string]int

// BuildRanks lists the table tree once and indexes it.
func BuildRanks(ctx context.Context, tree TableTree) (Ranks, error) {
	paths, err := tree.TableTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list table tree: %w", err)
	}
	ranks := make(Ranks, len(paths))
	for i, p := range paths {
		if _, ok := ranks[p]; !ok {
			ranks[p] = i
		}
	}
	return ranks, nil
}

// Contains reports whether path is part of the table tree.
func (r Ranks) Contains(path string) bool {
	_, ok := r[path]
	return ok
}

// Sort returns a copy of paths ordered by tree position. Paths outside the
// tree keep their relative order and sort last.
func (r Ranks) Sort(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	rank := func(p string) int {
		if i, ok := r[p]; ok {
			return i
		}
		return len(r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i]) < rank(out[j])
	})
	return out
}
