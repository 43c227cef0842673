package availability

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/scriptassoc/internal/assoc"
	"github.com/vk/scriptassoc/internal/ctxlog"
	"github.com/vk/scriptassoc/internal/envexpand"
	"github.com/vk/scriptassoc/internal/resolver"
)

// TableCatalog answers whether a table path exists.
type TableCatalog interface {
	resolver.TableTree
	TableExists(ctx context.Context, path string) (bool, error)
}

// Checker derives association availability.
type Checker struct {
	tables    TableCatalog
	resolver  *resolver.Resolver
	overrides envexpand.Overrides
}

// New creates a Checker. The overrides are applied when expanding script
// paths; build a new Checker when they change.
func New(tables TableCatalog, r *resolver.Resolver, overrides envexpand.Overrides) *Checker {
	return &Checker{tables: tables, resolver: r, overrides: overrides}
}

// CheckAll returns the status of every association, keyed by name.
func (c *Checker) CheckAll(ctx context.Context, assns []assoc.Association) (map[string]assoc.Status, error) {
	logger := ctxlog.FromContext(ctx)

	known, err := resolver.BuildRanks(ctx, c.tables)
	if err != nil {
		return nil, err
	}

	out := make(map[string]assoc.Status, len(assns))
	for _, a := range assns {
		status, err := c.check(ctx, a, known)
		if err != nil {
			return nil, fmt.Errorf("check association '%s': %w", a.Name, err)
		}
		if status != assoc.Available {
			logger.Debug("Association unavailable.", "association", a.Name, "status", status.String())
		}
		out[a.Name] = status
	}
	return out, nil
}

// Check returns the status of a single association.
func (c *Checker) Check(ctx context.Context, a assoc.Association) (assoc.Status, error) {
	known, err := resolver.BuildRanks(ctx, c.tables)
	if err != nil {
		return assoc.TableMissing, err
	}
	return c.check(ctx, a, known)
}

func (c *Checker) check(ctx context.Context, a assoc.Association, known resolver.Ranks) (assoc.Status, error) {
	if !scriptReadable(envexpand.ExpandPath(a.ScriptPath, c.overrides)) {
		return assoc.ScriptMissing, nil
	}

	res, err := c.resolver.Resolve(ctx, a.Members)
	if err != nil {
		return assoc.TableMissing, err
	}
	if len(res.MissingGroups) > 0 {
		return assoc.TableMissing, nil
	}
	for _, p := range res.Paths {
		if p == resolver.InvalidPath {
			return assoc.TableMissing, nil
		}
		if known.Contains(p) {
			continue
		}
		ok, err := c.tables.TableExists(ctx, p)
		if err != nil {
			return assoc.TableMissing, err
		}
		if !ok {
			return assoc.TableMissing, nil
		}
	}
	return assoc.Available, nil
}

func scriptReadable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	fh, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = fh.Close()
	return true
}

// Filter splits associations into those that can run and those that
// cannot, preserving order.
func Filter(assns []assoc.Association, statuses map[string]assoc.Status) (runnable, unavailable []assoc.Association) {
	for _, a := range assns {
		if statuses[a.Name] == assoc.Available {
			runnable = append(runnable, a)
		} else {
			unavailable = append(unavailable, a)
		}
	}
	return runnable, unavailable
}
