package loader

import (
	"context"
	"fmt"

	"github.com/vk/scriptassoc/internal/ctxlog"
	"github.com/vk/scriptassoc/internal/tablepath"
)

type cacheEntry struct {
	table *LoadedTable
	err   error
}

// Batch is the load cache for one execution batch. It is owned by a single
// worker and must not be shared across batches.
type Batch struct {
	store   TableStore
	entries map[string]cacheEntry
	fetches int
}

// NewBatch creates an empty batch cache backed by store.
func NewBatch(store TableStore) *Batch {
	return &Batch{
		store:   store,
		entries: make(map[string]cacheEntry),
	}
}

// Fetches returns how many times the batch has gone to the table store.
func (b *Batch) Fetches() int {
	return b.fetches
}

// Cached returns a previously loaded table without loading it.
func (b *Batch) Cached(path string) (*LoadedTable, bool) {
	e, ok := b.entries[path]
	if !ok || e.err != nil {
		return nil, false
	}
	return e.table, true
}

// Load returns the table at path with its children expanded. Every path is
// fetched at most once per batch; failures are cached as well so that all
// associations referencing a broken table fail the same way.
func (b *Batch) Load(ctx context.Context, rawPath string) (*LoadedTable, error) {
	if e, ok := b.entries[rawPath]; ok {
		ctxlog.FromContext(ctx).Debug("Table served from batch cache.", "path", rawPath)
		return e.table, e.err
	}

	path, err := tablepath.Parse(rawPath)
	if err != nil {
		lerr := &TableLoadError{Path: rawPath, Cause: err}
		b.entries[rawPath] = cacheEntry{err: lerr}
		return nil, lerr
	}

	table, err := b.load(ctx, path)
	if err != nil {
		lerr := asLoadError(rawPath, err)
		b.entries[rawPath] = cacheEntry{err: lerr}
		return nil, lerr
	}
	return table, nil
}

// load fetches one instance and recurses into its children. Every visited
// path is cached under its own key, failures included, so a later request
// for any of them is a cache hit.
func (b *Batch) load(ctx context.Context, path tablepath.Path) (*LoadedTable, error) {
	key := path.String()
	if e, ok := b.entries[key]; ok {
		return e.table, e.err
	}
	table, err := b.fetch(ctx, key, path)
	if err != nil {
		err = asLoadError(key, err)
		b.entries[key] = cacheEntry{err: err}
		return nil, err
	}
	b.entries[key] = cacheEntry{table: table}
	return table, nil
}

func (b *Batch) fetch(ctx context.Context, key string, path tablepath.Path) (*LoadedTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading table.", "path", key)

	b.fetches++
	data, err := b.store.LoadTableData(ctx, path)
	if err != nil {
		return nil, &TableLoadError{Path: key, Cause: err}
	}
	def, err := b.store.TypeDefinition(ctx, data.Type)
	if err != nil {
		return nil, &TableLoadError{Path: key, Cause: err}
	}

	table := &LoadedTable{
		Path:        key,
		Type:        data.Type,
		GenericType: def.GenericType(),
	}
	isPrimitive := b.primitiveFunc(ctx)

	for _, cells := range data.Rows {
		table.Rows = append(table.Rows, NewRow(cells, data.Type, key))
		if !def.IsStructure() {
			continue
		}

		dataType, variable, ok, err := childReference(def, cells, isPrimitive)
		if err != nil {
			return nil, &TableLoadError{Path: key, Cause: err}
		}
		if !ok {
			continue
		}
		if path.HasPrototype(dataType) {
			return nil, &TableLoadError{Path: key, Cause: fmt.Errorf("cyclic reference to '%s'", dataType)}
		}

		child, err := b.load(ctx, path.Child(dataType, variable))
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, child.Rows...)
	}

	logger.Debug("Table loaded.", "path", key, "rows", len(table.Rows))
	return table, nil
}

// primitiveFunc adapts the store's primitive lookup to the schema helper,
// remembering the first error so it is not silently dropped.
func (b *Batch) primitiveFunc(ctx context.Context) *primitiveLookup {
	return &primitiveLookup{ctx: ctx, store: b.store}
}

// asLoadError makes sure the error returned to callers names the requested
// path, keeping the deeper cause.
func asLoadError(path string, err error) error {
	if lerr, ok := err.(*TableLoadError); ok && lerr.Path == path {
		return lerr
	}
	return &TableLoadError{Path: path, Cause: err}
}
