package coordinator

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vk/scriptassoc/internal/assoc"
	"github.com/vk/scriptassoc/internal/binding"
	"github.com/vk/scriptassoc/internal/ctxlog"
	"github.com/vk/scriptassoc/internal/envexpand"
	"github.com/vk/scriptassoc/internal/loader"
	"github.com/vk/scriptassoc/internal/resolver"
	"github.com/vk/scriptassoc/internal/schema"
)

// prepared is an association whose tables are loaded and ready to run.
type prepared struct {
	tables []*loader.LoadedTable
	types  map[string]*schema.TypeDefinition
	groups []string
}

// worker runs the loading and executing phases of one batch. Everything
// it builds is discarded with it.
type worker struct {
	cfg      *Config
	tracker  *tracker
	assns    []assoc.Association
	setState func(State)

	steps int
}

func (w *worker) run(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	total := len(w.assns)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered from panic in batch worker.", "panic", r, "stack", string(debug.Stack()))
			w.failAll(fmt.Errorf("unexpected failure: %v", r))
		}
	}()

	w.setState(Loading)
	batch := loader.NewBatch(w.cfg.Store)
	ranks, err := resolver.BuildRanks(ctx, w.cfg.Store)
	if err != nil {
		w.failAll(err)
		return
	}
	meta, err := w.cfg.Store.Metadata(ctx)
	if err != nil {
		w.failAll(fmt.Errorf("failed to read project metadata: %w", err))
		return
	}
	res := resolver.New(w.cfg.Store, w.cfg.Store)

	ready := make([]*prepared, total)
	for i, a := range w.assns {
		if ctx.Err() != nil {
			return
		}
		w.report("Loading tables for " + a.Label())
		p, err := w.prepare(ctx, batch, res, ranks, a)
		if err != nil {
			logger.Error("Association failed to load.", "association", a.Name, "error", err)
			w.tracker.record(i, err)
			continue
		}
		ready[i] = p
	}
	logger.Debug("Loading phase finished.", "fetches", batch.Fetches())

	w.setState(Executing)
	for i, a := range w.assns {
		if ctx.Err() != nil {
			return
		}
		w.report("Executing " + a.Label())
		if ready[i] == nil {
			continue
		}
		err := w.execute(ctx, a, ready[i], meta)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.Error("Association failed.", "association", a.Name, "script", a.ScriptPath, "error", err)
		} else {
			logger.Info("Association completed.", "association", a.Name, "script", a.ScriptPath)
		}
		w.tracker.record(i, err)
	}
	w.cfg.Progress.ReportProgress("Done", 1)
}

// report forwards progress. Each association counts one loading and one
// executing step.
func (w *worker) report(label string) {
	fraction := float64(w.steps) / float64(2*len(w.assns))
	w.steps++
	w.cfg.Progress.ReportProgress(label, fraction)
}

func (w *worker) failAll(err error) {
	for i := range w.assns {
		w.tracker.record(i, err)
	}
}

// prepare resolves members and loads every table, parents first. Tables
// are returned in member order.
func (w *worker) prepare(ctx context.Context, batch *loader.Batch, res *resolver.Resolver, ranks resolver.Ranks, a assoc.Association) (p *prepared, err error) {
	defer recoverPanic(ctx, a, &err)

	resolution, err := res.Resolve(ctx, a.Members)
	if err != nil {
		return nil, err
	}
	if err := resolution.Err(); err != nil {
		return nil, err
	}

	loaded := make(map[string]*loader.LoadedTable, len(resolution.Paths))
	for _, path := range ranks.Sort(resolution.Paths) {
		t, err := batch.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		loaded[path] = t
	}

	p = &prepared{
		types:  make(map[string]*schema.TypeDefinition),
		groups: resolution.Groups,
	}
	for _, path := range resolution.Paths {
		t := loaded[path]
		p.tables = append(p.tables, t)
		for _, row := range t.Rows {
			if _, ok := p.types[row.Type()]; ok {
				continue
			}
			def, err := w.cfg.Store.TypeDefinition(ctx, row.Type())
			if err != nil {
				return nil, &loader.TableLoadError{Path: path, Cause: err}
			}
			p.types[row.Type()] = def
		}
	}
	return p, nil
}

// execute builds a fresh access handler and dispatches the script.
func (w *worker) execute(ctx context.Context, a assoc.Association, p *prepared, meta *binding.Metadata) (err error) {
	defer recoverPanic(ctx, a, &err)

	script := envexpand.ExpandPath(a.ScriptPath, w.cfg.Overrides)
	access := binding.New(binding.Options{
		ScriptName:       script,
		OutputDir:        w.cfg.OutputDir,
		Tables:           binding.Combine(p.tables),
		Types:            p.types,
		AssociatedGroups: p.groups,
		Metadata:         meta,
		Now:              w.cfg.Now(),
	})
	return w.cfg.Registry.DispatchEnv(ctx, script, access, w.cfg.Overrides.Environ(os.Environ()))
}

// recoverPanic turns a panic into the association's error.
func recoverPanic(ctx context.Context, a assoc.Association, err *error) {
	if r := recover(); r != nil {
		ctxlog.FromContext(ctx).Error("Recovered from panic while running association.",
			"association", a.Name, "panic", r, "stack", string(debug.Stack()))
		*err = fmt.Errorf("unexpected failure: %v", r)
	}
}
