package app

import (
	"context"
	"fmt"

	"github.com/vk/scriptassoc/internal/assoc"
	"github.com/vk/scriptassoc/internal/availability"
	"github.com/vk/scriptassoc/internal/coordinator"
	"github.com/vk/scriptassoc/internal/progress"
	"github.com/vk/scriptassoc/internal/report"
	"github.com/vk/scriptassoc/internal/resolver"
)

// UnknownTitle is the sink title for execute entries naming no stored
// association.
const UnknownTitle = "Unrecognized association name"

// UnavailableTitle is the sink title for associations skipped because
// their script or tables are missing.
const UnavailableTitle = "Association Unavailable"

// ExecuteRequest selects the associations to run. Names and All pick
// stored associations; Execute uses the command-line list syntax.
type ExecuteRequest struct {
	Names   []string
	All     bool
	Execute string
	// Progress receives progress and cancel requests. Nil means none.
	Progress progress.Surface
}

// ExecuteSummary is what happened to every requested association.
type ExecuteSummary struct {
	Result      *coordinator.Result
	Unknown     []string
	Unavailable []assoc.Association
}

// Failed reports whether anything requested did not run successfully.
func (s *ExecuteSummary) Failed() bool {
	if len(s.Unknown) > 0 || len(s.Unavailable) > 0 {
		return true
	}
	return s.Result != nil && s.Result.Failed() > 0
}

// Execute runs the requested associations as one batch.
func (a *App) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteSummary, error) {
	ctx = a.context(ctx)
	logger := a.logger

	stored, err := a.store.RetrieveAssociations(ctx)
	if err != nil {
		return nil, err
	}
	selected, unknown := selectAssociations(stored, req)
	summary := &ExecuteSummary{Unknown: unknown}
	for _, name := range unknown {
		a.sink.LogFailure(UnknownTitle, fmt.Sprintf("Unrecognized association name '%s'", name))
	}

	statuses, err := a.checker().CheckAll(ctx, selected)
	if err != nil {
		return nil, err
	}
	runnable, unavailable := availability.Filter(selected, statuses)
	summary.Unavailable = unavailable
	for _, u := range unavailable {
		a.sink.LogFailure(UnavailableTitle, fmt.Sprintf("Association '%s' is unavailable (%s)", u.Name, statuses[u.Name]))
	}
	logger.Info("Associations selected.", "runnable", len(runnable), "unavailable", len(unavailable), "unknown", len(unknown))

	if len(runnable) == 0 {
		logger.Warn("No associations to execute.")
		return summary, nil
	}

	coord := coordinator.New(coordinator.Config{
		Store:     a.store,
		Registry:  a.registry,
		Overrides: a.overrides,
		Progress:  req.Progress,
		Sink:      a.sink,
		OutputDir: a.config.OutputDir,
		HaltGrace: a.config.HaltGrace,
	})
	summary.Result = coord.Run(ctx, runnable)

	entries := make([]report.Entry, len(summary.Result.Outcomes))
	for i, o := range summary.Result.Outcomes {
		entries[i] = report.Entry{Association: o.Association, Succeeded: o.Succeeded()}
	}
	report.Log(a.sink, entries)
	if summary.Result.Abandoned {
		a.sink.LogStatus("A script did not stop after cancellation; restart the application before running again.")
	}
	return summary, nil
}

// selectAssociations picks stored associations by name, all of them, or
// from an execute list. Ad-hoc associations get synthetic names so their
// availability can be tracked.
func selectAssociations(stored []assoc.Association, req ExecuteRequest) ([]assoc.Association, []string) {
	byName := make(map[string]assoc.Association, len(stored))
	for _, s := range stored {
		byName[s.Name] = s
	}
	lookup := func(name string) (assoc.Association, bool) {
		s, ok := byName[name]
		return s, ok
	}

	var selected []assoc.Association
	var unknown []string
	if req.All {
		selected = append(selected, stored...)
	}
	for _, name := range req.Names {
		s, ok := lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		selected = append(selected, s)
	}
	if req.Execute != "" {
		found, missing := assoc.ParseCommandLine(req.Execute, lookup)
		for i := range found {
			if found[i].Name == "" {
				found[i].Name = fmt.Sprintf("cmdline_%d", i+1)
			}
		}
		selected = append(selected, found...)
		unknown = append(unknown, missing...)
	}
	return selected, unknown
}

func (a *App) checker() *availability.Checker {
	return availability.New(a.store, resolver.New(a.store, a.store), a.overrides)
}
