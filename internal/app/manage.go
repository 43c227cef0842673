package app

import (
	"context"
	"fmt"

	"github.com/vk/scriptassoc/internal/assoc"
	"github.com/vk/scriptassoc/internal/engine"
	"github.com/vk/scriptassoc/internal/store"
)

// Listing is a stored association with its current availability.
type Listing struct {
	Association assoc.Association
	Status      assoc.Status
}

// List returns every stored association with its availability.
func (a *App) List(ctx context.Context) ([]Listing, error) {
	ctx = a.context(ctx)
	stored, err := a.store.RetrieveAssociations(ctx)
	if err != nil {
		return nil, err
	}
	statuses, err := a.checker().CheckAll(ctx, stored)
	if err != nil {
		return nil, err
	}
	out := make([]Listing, len(stored))
	for i, s := range stored {
		out[i] = Listing{Association: s, Status: statuses[s.Name]}
	}
	return out, nil
}

// Engines returns the engine description lines and extension filters.
func (a *App) Engines() (string, []engine.Filter) {
	return a.registry.Describe(), a.registry.Filters()
}

// Seed replaces the project with the contents of a YAML fixture file.
func (a *App) Seed(ctx context.Context, path string) error {
	ctx = a.context(ctx)
	f, err := store.ReadFixtureFile(path)
	if err != nil {
		return err
	}
	if err := a.store.Seed(ctx, f); err != nil {
		return err
	}
	a.logger.Info("Project seeded.", "fixture", path, "tables", len(f.Tables), "associations", len(f.Associations))
	return nil
}

// AddAssociation stores a new association.
func (a *App) AddAssociation(ctx context.Context, as assoc.Association) error {
	return a.store.AddAssociation(a.context(ctx), as)
}

// DeleteAssociation removes a stored association.
func (a *App) DeleteAssociation(ctx context.Context, name string) error {
	ok, err := a.store.DeleteAssociation(a.context(ctx), name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("association '%s' does not exist", name)
	}
	return nil
}
