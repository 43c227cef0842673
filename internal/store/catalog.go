package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/scriptassoc/internal/schema"
)

// catalog caches schema metadata that every table lookup needs.
type catalog struct {
	types      map[string]*schema.TypeDefinition
	primitives map[string]struct{}
	prototypes map[string]prototypeRow
	// order lists prototypes by position, then name.
	order []string
}

func (s *Store) catalog(ctx context.Context) (*catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cat != nil {
		return s.cat, nil
	}

	cat := &catalog{
		types:      make(map[string]*schema.TypeDefinition),
		primitives: make(map[string]struct{}),
		prototypes: make(map[string]prototypeRow),
	}

	var types []typeRow
	if err := s.db.SelectContext(ctx, &types, `SELECT name, category FROM table_types`); err != nil {
		return nil, fmt.Errorf("select table types: %w", err)
	}
	for _, t := range types {
		category, err := schema.ParseCategory(t.Category)
		if err != nil {
			return nil, fmt.Errorf("table type '%s': %w", t.Name, err)
		}
		cat.types[t.Name] = &schema.TypeDefinition{Name: t.Name, Category: category}
	}

	var columns []columnRow
	if err := s.db.SelectContext(ctx, &columns, `SELECT type_name, position, name, role FROM type_columns ORDER BY type_name, position`); err != nil {
		return nil, fmt.Errorf("select type columns: %w", err)
	}
	for _, c := range columns {
		def, ok := cat.types[c.TypeName]
		if !ok {
			continue
		}
		role, err := schema.ParseRole(c.Role)
		if err != nil {
			return nil, fmt.Errorf("table type '%s' column '%s': %w", c.TypeName, c.Name, err)
		}
		def.Columns = append(def.Columns, schema.Column{Name: c.Name, Role: role})
	}

	var prims []string
	if err := s.db.SelectContext(ctx, &prims, `SELECT name FROM data_types`); err != nil {
		return nil, fmt.Errorf("select data types: %w", err)
	}
	for _, p := range prims {
		cat.primitives[p] = struct{}{}
	}

	var protos []prototypeRow
	if err := s.db.SelectContext(ctx, &protos, `SELECT name, type_name, description, position FROM prototypes ORDER BY position, name`); err != nil {
		return nil, fmt.Errorf("select prototypes: %w", err)
	}
	for _, p := range protos {
		cat.prototypes[p.Name] = p
		cat.order = append(cat.order, p.Name)
	}

	s.cat = cat
	return cat, nil
}

func (c *catalog) isPrimitive(name string) bool {
	_, ok := c.primitives[name]
	return ok
}

// prototypeRows reads the stored rows of one prototype.
func (s *Store) prototypeRows(ctx context.Context, name string) ([][]string, error) {
	var raw []cellsRow
	if err := s.db.SelectContext(ctx, &raw, `SELECT row_index, cells FROM table_rows WHERE table_name = ? ORDER BY row_index`, name); err != nil {
		return nil, fmt.Errorf("select rows of '%s': %w", name, err)
	}
	rows := make([][]string, 0, len(raw))
	for _, r := range raw {
		var cells []string
		if err := json.Unmarshal([]byte(r.Cells), &cells); err != nil {
			return nil, fmt.Errorf("decode row %d of '%s': %w", r.RowIndex, name, err)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
