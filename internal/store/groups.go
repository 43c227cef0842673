package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vk/scriptassoc/internal/resolver"
)

// GroupByName returns the named group and its member table paths.
func (s *Store) GroupByName(ctx context.Context, name string) (*resolver.Group, bool, error) {
	var g groupRow
	err := s.db.GetContext(ctx, &g, `SELECT name, description, is_application FROM groups WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select group '%s': %w", name, err)
	}

	var tables []string
	if err := s.db.SelectContext(ctx, &tables, `SELECT table_path FROM group_tables WHERE group_name = ? ORDER BY position, table_path`, name); err != nil {
		return nil, false, fmt.Errorf("select tables of group '%s': %w", name, err)
	}
	return &resolver.Group{Name: g.Name, Description: g.Description, Tables: tables}, true, nil
}
