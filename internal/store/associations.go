package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vk/scriptassoc/internal/assoc"
)

// RetrieveAssociations returns every stored association in display order.
func (s *Store) RetrieveAssociations(ctx context.Context) ([]assoc.Association, error) {
	var rows []associationRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT name, description, script_file, members FROM associations ORDER BY position, name`); err != nil {
		return nil, fmt.Errorf("select associations: %w", err)
	}
	out := make([]assoc.Association, len(rows))
	for i, r := range rows {
		out[i] = assoc.Association{
			Name:        r.Name,
			Description: r.Description,
			ScriptPath:  r.ScriptFile,
			Members:     r.Members,
		}
	}
	return out, nil
}

// AddAssociation stores a new association at the end of the list.
func (s *Store) AddAssociation(ctx context.Context, a assoc.Association) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM associations WHERE name = ?`, a.Name); err != nil {
			return fmt.Errorf("check association '%s': %w", a.Name, err)
		}
		if exists > 0 {
			return fmt.Errorf("association '%s' already exists", a.Name)
		}
		return insertAssociation(ctx, tx, a)
	})
}

// DeleteAssociation removes the named association. It is not an error if
// the association does not exist; the bool result reports whether one was
// removed.
func (s *Store) DeleteAssociation(ctx context.Context, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM associations WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("delete association '%s': %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete association '%s': %w", name, err)
	}
	return n > 0, nil
}

func insertAssociation(ctx context.Context, tx *sqlx.Tx, a assoc.Association) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO associations(name, description, script_file, members, position)
		 VALUES(?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM associations))`,
		a.Name, a.Description, a.ScriptPath, a.Members)
	if err != nil {
		return fmt.Errorf("insert association '%s': %w", a.Name, err)
	}
	return nil
}
