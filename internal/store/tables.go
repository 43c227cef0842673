package store

import (
	"context"
	"fmt"

	"github.com/vk/scriptassoc/internal/loader"
	"github.com/vk/scriptassoc/internal/schema"
	"github.com/vk/scriptassoc/internal/tablepath"
)

// LoadTableData returns the rows of the table instance at path: the rows of
// its prototype with any custom values stored for that instance applied.
func (s *Store) LoadTableData(ctx context.Context, path tablepath.Path) (*loader.TableData, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	proto, ok := cat.prototypes[path.Prototype()]
	if !ok {
		return nil, fmt.Errorf("table '%s' not found", path.Prototype())
	}
	def, ok := cat.types[proto.TypeName]
	if !ok {
		return nil, fmt.Errorf("table '%s' has unknown type '%s'", proto.Name, proto.TypeName)
	}

	rows, err := s.prototypeRows(ctx, proto.Name)
	if err != nil {
		return nil, err
	}

	var custom []customValueRow
	if err := s.db.SelectContext(ctx, &custom, `SELECT variable, column_name, value FROM custom_values WHERE table_path = ?`, path.String()); err != nil {
		return nil, fmt.Errorf("select custom values of '%s': %w", path, err)
	}
	applyCustomValues(def, rows, custom)

	return &loader.TableData{Type: proto.TypeName, Rows: rows}, nil
}

func applyCustomValues(def *schema.TypeDefinition, rows [][]string, custom []customValueRow) {
	varCol := def.ColumnIndex(schema.RoleVariable)
	if varCol < 0 || len(custom) == 0 {
		return
	}
	for _, cv := range custom {
		col := def.ColumnIndexByName(cv.ColumnName)
		if col < 0 {
			continue
		}
		for _, row := range rows {
			if varCol < len(row) && col < len(row) && row[varCol] == cv.Variable {
				row[col] = cv.Value
			}
		}
	}
}

// TypeDefinition returns the named table type.
func (s *Store) TypeDefinition(ctx context.Context, name string) (*schema.TypeDefinition, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	def, ok := cat.types[name]
	if !ok {
		return nil, fmt.Errorf("unknown table type '%s'", name)
	}
	return def, nil
}

// IsPrimitive reports whether dataType is a primitive data type rather than
// a reference to a structure table.
func (s *Store) IsPrimitive(ctx context.Context, dataType string) (bool, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return false, err
	}
	return cat.isPrimitive(dataType), nil
}

// QueryTableAndTypeList lists every table prototype with its type.
func (s *Store) QueryTableAndTypeList(ctx context.Context) ([]TableRef, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]TableRef, 0, len(cat.order))
	for _, name := range cat.order {
		refs = append(refs, TableRef{Name: name, Type: cat.prototypes[name].TypeName})
	}
	return refs, nil
}

// TableExists reports whether raw names a table instance: the root
// prototype exists, and every child segment names a variable of the
// segment's data type in a structure parent.
func (s *Store) TableExists(ctx context.Context, raw string) (bool, error) {
	path, err := tablepath.Parse(raw)
	if err != nil {
		return false, nil
	}
	cat, err := s.catalog(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := cat.prototypes[path.Root]; !ok {
		return false, nil
	}

	parent := path.Root
	for _, seg := range path.Segments {
		if _, ok := cat.prototypes[seg.DataType]; !ok {
			return false, nil
		}
		def := cat.types[cat.prototypes[parent].TypeName]
		if def == nil || !def.IsStructure() {
			return false, nil
		}
		rows, err := s.prototypeRows(ctx, parent)
		if err != nil {
			return false, err
		}
		if !hasVariable(def, rows, seg) {
			return false, nil
		}
		parent = seg.DataType
	}
	return true, nil
}

func hasVariable(def *schema.TypeDefinition, rows [][]string, seg tablepath.Segment) bool {
	varCol := def.ColumnIndex(schema.RoleVariable)
	dtCol := def.ColumnIndex(schema.RoleDataType)
	if varCol < 0 || dtCol < 0 {
		return false
	}
	for _, row := range rows {
		if varCol < len(row) && dtCol < len(row) && row[varCol] == seg.Variable && row[dtCol] == seg.DataType {
			return true
		}
	}
	return false
}

// RootTables returns the prototypes that no structure references as a
// child, in schema order.
func (s *Store) RootTables(ctx context.Context) ([]string, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	referenced := make(map[string]struct{})
	for _, name := range cat.order {
		def := cat.types[cat.prototypes[name].TypeName]
		if def == nil || !def.IsStructure() {
			continue
		}
		rows, err := s.prototypeRows(ctx, name)
		if err != nil {
			return nil, err
		}
		dtCol := def.ColumnIndex(schema.RoleDataType)
		if dtCol < 0 {
			continue
		}
		for _, row := range rows {
			if dtCol < len(row) && row[dtCol] != "" && !cat.isPrimitive(row[dtCol]) {
				referenced[row[dtCol]] = struct{}{}
			}
		}
	}

	var roots []string
	for _, name := range cat.order {
		if _, ok := referenced[name]; !ok {
			roots = append(roots, name)
		}
	}
	return roots, nil
}

// TableTree lists every table instance, each parent before its children,
// roots in schema order and children in row order.
func (s *Store) TableTree(ctx context.Context) ([]string, error) {
	cat, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	roots, err := s.RootTables(ctx)
	if err != nil {
		return nil, err
	}

	rowsByProto := make(map[string][][]string)
	var out []string
	var walk func(p tablepath.Path) error
	walk = func(p tablepath.Path) error {
		out = append(out, p.String())
		proto, ok := cat.prototypes[p.Prototype()]
		if !ok {
			return nil
		}
		def := cat.types[proto.TypeName]
		if def == nil || !def.IsStructure() {
			return nil
		}
		rows, ok := rowsByProto[proto.Name]
		if !ok {
			if rows, err = s.prototypeRows(ctx, proto.Name); err != nil {
				return err
			}
			rowsByProto[proto.Name] = rows
		}
		for _, row := range rows {
			dt, v, ok, err := schema.ChildReference(def, row, cat.isPrimitive)
			if err != nil || !ok || p.HasPrototype(dt) {
				continue
			}
			if err := walk(p.Child(dt, v)); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range roots {
		if err := walk(tablepath.Path{Root: r}); err != nil {
			return nil, err
		}
	}
	return out, nil
}
