package loader

import (
	"context"
	"fmt"

	"github.com/vk/scriptassoc/internal/schema"
	"github.com/vk/scriptassoc/internal/tablepath"
)

// TableData is the raw content of one table instance as returned by the
// store.
type TableData struct {
	// Type is the concrete table type name.
	Type string
	Rows [][]string
}

// TableStore is the subset of the table store the loader needs.
type TableStore interface {
	LoadTableData(ctx context.Context, path tablepath.Path) (*TableData, error)
	TypeDefinition(ctx context.Context, name string) (*schema.TypeDefinition, error)
	IsPrimitive(ctx context.Context, dataType string) (bool, error)
}

// Row is one loaded row: the table's own cells followed by two synthetic
// columns holding the concrete table type and the originating table path.
type Row []string

// NewRow copies cells and appends the synthetic columns.
func NewRow(cells []string, tableType, path string) Row {
	r := make(Row, 0, len(cells)+2)
	r = append(r, cells...)
	return append(r, tableType, path)
}

// Type returns the concrete type of the table the row came from.
func (r Row) Type() string {
	if len(r) < 2 {
		return ""
	}
	return r[len(r)-2]
}

// Path returns the path of the table the row came from.
func (r Row) Path() string {
	if len(r) < 1 {
		return ""
	}
	return r[len(r)-1]
}

// Cells returns the row without its synthetic columns.
func (r Row) Cells() []string {
	if len(r) < 2 {
		return nil
	}
	return r[:len(r)-2]
}

// LoadedTable is one requested table plus all rows contributed by its
// recursively discovered children.
type LoadedTable struct {
	Path        string
	Type        string
	GenericType string
	Rows        []Row
}

// TableLoadError reports why a table, or one of its children, could not be
// loaded.
type TableLoadError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *TableLoadError) Error() string {
	return fmt.Sprintf("table '%s' failed to load: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TableLoadError) Unwrap() error {
	return e.Cause
}
