package binding

import (
	"slices"
	"strings"
	"time"

	"github.com/vk/scriptassoc/internal/assoc"
	"github.com/vk/scriptassoc/internal/loader"
	"github.com/vk/scriptassoc/internal/schema"
	"github.com/vk/scriptassoc/internal/tablepath"
)

// Name is the identifier the handler is bound to in every script scope.
const Name = "ccdd"

// DateTimeLayout formats DateAndTime.
const DateTimeLayout = "Mon Jan 02 15:04:05 MST 2006"

// Options configure a Handler.
type Options struct {
	ScriptName string
	OutputDir  string
	Tables     []TableInfo
	// Types holds the definition of every concrete type appearing in Tables.
	Types map[string]*schema.TypeDefinition
	// AssociatedGroups lists the groups the association's member spec names.
	AssociatedGroups []string
	Metadata         *Metadata
	Now              time.Time
}

// Handler is the data access object exposed to scripts.
type Handler struct {
	opts Options
}

// New creates a Handler. Options are copied; the caller may not mutate the
// slices afterwards.
func New(opts Options) *Handler {
	if opts.Metadata == nil {
		opts.Metadata = &Metadata{}
	}
	if opts.Types == nil {
		opts.Types = map[string]*schema.TypeDefinition{}
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	return &Handler{opts: opts}
}

// ScriptName returns the path of the running script.
func (h *Handler) ScriptName() string { return h.opts.ScriptName }

// Project returns the project name.
func (h *Handler) Project() string { return h.opts.Metadata.Project }

// OutputDir returns the directory scripts should write generated files to.
func (h *Handler) OutputDir() string { return h.opts.OutputDir }

// DateAndTime returns the time the handler was created.
func (h *Handler) DateAndTime() string { return h.opts.Now.Format(DateTimeLayout) }

// Tables returns the combined table buckets.
func (h *Handler) Tables() []TableInfo { return h.opts.Tables }

// TableTypes returns the generic types present, in bucket order.
func (h *Handler) TableTypes() []string {
	out := make([]string, len(h.opts.Tables))
	for i, t := range h.opts.Tables {
		out[i] = t.Type
	}
	return out
}

func (h *Handler) rows(tableType string) []loader.Row {
	for _, t := range h.opts.Tables {
		if strings.EqualFold(t.Type, tableType) {
			return t.Rows
		}
	}
	return nil
}

func (h *Handler) row(tableType string, row int) (loader.Row, bool) {
	rows := h.rows(tableType)
	if row < 0 || row >= len(rows) {
		return nil, false
	}
	return rows[row], true
}

// TableNumRows returns the number of rows of the given generic type.
func (h *Handler) TableNumRows(tableType string) int {
	return len(h.rows(tableType))
}

// TotalRows returns the number of rows across all types.
func (h *Handler) TotalRows() int {
	n := 0
	for _, t := range h.opts.Tables {
		n += len(t.Rows)
	}
	return n
}

// TableNames returns the distinct table paths contributing rows of the
// given type, in row order.
func (h *Handler) TableNames(tableType string) []string {
	var out []string
	for _, r := range h.rows(tableType) {
		if !slices.Contains(out, r.Path()) {
			out = append(out, r.Path())
		}
	}
	return out
}

// RootTableNames returns the distinct root tables contributing rows of the
// given type.
func (h *Handler) RootTableNames(tableType string) []string {
	var out []string
	for _, r := range h.rows(tableType) {
		root := rootOf(r.Path())
		if !slices.Contains(out, root) {
			out = append(out, root)
		}
	}
	return out
}

// PathByRow returns the table path the row came from, or "".
func (h *Handler) PathByRow(tableType string, row int) string {
	r, ok := h.row(tableType, row)
	if !ok {
		return ""
	}
	return r.Path()
}

// TableNameByRow returns the root table of the row, or "".
func (h *Handler) TableNameByRow(tableType string, row int) string {
	return rootOf(h.PathByRow(tableType, row))
}

// TypeNameByRow returns the concrete type of the row, or "".
func (h *Handler) TypeNameByRow(tableType string, row int) string {
	r, ok := h.row(tableType, row)
	if !ok {
		return ""
	}
	return r.Type()
}

// TableData returns the cell in the named column of a row. The column is
// looked up in the row's own concrete type.
func (h *Handler) TableData(tableType, column string, row int) (string, bool) {
	r, ok := h.row(tableType, row)
	if !ok {
		return "", false
	}
	return h.cell(r, column)
}

func (h *Handler) cell(r loader.Row, column string) (string, bool) {
	def, ok := h.opts.Types[r.Type()]
	if !ok {
		return "", false
	}
	col := def.ColumnIndexByName(column)
	cells := r.Cells()
	if col < 0 || col >= len(cells) {
		return "", false
	}
	return cells[col], true
}

// StructureDataByVariableName returns a column of the structure row that
// defines variable in the table at path.
func (h *Handler) StructureDataByVariableName(path, variable, column string) (string, bool) {
	for _, r := range h.rows(schema.TypeStructure) {
		if r.Path() != path {
			continue
		}
		def, ok := h.opts.Types[r.Type()]
		if !ok {
			continue
		}
		varCol := def.ColumnIndex(schema.RoleVariable)
		if varCol >= 0 && varCol < len(r.Cells()) && r.Cells()[varCol] == variable {
			return h.cell(r, column)
		}
	}
	return "", false
}

// ColumnNames returns the columns of a concrete type.
func (h *Handler) ColumnNames(concreteType string) []string {
	def, ok := h.opts.Types[concreteType]
	if !ok {
		return nil
	}
	return def.ColumnNames()
}

// TableDataFieldValue returns the value of a data field attached to a
// table.
func (h *Handler) TableDataFieldValue(table, field string) (string, bool) {
	return h.fieldValue(table, field)
}

// GroupDataFieldValue returns the value of a data field attached to a
// group.
func (h *Handler) GroupDataFieldValue(group, field string) (string, bool) {
	return h.fieldValue(assoc.GroupPrefix+group, field)
}

// ProjectDataFieldValue returns the value of a project-level data field.
func (h *Handler) ProjectDataFieldValue(field string) (string, bool) {
	return h.fieldValue("", field)
}

func (h *Handler) fieldValue(owner, field string) (string, bool) {
	for _, f := range h.opts.Metadata.Fields {
		if f.Owner == owner && strings.EqualFold(f.Name, field) {
			return f.Value, true
		}
	}
	return "", false
}

// GroupNames returns every group in the project.
func (h *Handler) GroupNames() []string {
	out := make([]string, len(h.opts.Metadata.Groups))
	for i, g := range h.opts.Metadata.Groups {
		out[i] = g.Name
	}
	return out
}

// AssociatedGroupNames returns the groups named by the association.
func (h *Handler) AssociatedGroupNames() []string {
	return h.opts.AssociatedGroups
}

func (h *Handler) group(name string) (GroupInfo, bool) {
	for _, g := range h.opts.Metadata.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupInfo{}, false
}

// GroupDescription returns a group's description, or "".
func (h *Handler) GroupDescription(name string) string {
	g, _ := h.group(name)
	return g.Description
}

// GroupTables returns a group's member table paths.
func (h *Handler) GroupTables(name string) []string {
	g, _ := h.group(name)
	return g.Tables
}

// LinkNames returns every link in the project.
func (h *Handler) LinkNames() []string {
	out := make([]string, len(h.opts.Metadata.Links))
	for i, l := range h.opts.Metadata.Links {
		out[i] = l.Name
	}
	return out
}

func (h *Handler) link(name string) (Link, bool) {
	for _, l := range h.opts.Metadata.Links {
		if l.Name == name {
			return l, true
		}
	}
	return Link{}, false
}

// LinkRate returns a link's rate, or "".
func (h *Handler) LinkRate(name string) string {
	l, _ := h.link(name)
	return l.Rate
}

// LinkDescription returns a link's description, or "".
func (h *Handler) LinkDescription(name string) string {
	l, _ := h.link(name)
	return l.Description
}

func rootOf(path string) string {
	root, _, _ := strings.Cut(path, tablepath.Separator)
	return root
}
