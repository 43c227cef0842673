package binding

import (
	"encoding/json"
	"io"
)

// SnapshotRow is one row in a Snapshot.
type SnapshotRow struct {
	Table string            `json:"table"`
	Type  string            `json:"type"`
	Cells []string          `json:"cells"`
	// Values maps column names to cells.
	Values map[string]string `json:"values"`
}

// SnapshotTable is one generic type bucket in a Snapshot.
type SnapshotTable struct {
	Type string        `json:"type"`
	Name string        `json:"name"`
	Rows []SnapshotRow `json:"rows"`
}

// Snapshot is the serialisable form of a Handler handed to interpreter
// processes.
type Snapshot struct {
	ScriptName       string              `json:"script_name"`
	Project          string              `json:"project"`
	DateAndTime      string              `json:"date_and_time"`
	OutputDir        string              `json:"output_dir"`
	Tables           []SnapshotTable     `json:"tables"`
	Columns          map[string][]string `json:"columns"`
	AssociatedGroups []string            `json:"associated_groups"`
	Groups           []GroupInfo         `json:"groups"`
	Fields           []Field             `json:"fields"`
	Links            []Link              `json:"links"`
}

// Snapshot captures the handler's data.
func (h *Handler) Snapshot() *Snapshot {
	s := &Snapshot{
		ScriptName:       h.ScriptName(),
		Project:          h.Project(),
		DateAndTime:      h.DateAndTime(),
		OutputDir:        h.OutputDir(),
		Tables:           make([]SnapshotTable, 0, len(h.opts.Tables)),
		Columns:          make(map[string][]string),
		AssociatedGroups: nonNil(h.opts.AssociatedGroups),
		Groups:           h.opts.Metadata.Groups,
		Fields:           h.opts.Metadata.Fields,
		Links:            h.opts.Metadata.Links,
	}
	for _, t := range h.opts.Tables {
		st := SnapshotTable{Type: t.Type, Name: t.Name, Rows: make([]SnapshotRow, 0, len(t.Rows))}
		for _, r := range t.Rows {
			names := h.ColumnNames(r.Type())
			if _, ok := s.Columns[r.Type()]; !ok && names != nil {
				s.Columns[r.Type()] = names
			}
			st.Rows = append(st.Rows, SnapshotRow{
				Table:  r.Path(),
				Type:   r.Type(),
				Cells:  nonNil(r.Cells()),
				Values: namedCells(names, r.Cells()),
			})
		}
		s.Tables = append(s.Tables, st)
	}
	return s
}

// WriteJSON encodes the snapshot.
func (s *Snapshot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func namedCells(names, cells []string) map[string]string {
	out := make(map[string]string, len(names))
	for i, n := range names {
		if i < len(cells) {
			out[n] = cells[i]
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
