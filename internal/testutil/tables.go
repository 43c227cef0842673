package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/scriptassoc/internal/binding"
	"github.com/vk/scriptassoc/internal/loader"
	"github.com/vk/scriptassoc/internal/resolver"
	"github.com/vk/scriptassoc/internal/schema"
	"github.com/vk/scriptassoc/internal/tablepath"
)

// FakeTable is one prototype held by FakeTables.
type FakeTable struct {
	Type string
	Rows [][]string
}

// FakeTables is an in-memory table and group store that counts fetches.
type FakeTables struct {
	Types      map[string]*schema.TypeDefinition
	Tables     map[string]FakeTable
	Primitives map[string]bool
	// Roots lists root tables in schema order.
	Roots  []string
	Groups map[string]*resolver.Group
	// Fail makes LoadTableData return the error for the given path.
	Fail map[string]error
	Meta *binding.Metadata

	mu    sync.Mutex
	calls map[string]int
}

// LoadTableData implements loader.TableStore.
func (f *FakeTables) LoadTableData(_ context.Context, path tablepath.Path) (*loader.TableData, error) {
	key := path.String()
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[key]++
	f.mu.Unlock()

	if err, ok := f.Fail[key]; ok {
		return nil, err
	}
	t, ok := f.Tables[path.Prototype()]
	if !ok {
		return nil, fmt.Errorf("table '%s' not found", path.Prototype())
	}
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append([]string(nil), r...)
	}
	return &loader.TableData{Type: t.Type, Rows: rows}, nil
}

// Calls returns how many times path was fetched.
func (f *FakeTables) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

// TotalCalls returns the number of fetches across all paths.
func (f *FakeTables) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// TypeDefinition implements loader.TableStore.
func (f *FakeTables) TypeDefinition(_ context.Context, name string) (*schema.TypeDefinition, error) {
	def, ok := f.Types[name]
	if !ok {
		return nil, fmt.Errorf("unknown table type '%s'", name)
	}
	return def, nil
}

// IsPrimitive implements loader.TableStore.
func (f *FakeTables) IsPrimitive(_ context.Context, dataType string) (bool, error) {
	return f.Primitives[dataType], nil
}

// GroupByName implements resolver.GroupStore.
func (f *FakeTables) GroupByName(_ context.Context, name string) (*resolver.Group, bool, error) {
	g, ok := f.Groups[name]
	return g, ok, nil
}

// RootTables implements resolver.TableTree.
func (f *FakeTables) RootTables(context.Context) ([]string, error) {
	return append([]string(nil), f.Roots...), nil
}

// TableTree implements resolver.TableTree.
func (f *FakeTables) TableTree(context.Context) ([]string, error) {
	var out []string
	var walk func(p tablepath.Path)
	walk = func(p tablepath.Path) {
		out = append(out, p.String())
		t, ok := f.Tables[p.Prototype()]
		if !ok {
			return
		}
		def := f.Types[t.Type]
		if def == nil || !def.IsStructure() {
			return
		}
		for _, row := range t.Rows {
			dt, v, ok, err := schema.ChildReference(def, row, func(s string) bool { return f.Primitives[s] })
			if err != nil || !ok || p.HasPrototype(dt) {
				continue
			}
			walk(p.Child(dt, v))
		}
	}
	for _, r := range f.Roots {
		walk(tablepath.Path{Root: r})
	}
	return out, nil
}

// TableExists reports whether path names a table instance.
func (f *FakeTables) TableExists(ctx context.Context, raw string) (bool, error) {
	tree, _ := f.TableTree(ctx)
	for _, p := range tree {
		if p == raw {
			return true, nil
		}
	}
	return false, nil
}

// Metadata returns Meta, or an empty project when unset.
func (f *FakeTables) Metadata(context.Context) (*binding.Metadata, error) {
	if f.Meta == nil {
		return &binding.Metadata{Project: "demo"}, nil
	}
	return f.Meta, nil
}
// StructureType returns the column layout used by demo structure tables.
func StructureType() *schema.TypeDefinition {
	return &schema.TypeDefinition{
		Name:     "Structure",
		Category: schema.CategoryStructure,
		Columns: []schema.Column{
			{Name: "Variable Name", Role: schema.RoleVariable},
			{Name: "Data Type", Role: schema.RoleDataType},
			{Name: "Array Size", Role: schema.RoleArraySize},
			{Name: "Description", Role: schema.RoleDescription},
		},
	}
}

// CommandType returns the column layout used by demo command tables.
func CommandType() *schema.TypeDefinition {
	return &schema.TypeDefinition{
		Name:     "Command",
		Category: schema.CategoryCommand,
		Columns: []schema.Column{
			{Name: "Command Name", Role: schema.RoleOther},
			{Name: "Command Code", Role: schema.RoleOther},
			{Name: "Description", Role: schema.RoleDescription},
		},
	}
}

// NewDemoTables builds a small schema:
//
//	TableA    3 primitive rows
//	Parent    hdr:Header, samples:Sample[2], count:int32
//	Header    2 primitive rows
//	Sample    1 primitive row
//	Cmds      2 command rows
//
// Header and Sample are only reachable as children of Parent.
func NewDemoTables() *FakeTables {
	return &FakeTables{
		Types: map[string]*schema.TypeDefinition{
			"Structure": StructureType(),
			"Command":   CommandType(),
		},
		Primitives: map[string]bool{"int8": true, "int16": true, "int32": true, "float": true, "char": true},
		Tables: map[string]FakeTable{
			"TableA": {Type: "Structure", Rows: [][]string{
				{"a1", "int32", "", "first"},
				{"a2", "float", "", "second"},
				{"a3", "char", "", "third"},
			}},
			"Parent": {Type: "Structure", Rows: [][]string{
				{"hdr", "Header", "", "header"},
				{"samples", "Sample", "2", "samples"},
				{"samples[0]", "Sample", "2", ""},
				{"samples[1]", "Sample", "2", ""},
				{"count", "int32", "", "count"},
			}},
			"Header": {Type: "Structure", Rows: [][]string{
				{"id", "int16", "", "id"},
				{"len", "int16", "", "length"},
			}},
			"Sample": {Type: "Structure", Rows: [][]string{
				{"value", "float", "", "value"},
			}},
			"Cmds": {Type: "Command", Rows: [][]string{
				{"NOOP", "0x00", "no operation"},
				{"RESET", "0x01", "reset"},
			}},
		},
		Roots: []string{"Cmds", "Parent", "TableA"},
		Groups: map[string]*resolver.Group{
			"Telemetry": {Name: "Telemetry", Description: "telemetry tables", Tables: []string{"Parent,Header.hdr", "TableA"}},
		},
	}
}
