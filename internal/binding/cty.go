package binding

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/gocty"
)

// CtyValue renders the handler as an HCL object:
//
//	ccdd.script_name, ccdd.project, ccdd.date_and_time, ccdd.output_dir
//	ccdd.table_types                 list of generic types
//	ccdd.tables.<Type>.name          first contributing table path
//	ccdd.tables.<Type>.num_rows
//	ccdd.tables.<Type>.rows[*]       {table, type, cells, values}
//	ccdd.associated_groups, ccdd.groups, ccdd.fields, ccdd.links
func (h *Handler) CtyValue() cty.Value {
	tables := make(map[string]cty.Value, len(h.opts.Tables))
	for _, t := range h.opts.Tables {
		rows := make([]cty.Value, 0, len(t.Rows))
		for _, r := range t.Rows {
			rows = append(rows, cty.ObjectVal(map[string]cty.Value{
				"table":  cty.StringVal(r.Path()),
				"type":   cty.StringVal(r.Type()),
				"cells":  stringList(r.Cells()),
				"values": stringMap(namedCells(h.ColumnNames(r.Type()), r.Cells())),
			}))
		}
		tables[t.Type] = cty.ObjectVal(map[string]cty.Value{
			"name":     cty.StringVal(t.Name),
			"num_rows": cty.NumberIntVal(int64(len(t.Rows))),
			"rows":     cty.TupleVal(rows),
		})
	}

	groups := make([]cty.Value, 0, len(h.opts.Metadata.Groups))
	for _, g := range h.opts.Metadata.Groups {
		groups = append(groups, cty.ObjectVal(map[string]cty.Value{
			"name":           cty.StringVal(g.Name),
			"description":    cty.StringVal(g.Description),
			"is_application": cty.BoolVal(g.IsApplication),
			"tables":         stringList(g.Tables),
		}))
	}
	fields := make([]cty.Value, 0, len(h.opts.Metadata.Fields))
	for _, f := range h.opts.Metadata.Fields {
		fields = append(fields, cty.ObjectVal(map[string]cty.Value{
			"owner":       cty.StringVal(f.Owner),
			"name":        cty.StringVal(f.Name),
			"description": cty.StringVal(f.Description),
			"value":       cty.StringVal(f.Value),
		}))
	}
	links := make([]cty.Value, 0, len(h.opts.Metadata.Links))
	for _, l := range h.opts.Metadata.Links {
		links = append(links, cty.ObjectVal(map[string]cty.Value{
			"name":        cty.StringVal(l.Name),
			"rate":        cty.StringVal(l.Rate),
			"description": cty.StringVal(l.Description),
			"members":     stringList(l.Members),
		}))
	}

	return cty.ObjectVal(map[string]cty.Value{
		"script_name":       cty.StringVal(h.ScriptName()),
		"project":           cty.StringVal(h.Project()),
		"date_and_time":     cty.StringVal(h.DateAndTime()),
		"output_dir":        cty.StringVal(h.OutputDir()),
		"table_types":       stringList(h.TableTypes()),
		"tables":            cty.ObjectVal(tables),
		"associated_groups": stringList(h.AssociatedGroupNames()),
		"groups":            cty.TupleVal(groups),
		"fields":            cty.TupleVal(fields),
		"links":             cty.TupleVal(links),
	})
}

func stringList(s []string) cty.Value {
	v, err := gocty.ToCtyValue(nonNil(s), cty.List(cty.String))
	if err != nil {
		return cty.ListValEmpty(cty.String)
	}
	return v
}

func stringMap(m map[string]string) cty.Value {
	v, err := gocty.ToCtyValue(m, cty.Map(cty.String))
	if err != nil {
		return cty.MapValEmpty(cty.String)
	}
	return v
}

// Functions returns call-style accessors for interpreters that prefer
// functions over object traversal. Each is prefixed with the binding name.
func (h *Handler) Functions() map[string]function.Function {
	str := func(name string) function.Parameter { return function.Parameter{Name: name, Type: cty.String} }

	return map[string]function.Function{
		Name + "_num_rows": function.New(&function.Spec{
			Params: []function.Parameter{str("type")},
			Type:   function.StaticReturnType(cty.Number),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				return cty.NumberIntVal(int64(h.TableNumRows(args[0].AsString()))), nil
			},
		}),
		Name + "_table_data": function.New(&function.Spec{
			Params: []function.Parameter{str("type"), str("column"), {Name: "row", Type: cty.Number}},
			Type:   function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				var row int
				if err := gocty.FromCtyValue(args[2], &row); err != nil {
					return cty.NilVal, function.NewArgError(2, err)
				}
				v, _ := h.TableData(args[0].AsString(), args[1].AsString(), row)
				return cty.StringVal(v), nil
			},
		}),
		Name + "_table_names": function.New(&function.Spec{
			Params: []function.Parameter{str("type")},
			Type:   function.StaticReturnType(cty.List(cty.String)),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				return stringList(h.TableNames(args[0].AsString())), nil
			},
		}),
		Name + "_structure_data": function.New(&function.Spec{
			Params: []function.Parameter{str("path"), str("variable"), str("column")},
			Type:   function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				v, _ := h.StructureDataByVariableName(args[0].AsString(), args[1].AsString(), args[2].AsString())
				return cty.StringVal(v), nil
			},
		}),
		Name + "_field_value": function.New(&function.Spec{
			Params: []function.Parameter{str("table"), str("field")},
			Type:   function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				v, _ := h.TableDataFieldValue(args[0].AsString(), args[1].AsString())
				return cty.StringVal(v), nil
			},
		}),
		Name + "_group_field_value": function.New(&function.Spec{
			Params: []function.Parameter{str("group"), str("field")},
			Type:   function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				v, _ := h.GroupDataFieldValue(args[0].AsString(), args[1].AsString())
				return cty.StringVal(v), nil
			},
		}),
	}
}
