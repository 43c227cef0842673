package hclscript

import (
	"maps"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// stdFunctions is the general purpose function library available to
// every script.
var stdFunctions = map[string]function.Function{
	"abs":           stdlib.AbsoluteFunc,
	"coalesce":      stdlib.CoalesceFunc,
	"concat":        stdlib.ConcatFunc,
	"contains":      stdlib.ContainsFunc,
	"csvdecode":     stdlib.CSVDecodeFunc,
	"distinct":      stdlib.DistinctFunc,
	"element":       stdlib.ElementFunc,
	"flatten":       stdlib.FlattenFunc,
	"format":        stdlib.FormatFunc,
	"formatdate":    stdlib.FormatDateFunc,
	"formatlist":    stdlib.FormatListFunc,
	"indent":        stdlib.IndentFunc,
	"join":          stdlib.JoinFunc,
	"jsondecode":    stdlib.JSONDecodeFunc,
	"jsonencode":    stdlib.JSONEncodeFunc,
	"keys":          stdlib.KeysFunc,
	"length":        stdlib.LengthFunc,
	"lookup":        stdlib.LookupFunc,
	"lower":         stdlib.LowerFunc,
	"max":           stdlib.MaxFunc,
	"merge":         stdlib.MergeFunc,
	"min":           stdlib.MinFunc,
	"regex_replace": stdlib.RegexReplaceFunc,
	"replace":       stdlib.ReplaceFunc,
	"reverse":       stdlib.ReverseListFunc,
	"sort":          stdlib.SortFunc,
	"split":         stdlib.SplitFunc,
	"substr":        stdlib.SubstrFunc,
	"title":         stdlib.TitleFunc,
	"trimspace":     stdlib.TrimSpaceFunc,
	"upper":         stdlib.UpperFunc,
	"values":        stdlib.ValuesFunc,
}

// functions merges the standard library with the handler's accessors.
func functions(access map[string]function.Function) map[string]function.Function {
	out := make(map[string]function.Function, len(stdFunctions)+len(access))
	maps.Copy(out, stdFunctions)
	maps.Copy(out, access)
	return out
}

// envObject exposes the script's environment as `env.NAME`.
func envObject(environ []string) cty.Value {
	vars := make(map[string]cty.Value)
	for _, e := range environ {
		k, v, ok := strings.Cut(e, "=")
		if ok && k != "" {
			vars[k] = cty.StringVal(v)
		}
	}
	return cty.ObjectVal(vars)
}
