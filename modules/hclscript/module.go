// Package hclscript is the built-in engine for association scripts written
// in HCL. A script is a sequence of blocks evaluated top to bottom against
// the `ccdd` object:
//
//	locals {
//	  rows = ccdd.tables.Structure.rows
//	}
//
//	print "summary" {
//	  message = format("%d rows", length(local.rows))
//	}
//
//	check "not_empty" {
//	  condition     = length(local.rows) > 0
//	  error_message = "no structure rows"
//	}
//
//	output "rows.csv" {
//	  content = join("\n", [for r in local.rows : join(",", r.cells)])
//	}
package hclscript

import (
	"io"
	"os"

	"github.com/vk/scriptassoc/internal/engine"
)

// Extension is the file extension handled by this engine.
const Extension = "hcl"

// Module implements the engine.Module interface for this package.
type Module struct {
	// Output receives print block messages. Nil means standard output.
	Output io.Writer
}

// Register registers the HCL engine.
func (m *Module) Register(r *engine.Registry) {
	out := m.Output
	if out == nil {
		out = os.Stdout
	}
	r.MustRegister(engine.Registration{
		Info: engine.Info{
			Name:        "hcl",
			Description: "Built-in HCL evaluator",
			Version:     "2",
			Extensions:  []string{Extension},
		},
		New: func() engine.Engine { return &Engine{Output: out} },
	})
}
