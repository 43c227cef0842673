package hclscript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/scriptassoc/internal/binding"
	"github.com/vk/scriptassoc/internal/ctxlog"
	"github.com/vk/scriptassoc/internal/engine"
)

var scriptSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "locals"},
		{Type: "print", LabelNames: []string{"name"}},
		{Type: "check", LabelNames: []string{"name"}},
		{Type: "output", LabelNames: []string{"path"}},
	},
}

type printBlock struct {
	Message string `hcl:"message"`
}

type checkBlock struct {
	Condition    bool   `hcl:"condition"`
	ErrorMessage string `hcl:"error_message,optional"`
}

type outputBlock struct {
	Content string `hcl:"content"`
	Append  bool   `hcl:"append,optional"`
}

// Engine evaluates one HCL script.
type Engine struct {
	Output io.Writer

	locals map[string]cty.Value
}

// LanguageName implements engine.Engine.
func (e *Engine) LanguageName() string { return "hcl" }

// SupportedExtensions implements engine.Engine.
func (e *Engine) SupportedExtensions() []string { return []string{Extension} }

// Evaluate implements engine.Engine.
func (e *Engine) Evaluate(ctx context.Context, script engine.Script, bindings engine.Bindings) error {
	logger := ctxlog.FromContext(ctx).With("script", script.Path)

	access, ok := bindings.Access()
	if !ok || access == nil {
		access = binding.New(binding.Options{ScriptName: script.Path})
	}

	file, diags := hclparse.NewParser().ParseHCL(script.Source, script.Path)
	if diags.HasErrors() {
		return scriptError(script.Path, diags)
	}
	content, diags := file.Body.Content(scriptSchema)
	if diags.HasErrors() {
		return scriptError(script.Path, diags)
	}

	e.locals = make(map[string]cty.Value)
	vars := map[string]cty.Value{
		binding.Name: access.CtyValue(),
		"env":        envObject(script.Environ()),
	}
	funcs := functions(access.Functions())

	for _, block := range content.Blocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		vars["local"] = cty.ObjectVal(e.locals)
		evalCtx := &hcl.EvalContext{Variables: vars, Functions: funcs}

		var err error
		switch block.Type {
		case "locals":
			err = e.evalLocals(block, evalCtx)
		case "print":
			err = e.evalPrint(block, evalCtx)
		case "check":
			err = e.evalCheck(block, evalCtx)
		case "output":
			err = e.evalOutput(ctx, block, evalCtx, access.OutputDir())
		}
		if err != nil {
			var rtErr *engine.ScriptRuntimeError
			if errors.As(err, &rtErr) {
				rtErr.Path = script.Path
				return rtErr
			}
			return scriptError(script.Path, err)
		}
		logger.Debug("Evaluated script block.", "type", block.Type, "labels", block.Labels)
	}
	return nil
}

// evalLocals evaluates attributes in source order so later locals can
// refer to earlier ones.
func (e *Engine) evalLocals(block *hcl.Block, evalCtx *hcl.EvalContext) error {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}
	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		ordered = append(ordered, a)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})
	for _, a := range ordered {
		v, diags := a.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return diags
		}
		e.locals[a.Name] = v
		evalCtx.Variables["local"] = cty.ObjectVal(e.locals)
	}
	return nil
}

func (e *Engine) evalPrint(block *hcl.Block, evalCtx *hcl.EvalContext) error {
	var p printBlock
	if diags := gohcl.DecodeBody(block.Body, evalCtx, &p); diags.HasErrors() {
		return diags
	}
	_, err := fmt.Fprintln(e.Output, p.Message)
	return err
}

func (e *Engine) evalCheck(block *hcl.Block, evalCtx *hcl.EvalContext) error {
	var c checkBlock
	if diags := gohcl.DecodeBody(block.Body, evalCtx, &c); diags.HasErrors() {
		return diags
	}
	if c.Condition {
		return nil
	}
	msg := c.ErrorMessage
	if msg == "" {
		msg = fmt.Sprintf("check '%s' failed", block.Labels[0])
	}
	return &engine.ScriptRuntimeError{Message: msg}
}

func (e *Engine) evalOutput(ctx context.Context, block *hcl.Block, evalCtx *hcl.EvalContext, outputDir string) error {
	var o outputBlock
	if diags := gohcl.DecodeBody(block.Body, evalCtx, &o); diags.HasErrors() {
		return diags
	}
	target := block.Labels[0]
	if !filepath.IsAbs(target) {
		target = filepath.Join(outputDir, target)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if o.Append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(target, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	if _, err := io.WriteString(f, o.Content); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output file: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Wrote script output.", "file", target, "bytes", len(o.Content))
	return f.Close()
}

func scriptError(path string, err error) *engine.ScriptRuntimeError {
	return &engine.ScriptRuntimeError{Path: path, Message: err.Error(), Err: err}
}
