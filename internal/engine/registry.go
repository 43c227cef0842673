package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vk/scriptassoc/internal/binding"
	"github.com/vk/scriptassoc/internal/ctxlog"
)

// Module is the interface compiled-in engine packages implement to add
// themselves to a registry.
type Module interface {
	Register(r *Registry)
}

// Factory creates the engine instance used for one script invocation.
type Factory func() Engine

// Registration pairs an extension predicate with an engine factory.
type Registration struct {
	Info    Info
	Matches func(ext string) bool
	New     Factory
}

// Registry holds engine registrations in the order they were added. The
// first registration matching an extension wins.
type Registry struct {
	regs []Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a registration. Names are unique, compared
// case-insensitively.
func (r *Registry) Register(reg Registration) error {
	if reg.Info.Name == "" {
		return errors.New("engine registration has no name")
	}
	if reg.New == nil {
		return fmt.Errorf("engine '%s' has no factory", reg.Info.Name)
	}
	if reg.Matches == nil {
		reg.Matches = MatchExtensions(reg.Info.Extensions)
	}
	for _, existing := range r.regs {
		if strings.EqualFold(existing.Info.Name, reg.Info.Name) {
			return fmt.Errorf("engine '%s' is already registered", reg.Info.Name)
		}
	}
	r.regs = append(r.regs, reg)
	return nil
}

// MustRegister is like Register but panics on error. Compiled-in modules
// use it; a clash there is a programming error.
func (r *Registry) MustRegister(reg Registration) {
	if err := r.Register(reg); err != nil {
		panic(err)
	}
}

// RegisterEngine registers a stateless engine that is reused for every
// invocation.
func (r *Registry) RegisterEngine(e Engine, info Info) error {
	if info.Name == "" {
		info.Name = e.LanguageName()
	}
	if info.Extensions == nil {
		info.Extensions = e.SupportedExtensions()
	}
	return r.Register(Registration{Info: info, New: func() Engine { return e }})
}

// MatchExtensions returns a predicate matching any of exts,
// case-insensitively and ignoring a leading dot.
func MatchExtensions(exts []string) func(string) bool {
	norm := make([]string, len(exts))
	for i, e := range exts {
		norm[i] = normalizeExt(e)
	}
	return func(ext string) bool {
		return slices.Contains(norm, normalizeExt(ext))
	}
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// Lookup returns the first registration matching ext.
func (r *Registry) Lookup(ext string) (Registration, bool) {
	for _, reg := range r.regs {
		if reg.Matches(ext) {
			return reg, true
		}
	}
	return Registration{}, false
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	return len(r.regs)
}

// Extension returns the extension of a script file name, without the dot.
// A name whose only dot is the first or last character has no extension.
func Extension(path string) (string, bool) {
	base := filepath.Base(path)
	i := strings.LastIndex(base, ".")
	if i <= 0 || i == len(base)-1 {
		return "", false
	}
	return base[i+1:], true
}

// Dispatch evaluates the script at path with access bound as `ccdd`.
func (r *Registry) Dispatch(ctx context.Context, path string, access *binding.Handler) error {
	return r.DispatchEnv(ctx, path, access, nil)
}

// DispatchEnv is Dispatch with the environment the script sees. A nil env
// means the process environment.
func (r *Registry) DispatchEnv(ctx context.Context, path string, access *binding.Handler, env map[string]string) error {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return &ScriptNotFoundError{Path: path}
	}
	ext, ok := Extension(path)
	if !ok {
		return &NoExtensionError{Path: path}
	}
	reg, ok := r.Lookup(ext)
	if !ok {
		return &UnsupportedExtensionError{Path: path, Extension: ext}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return &ScriptRuntimeError{Path: path, Message: "cannot read script file", Err: err}
	}

	eng := reg.New()
	bindings := Bindings{binding.Name: access}
	logger.Debug("Dispatching script.", "script", path, "engine", reg.Info.Name)

	if err := eng.Evaluate(ctx, Script{Path: path, Source: source, Env: env}, bindings); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var rtErr *ScriptRuntimeError
		if errors.As(err, &rtErr) {
			return err
		}
		return &ScriptRuntimeError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}
