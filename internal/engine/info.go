package engine

import (
	"sort"
	"strings"
)

// Infos returns the registered engines sorted by name.
func (r *Registry) Infos() []Info {
	out := make([]Info, len(r.regs))
	for i, reg := range r.regs {
		out[i] = reg.Info
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// DisplayName returns the user-facing language name: first letter upper
// case, and ECMAScript variants shown as JavaScript.
func DisplayName(name string) string {
	if strings.HasPrefix(strings.ToLower(name), "ecma") {
		return "JavaScript"
	}
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Describe lists one line per engine, "Name: version (command)", or
// "none" when no engine is registered.
func (r *Registry) Describe() string {
	infos := r.Infos()
	if len(infos) == 0 {
		return "none"
	}
	lines := make([]string, len(infos))
	for i, info := range infos {
		version := info.Version
		if version == "" {
			version = "unknown version"
		}
		command := "built-in"
		if len(info.Command) > 0 {
			command = strings.Join(info.Command, " ")
		}
		lines[i] = DisplayName(info.Name) + ": " + version + " (" + command + ")"
	}
	return strings.Join(lines, "\n")
}

// Filter is a file-chooser style description of the extensions one engine
// handles.
type Filter struct {
	Description string
	Extensions  []string
}

// String renders the filter as "Python files (*.py)".
func (f Filter) String() string {
	patterns := make([]string, len(f.Extensions))
	for i, e := range f.Extensions {
		patterns[i] = "*." + e
	}
	return f.Description + " (" + strings.Join(patterns, ", ") + ")"
}

// Filters returns one filter per engine, sorted case-insensitively by
// description.
func (r *Registry) Filters() []Filter {
	out := make([]Filter, 0, len(r.regs))
	for _, reg := range r.regs {
		if len(reg.Info.Extensions) == 0 {
			continue
		}
		exts := make([]string, len(reg.Info.Extensions))
		for i, e := range reg.Info.Extensions {
			exts[i] = normalizeExt(e)
		}
		out = append(out, Filter{Description: DisplayName(reg.Info.Name) + " files", Extensions: exts})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Description) < strings.ToLower(out[j].Description)
	})
	return out
}
