package envexpand

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Overrides holds KEY=VALUE pairs that take precedence over the process
// environment.
type Overrides map[string]string

// ParseOverrides parses override text. Entries are separated by newlines
// or semicolons. An entry without "=", with an empty key or with an empty
// value is rejected.
func ParseOverrides(text string) (Overrides, error) {
	var lines []string
	for _, entry := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == ';' }) {
		entry = strings.TrimSpace(entry)
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("environment override %q is missing '='", entry)
		}
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("environment override %q has no name", entry)
		}
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("environment override %q has no value", strings.TrimSpace(key))
		}
		lines = append(lines, entry)
	}
	if len(lines) == 0 {
		return Overrides{}, nil
	}

	parsed, err := godotenv.Unmarshal(strings.Join(lines, "\n"))
	if err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}
	return Overrides(parsed), nil
}

// ReadOverridesFile reads overrides from a dotenv file.
func ReadOverridesFile(path string) (Overrides, error) {
	parsed, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read environment file '%s': %w", path, err)
	}
	for k, v := range parsed {
		if v == "" {
			return nil, fmt.Errorf("environment override %q has no value", k)
		}
	}
	return Overrides(parsed), nil
}

// Merge returns a copy of o with other's entries layered on top.
func (o Overrides) Merge(other Overrides) Overrides {
	out := make(Overrides, len(o)+len(other))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Environ overlays the overrides on a KEY=VALUE environment list such as
// os.Environ() and returns the merged map.
func (o Overrides) Environ(base []string) map[string]string {
	env := make(map[string]string, len(base)+len(o))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	for k, v := range o {
		env[k] = v
	}
	return env
}

// String renders the overrides as sorted KEY=VALUE lines.
func (o Overrides) String() string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k + "=" + o[k])
	}
	return b.String()
}
