package envexpand

import (
	"os"
	"strings"
)

// Expand replaces $VAR and ${VAR} tokens in text with values from env.
// Tokens naming unknown variables are left as written.
func Expand(text string, env map[string]string) string {
	if !strings.Contains(text, "$") {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); {
		if text[i] != '$' || i+1 >= len(text) {
			b.WriteByte(text[i])
			i++
			continue
		}

		if text[i+1] == '{' {
			end := strings.IndexByte(text[i+2:], '}')
			if end < 0 {
				b.WriteString(text[i:])
				break
			}
			name := text[i+2 : i+2+end]
			token := text[i : i+3+end]
			if v, ok := env[name]; ok && name != "" {
				b.WriteString(v)
			} else {
				b.WriteString(token)
			}
			i += len(token)
			continue
		}

		j := i + 1
		for j < len(text) && isNameByte(text[j], j == i+1) {
			j++
		}
		name := text[i+1 : j]
		if v, ok := env[name]; ok && name != "" {
			b.WriteString(v)
		} else {
			b.WriteString(text[i:j])
			if name == "" {
				b.WriteByte(text[j])
				j++
			}
		}
		i = j
	}
	return b.String()
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

// ExpandPath expands path against the process environment overlaid with o.
func ExpandPath(path string, o Overrides) string {
	return Expand(path, o.Environ(os.Environ()))
}
