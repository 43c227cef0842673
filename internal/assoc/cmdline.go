package assoc

import (
	"path/filepath"
	"strings"
)

const (
	// EntrySeparator separates associations in a command-line execute list.
	EntrySeparator = ";"
	// ScriptMemberSeparator separates a script file from its members in an
	// ad-hoc command-line association.
	ScriptMemberSeparator = ":"
	// cmdlineMemberSeparator joins members in the command-line shorthand.
	cmdlineMemberSeparator = "+"
)

// Lookup finds a stored association by name.
type Lookup func(name string) (Association, bool)

// ParseCommandLine expands an execute list such as
// `report.py:TableA+Group:Sensors;nightly` into associations. Entries that
// name a script file (they contain a dot) become ad-hoc associations; other
// entries are resolved through lookup. Names lookup cannot find are
// returned separately so the caller can report them.
func ParseCommandLine(arg string, lookup Lookup) (found []Association, unknown []string) {
	for _, entry := range strings.Split(arg, EntrySeparator) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		script, members := splitScriptMembers(entry)
		if members != "" || strings.Contains(filepath.Base(script), ".") {
			found = append(found, Association{
				ScriptPath: script,
				Members:    convertCmdlineMembers(members),
			})
			continue
		}

		a, ok := lookup(script)
		if !ok {
			unknown = append(unknown, script)
			continue
		}
		found = append(found, a)
	}
	return found, unknown
}

// splitScriptMembers cuts an entry at the first script/member separator
// after the last path separator, so drive letters and group prefixes are
// left intact.
func splitScriptMembers(entry string) (script, members string) {
	start := strings.LastIndexAny(entry, `/\`) + 1
	i := strings.Index(entry[start:], ScriptMemberSeparator)
	if i < 0 {
		return entry, ""
	}
	i += start
	return strings.TrimSpace(entry[:i]), strings.TrimSpace(entry[i+1:])
}

func convertCmdlineMembers(members string) string {
	var parts []string
	for _, m := range strings.Split(members, cmdlineMemberSeparator) {
		if m = strings.TrimSpace(m); m != "" {
			parts = append(parts, m)
		}
	}
	return strings.Join(parts, MemberSeparator)
}
