package assoc

import "strings"

const (
	// MemberSeparator joins members in a serialized member spec.
	MemberSeparator = " + "
	// GroupPrefix marks a member as a group reference.
	GroupPrefix = "Group:"
	// AllTablesGroup is the pseudo-group that stands for every root table.
	AllTablesGroup = "All tables"
)

// Member is one parsed entry of a member spec.
type Member struct {
	// Value is the table path, or the group name for a group reference.
	Value   string
	IsGroup bool
}

// String renders the member in serialized form.
func (m Member) String() string {
	if m.IsGroup {
		return GroupPrefix + m.Value
	}
	return m.Value
}

// IsAllTables reports whether the member is the universal pseudo-group.
func (m Member) IsAllTables() bool {
	return m.IsGroup && m.Value == AllTablesGroup
}

// ParseMembers splits a member spec into its members. Surrounding
// whitespace is trimmed and blank entries are dropped.
func ParseMembers(spec string) []Member {
	var out []Member
	for _, tok := range strings.Split(spec, strings.TrimSpace(MemberSeparator)) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if name, ok := strings.CutPrefix(tok, GroupPrefix); ok {
			out = append(out, Member{Value: strings.TrimSpace(name), IsGroup: true})
			continue
		}
		out = append(out, Member{Value: tok})
	}
	return out
}

// FormatMembers serializes members back into a member spec.
func FormatMembers(members []Member) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.String()
	}
	return strings.Join(parts, MemberSeparator)
}

// FormatPaths serializes plain table paths into a member spec.
func FormatPaths(paths []string) string {
	return strings.Join(paths, MemberSeparator)
}

// DisplayMembers converts a member spec into the comma-separated form used
// in user-facing messages.
func DisplayMembers(spec string) string {
	members := ParseMembers(spec)
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}
