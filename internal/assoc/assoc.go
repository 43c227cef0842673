package assoc

import (
	"fmt"
	"regexp"
	"strings"
)

// Status is the availability of an association. It is derived on demand and
// never persisted.
type Status int

const (
	Available Status = iota
	ScriptMissing
	TableMissing
)

// String returns the status in the form shown to users.
func (s Status) String() string {
	switch s {
	case Available:
		return "AVAILABLE"
	case ScriptMissing:
		return "SCRIPT_MISSING"
	case TableMissing:
		return "TABLE_MISSING"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Association binds one script file to a member spec.
type Association struct {
	Name        string
	Description string
	// ScriptPath may contain $VAR or ${VAR} tokens.
	ScriptPath string
	// Members is the serialized member spec, see ParseMembers.
	Members string
}

// Label renders the association as "script : members" for summaries.
func (a Association) Label() string {
	return a.ScriptPath + " : " + DisplayMembers(a.Members)
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateName checks that an association name is non-empty and made of
// letters, digits and underscores only.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("association name cannot be empty")
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid association name %q: only letters, digits and underscores are allowed", name)
	}
	return nil
}

// Validate checks the fields every stored association must carry.
func (a Association) Validate() error {
	if err := ValidateName(a.Name); err != nil {
		return err
	}
	if strings.TrimSpace(a.ScriptPath) == "" {
		return fmt.Errorf("association %q has no script file", a.Name)
	}
	return nil
}
