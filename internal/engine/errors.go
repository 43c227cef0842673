package engine

import "fmt"

// ScriptNotFoundError reports a script path that does not name a file.
type ScriptNotFoundError struct {
	Path string
}

func (e *ScriptNotFoundError) Error() string {
	return fmt.Sprintf("cannot locate script file '%s'", e.Path)
}

// NoExtensionError reports a script file name without an extension.
type NoExtensionError struct {
	Path string
}

func (e *NoExtensionError) Error() string {
	return fmt.Sprintf("script file '%s' has no file extension", e.Path)
}

// UnsupportedExtensionError reports an extension no engine handles.
type UnsupportedExtensionError struct {
	Path      string
	Extension string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("script file '%s' extension is unsupported", e.Path)
}

// ScriptRuntimeError wraps a failure reported while evaluating a script.
type ScriptRuntimeError struct {
	Path    string
	Message string
	Err     error
}

func (e *ScriptRuntimeError) Error() string {
	return fmt.Sprintf("script file '%s' error '%s'", e.Path, e.Message)
}

func (e *ScriptRuntimeError) Unwrap() error {
	return e.Err
}
