// pkg/manifest/errors.go
package manifest

import "fmt"

// Error reports a malformed or inconsistent manifest. It is fatal before any
// fetch or build work begins.
type Error struct {
	Path string // manifest file, if known
	Line int    // 1-based line for text manifests, 0 otherwise
	Msg  string
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("manifest %s:%d: %s", e.Path, e.Line, e.Msg)
	case e.Path != "":
		return fmt.Sprintf("manifest %s: %s", e.Path, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("manifest line %d: %s", e.Line, e.Msg)
	default:
		return fmt.Sprintf("manifest: %s", e.Msg)
	}
}

// UnsupportedTypeError reports a package whose type has no registered
// backend. It surfaces at validation time so the failure happens before any
// package is fetched or built.
type UnsupportedTypeError struct {
	Package string
	Type    Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("package %s: unsupported type %q", e.Package, e.Type)
}
