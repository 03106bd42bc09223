// errors.go
package quarry

import (
	"errors"

	"github.com/quarrybuild/quarry/pkg/backend"
	"github.com/quarrybuild/quarry/pkg/fetch"
	"github.com/quarrybuild/quarry/pkg/manifest"
)

// The error taxonomy, re-exported from the packages that raise them.
type (
	// ManifestError is fatal before any fetch or build work begins.
	ManifestError = manifest.Error

	// UnsupportedTypeError surfaces at manifest validation, not dispatch.
	UnsupportedTypeError = manifest.UnsupportedTypeError

	// FetchError leaves the failing package unchanged on disk.
	FetchError = fetch.Error
)

// IsManifestError reports whether err stems from the manifest itself rather
// than from fetching or building; callers use it to pick an exit code.
func IsManifestError(err error) bool {
	var me *manifest.Error
	var ute *manifest.UnsupportedTypeError
	return errors.As(err, &me) || errors.As(err, &ute)
}

// FailedPhase extracts the build phase from a pipeline error, or "" when the
// error carries none.
func FailedPhase(err error) backend.Phase {
	var be *backend.BuildError
	if errors.As(err, &be) {
		return be.Phase
	}
	var fe *fetch.Error
	if errors.As(err, &fe) {
		return backend.PhaseFetch
	}
	return ""
}
