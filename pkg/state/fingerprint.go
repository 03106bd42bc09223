// pkg/state/fingerprint.go
package state

import (
	"io"

	"zombiezen.com/go/nix"

	"github.com/quarrybuild/quarry/pkg/manifest"
)

// Fingerprint returns a stable content hash over every field of a resolved
// spec, rendered in nix base32. Any change to the name, type, URL, merged
// options, interface path or make target yields a different fingerprint and
// so forces a rebuild of that package only.
func Fingerprint(spec manifest.ResolvedSpec) string {
	h := nix.NewHasher(nix.SHA256)

	field := func(label, value string) {
		io.WriteString(h, label)
		h.Write([]byte{0})
		io.WriteString(h, value)
		h.Write([]byte{'\n'})
	}

	field("name", spec.Name)
	field("type", string(spec.Type))
	field("src", spec.Src)
	for _, opt := range spec.Options {
		field("option", opt)
	}
	field("interface", spec.Interface)
	field("target", spec.Target)

	return h.SumHash().RawBase32()
}
