// pkg/manifest/parser.go
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// optionsKey is the base attribute name for backend options; keys of the form
// "options+<flag>+<flag>" hold platform-conditional additions.
const optionsKey = "options"

// Load reads, parses and validates a manifest file. The format is chosen by
// extension: .json, .yaml/.yml, anything else is the text format.
func Load(path string) ([]PackageSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Msg: err.Error()}
	}

	var specs []PackageSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		specs, err = Parse(data)
	case ".yaml", ".yml":
		specs, err = ParseYAML(data)
	default:
		specs, err = ParseText(data)
	}
	if err != nil {
		if me, ok := err.(*Error); ok && me.Path == "" {
			me.Path = path
		}
		return nil, err
	}

	if err := Validate(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// Parse decodes a JSON manifest: an array of package objects.
func Parse(data []byte) ([]PackageSpec, error) {
	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Msg: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return fromRawEntries(raw)
}

// ParseYAML decodes a YAML manifest with the same shape as the JSON form.
func ParseYAML(data []byte) ([]PackageSpec, error) {
	var raw []map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Msg: fmt.Sprintf("invalid YAML: %v", err)}
	}
	return fromRawEntries(raw)
}

func fromRawEntries(raw []map[string]interface{}) ([]PackageSpec, error) {
	specs := make([]PackageSpec, 0, len(raw))
	for i, entry := range raw {
		spec, err := fromRaw(entry)
		if err != nil {
			return nil, &Error{Msg: fmt.Sprintf("entry %d: %v", i, err)}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// fromRaw builds a PackageSpec from a decoded attribute map. Option values
// may be a single string or a list of strings.
func fromRaw(entry map[string]interface{}) (PackageSpec, error) {
	var spec PackageSpec

	// Deterministic attribute order keeps error messages stable.
	keys := make([]string, 0, len(entry))
	for k := range entry {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := entry[key]

		if key == optionsKey || strings.HasPrefix(key, optionsKey+"+") {
			opts, err := toStringList(value)
			if err != nil {
				return spec, fmt.Errorf("attribute %q: %v", key, err)
			}
			if key == optionsKey {
				spec.Options = opts
				continue
			}
			if spec.PlatformOptions == nil {
				spec.PlatformOptions = make(map[string][]string)
			}
			expr := strings.TrimPrefix(key, optionsKey+"+")
			spec.PlatformOptions[expr] = opts
			continue
		}

		str, err := toString(value)
		if err != nil {
			return spec, fmt.Errorf("attribute %q: %v", key, err)
		}

		switch key {
		case "name":
			spec.Name = strings.TrimSpace(str)
		case "type":
			spec.Type = normalizeType(str)
		case "src":
			spec.Src = strings.TrimSpace(str)
		case "interface":
			spec.Interface = strings.TrimSpace(str)
		case "target":
			spec.Target = strings.TrimSpace(str)
		case "notes":
			spec.Notes = str
		default:
			return spec, fmt.Errorf("unknown attribute %q", key)
		}
	}

	return spec, nil
}

// normalizeType maps spelling variants onto the canonical type tags.
func normalizeType(s string) Type {
	t := Type(strings.TrimSpace(s))
	if t == "config-make" {
		return TypeConfigMake
	}
	return t
}

func toString(v interface{}) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []interface{}:
		// Multi-line notes and the like collapse to one string.
		parts := make([]string, 0, len(s))
		for _, item := range s {
			str, err := toString(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, str)
		}
		return strings.Join(parts, " "), nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func toStringList(v interface{}) ([]string, error) {
	switch s := v.(type) {
	case string:
		return []string{s}, nil
	case []string:
		return s, nil
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string list item, got %T", item)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string or string list, got %T", v)
	}
}

// Validate checks the manifest structurally: required fields, unique names
// and known types. It deliberately does not check URL reachability or option
// syntax; those failures surface at build time.
func Validate(specs []PackageSpec) error {
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			return &Error{Msg: "package with empty name"}
		}
		if seen[spec.Name] {
			return &Error{Msg: fmt.Sprintf("duplicate package name %q", spec.Name)}
		}
		seen[spec.Name] = true

		if spec.Src == "" {
			return &Error{Msg: fmt.Sprintf("package %s: missing src", spec.Name)}
		}
		if spec.Type == "" {
			return &Error{Msg: fmt.Sprintf("package %s: missing type", spec.Name)}
		}
		if !IsKnown(spec.Type) {
			return &UnsupportedTypeError{Package: spec.Name, Type: spec.Type}
		}
		if spec.Type == TypeHeader && spec.Interface == "" {
			return &Error{Msg: fmt.Sprintf("package %s: header type requires an interface path", spec.Name)}
		}
	}
	return nil
}
