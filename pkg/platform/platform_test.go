// pkg/platform/platform_test.go
package platform

import (
	"reflect"
	"testing"

	"github.com/quarrybuild/quarry/pkg/manifest"
)

func TestTagsFor(t *testing.T) {
	tags := tagsFor("linux", "arm64")
	want := []string{"aarch64", "arm64", "linux"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("tagsFor = %v, want %v", tags, want)
	}
}

func TestMatch(t *testing.T) {
	linuxArm := []string{"aarch64", "arm64", "linux"}
	linuxAmd := []string{"amd64", "linux", "x86_64"}

	tests := []struct {
		expr string
		tags []string
		want bool
	}{
		{"arm64", linuxArm, true},
		{"arm64", linuxAmd, false},
		{"aarch64", linuxArm, true},
		{"linux+arm64", linuxArm, true},
		{"linux+arm64", linuxAmd, false},
		{"!arm64", linuxAmd, true},
		{"!arm64", linuxArm, false},
		{"linux+!arm64", linuxAmd, true},
		{"linux+!arm64", linuxArm, false},
		{"darwin", linuxArm, false},
		{"", linuxArm, true},
	}

	for _, tt := range tests {
		if got := Match(tt.expr, tt.tags); got != tt.want {
			t.Errorf("Match(%q, %v) = %v, want %v", tt.expr, tt.tags, got, tt.want)
		}
	}
}

func TestResolveMergesMatchingOptions(t *testing.T) {
	spec := manifest.PackageSpec{
		Name:    "lib",
		Type:    manifest.TypeCMake,
		Src:     "https://example.com/lib.tar.gz",
		Options: []string{"BASE ON"},
		PlatformOptions: map[string][]string{
			"arm64":  {"ARM ON"},
			"darwin": {"MAC ON"},
		},
		Notes: "ignored",
	}

	onArm := Resolve(spec, []string{"arm64", "linux"})
	if want := []string{"BASE ON", "ARM ON"}; !reflect.DeepEqual(onArm.Options, want) {
		t.Errorf("arm64 Options = %v, want %v", onArm.Options, want)
	}

	onAmd := Resolve(spec, []string{"amd64", "linux"})
	if want := []string{"BASE ON"}; !reflect.DeepEqual(onAmd.Options, want) {
		t.Errorf("amd64 Options = %v, want %v", onAmd.Options, want)
	}
}

func TestResolveKeepsRepeatedFlags(t *testing.T) {
	spec := manifest.PackageSpec{
		Name:    "lib",
		Options: []string{"SHARED OFF"},
		PlatformOptions: map[string][]string{
			"linux": {"SHARED ON"},
		},
	}

	resolved := Resolve(spec, []string{"linux"})
	want := []string{"SHARED OFF", "SHARED ON"}
	if !reflect.DeepEqual(resolved.Options, want) {
		t.Errorf("Options = %v, want %v (no dedup, base first)", resolved.Options, want)
	}
}

func TestResolveDeterministic(t *testing.T) {
	spec := manifest.PackageSpec{
		Name: "lib",
		PlatformOptions: map[string][]string{
			"linux":  {"A"},
			"x86_64": {"B"},
			"!never": {"C"},
		},
	}
	tags := []string{"linux", "x86_64"}

	first := Resolve(spec, tags)
	for i := 0; i < 20; i++ {
		if got := Resolve(spec, tags); !reflect.DeepEqual(got, first) {
			t.Fatalf("Resolve not deterministic: %v vs %v", got, first)
		}
	}
}

func TestResolveDoesNotMutateSpec(t *testing.T) {
	spec := manifest.PackageSpec{
		Name:    "lib",
		Options: []string{"A"},
		PlatformOptions: map[string][]string{
			"linux": {"B"},
		},
	}

	resolved := Resolve(spec, []string{"linux"})
	resolved.Options[0] = "MUTATED"

	if spec.Options[0] != "A" {
		t.Errorf("base spec mutated: %v", spec.Options)
	}
}
