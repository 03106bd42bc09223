// pkg/state/tracker_test.go
package state

import (
	"testing"

	"github.com/quarrybuild/quarry/pkg/manifest"
)

func sampleSpec() manifest.ResolvedSpec {
	return manifest.ResolvedSpec{
		Name:    "zlib",
		Type:    manifest.TypeCMake,
		Src:     "https://example.com/zlib.tar.gz",
		Options: []string{"BUILD_SHARED_LIBS ON"},
	}
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint(sampleSpec())
	b := Fingerprint(sampleSpec())
	if a != b {
		t.Errorf("fingerprint not stable: %s vs %s", a, b)
	}
	if a == "" {
		t.Error("empty fingerprint")
	}
}

func TestFingerprintChangesWithAnyField(t *testing.T) {
	base := Fingerprint(sampleSpec())

	mutations := map[string]func(*manifest.ResolvedSpec){
		"name":    func(s *manifest.ResolvedSpec) { s.Name = "zlib2" },
		"type":    func(s *manifest.ResolvedSpec) { s.Type = manifest.TypeConfigMake },
		"src":     func(s *manifest.ResolvedSpec) { s.Src = "https://example.com/zlib-2.tar.gz" },
		"option":  func(s *manifest.ResolvedSpec) { s.Options = []string{"BUILD_SHARED_LIBS OFF"} },
		"added":   func(s *manifest.ResolvedSpec) { s.Options = append(s.Options, "EXTRA ON") },
		"iface":   func(s *manifest.ResolvedSpec) { s.Interface = "include" },
		"target":  func(s *manifest.ResolvedSpec) { s.Target = "build_sw" },
		"dropped": func(s *manifest.ResolvedSpec) { s.Options = nil },
	}

	for name, mutate := range mutations {
		spec := sampleSpec()
		mutate(&spec)
		if Fingerprint(spec) == base {
			t.Errorf("mutation %q did not change the fingerprint", name)
		}
	}
}

func TestFingerprintFieldBoundaries(t *testing.T) {
	a := manifest.ResolvedSpec{Name: "ab", Src: "c"}
	b := manifest.ResolvedSpec{Name: "a", Src: "bc"}
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("field contents bleed across boundaries")
	}
}

func TestTrackerLifecycle(t *testing.T) {
	prefix := t.TempDir()
	tracker, err := NewTracker(prefix, nil)
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}

	spec := sampleSpec()
	if tracker.ShouldSkip(spec) {
		t.Error("ShouldSkip true before any record")
	}

	if err := tracker.RecordSuccess(spec, prefix); err != nil {
		t.Fatalf("RecordSuccess: %v", err)
	}
	if !tracker.ShouldSkip(spec) {
		t.Error("ShouldSkip false after success")
	}

	// A changed option must invalidate this package.
	changed := spec
	changed.Options = []string{"BUILD_SHARED_LIBS OFF"}
	if tracker.ShouldSkip(changed) {
		t.Error("ShouldSkip true for changed spec")
	}

	if err := tracker.RecordFailure(spec); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if tracker.ShouldSkip(spec) {
		t.Error("ShouldSkip true for failed record")
	}
}

func TestTrackerPersistsAcrossRuns(t *testing.T) {
	prefix := t.TempDir()
	spec := sampleSpec()

	first, err := NewTracker(prefix, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.RecordSuccess(spec, prefix); err != nil {
		t.Fatal(err)
	}

	second, err := NewTracker(prefix, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !second.ShouldSkip(spec) {
		t.Error("record did not survive reload")
	}

	records := second.Records()
	if len(records) != 1 || records[0].Name != "zlib" || records[0].Status != StatusInstalled {
		t.Errorf("Records = %+v", records)
	}
}

func TestTrackerInvalidateAndReset(t *testing.T) {
	prefix := t.TempDir()
	tracker, err := NewTracker(prefix, nil)
	if err != nil {
		t.Fatal(err)
	}

	spec := sampleSpec()
	if err := tracker.RecordSuccess(spec, prefix); err != nil {
		t.Fatal(err)
	}

	if err := tracker.Invalidate(spec.Name); err != nil {
		t.Fatal(err)
	}
	if tracker.ShouldSkip(spec) {
		t.Error("ShouldSkip true after Invalidate")
	}

	if err := tracker.RecordSuccess(spec, prefix); err != nil {
		t.Fatal(err)
	}
	if err := tracker.Reset(); err != nil {
		t.Fatal(err)
	}
	if len(tracker.Records()) != 0 {
		t.Error("records remain after Reset")
	}
}
