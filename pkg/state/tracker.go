// pkg/state/tracker.go
package state

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/quarrybuild/quarry/pkg/manifest"
)

// RecordsFile is the per-prefix install state file. It lives inside the
// prefix so state travels with the artifacts, and reading it never needs the
// network.
const RecordsFile = "installed.toml"

// Status is the persisted outcome of a package's most recent run.
type Status string

const (
	StatusInstalled Status = "installed"
	StatusFailed    Status = "failed"
)

// Record is the persisted outcome for one package.
type Record struct {
	Name        string    `toml:"name"`
	Fingerprint string    `toml:"fingerprint"`
	Status      Status    `toml:"status"`
	InstallPath string    `toml:"install_path,omitempty"`
	BuiltAt     time.Time `toml:"built_at"`
}

// recordsDoc is the on-disk shape of the records file.
type recordsDoc struct {
	Packages map[string]Record `toml:"packages"`
}

// Tracker decides skip-vs-rebuild per package and persists install
// outcomes. Execution is single-threaded, so the tracker is a plain
// single-writer store: read before, written after each package's terminal
// transition.
type Tracker struct {
	path    string
	records map[string]Record
	logger  *log.Logger
}

// NewTracker loads (or initializes) the records file under prefix.
func NewTracker(prefix string, logger *log.Logger) (*Tracker, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	t := &Tracker{
		path:    filepath.Join(prefix, RecordsFile),
		records: make(map[string]Record),
		logger:  logger,
	}

	if _, err := os.Stat(t.path); os.IsNotExist(err) {
		return t, nil
	}

	var doc recordsDoc
	if _, err := toml.DecodeFile(t.path, &doc); err != nil {
		return nil, fmt.Errorf("reading install records %s: %w", t.path, err)
	}
	if doc.Packages != nil {
		t.records = doc.Packages
	}
	t.logger.Printf("Loaded %d install records from %s", len(t.records), t.path)
	return t, nil
}

// ShouldSkip reports whether spec is already installed with a matching
// fingerprint. A failed record, a missing record or a fingerprint mismatch
// all force a rebuild.
func (t *Tracker) ShouldSkip(spec manifest.ResolvedSpec) bool {
	rec, ok := t.records[spec.Name]
	return ok && rec.Status == StatusInstalled && rec.Fingerprint == Fingerprint(spec)
}

// RecordSuccess persists a successful install.
func (t *Tracker) RecordSuccess(spec manifest.ResolvedSpec, installPath string) error {
	t.records[spec.Name] = Record{
		Name:        spec.Name,
		Fingerprint: Fingerprint(spec),
		Status:      StatusInstalled,
		InstallPath: installPath,
		BuiltAt:     time.Now().UTC(),
	}
	return t.save()
}

// RecordFailure persists a failed build so a later run reports it and
// retries.
func (t *Tracker) RecordFailure(spec manifest.ResolvedSpec) error {
	t.records[spec.Name] = Record{
		Name:        spec.Name,
		Fingerprint: Fingerprint(spec),
		Status:      StatusFailed,
		BuiltAt:     time.Now().UTC(),
	}
	return t.save()
}

// Invalidate drops one package's record, forcing its rebuild.
func (t *Tracker) Invalidate(name string) error {
	if _, ok := t.records[name]; !ok {
		return nil
	}
	delete(t.records, name)
	return t.save()
}

// Reset drops every record.
func (t *Tracker) Reset() error {
	t.records = make(map[string]Record)
	return t.save()
}

// Records returns all records sorted by package name.
func (t *Tracker) Records() []Record {
	out := make([]Record, 0, len(t.records))
	for _, rec := range t.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (t *Tracker) save() error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return fmt.Errorf("creating prefix dir: %w", err)
	}

	f, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("writing install records: %w", err)
	}
	enc := toml.NewEncoder(f)
	err = enc.Encode(recordsDoc{Packages: t.records})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing install records: %w", err)
	}
	return nil
}
