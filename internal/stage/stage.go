// Package stage copies vendored artifact payloads into the libs/ tree and
// gathers everything the generator needs to declare them.
package stage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"gradle2bp/internal/artifact"
	"gradle2bp/internal/classify"
	"gradle2bp/internal/manifest"
	"gradle2bp/internal/naming"
	"gradle2bp/internal/pomscan"
)

// Staged is one vendored artifact after staging: payload copied, manifest
// extracted (for aars), transitive dependencies collected.
type Staged struct {
	Artifact   artifact.Artifact
	Kind       artifact.Kind
	ModuleName string
	// PayloadRel and ManifestRel are relative to the libs/ directory, which is
	// how the emitted declarations reference them.
	PayloadRel  string
	ManifestRel string
	SDK         manifest.SDKBounds
	// RawDeps is the flattened POM scan in discovery order, unfiltered.
	RawDeps []string
}

// Stager walks the resolved set once and stages every vendored artifact.
type Stager struct {
	classifier *classify.Classifier
	scanner    pomscan.Scanner
	prefix     string
	libsDir    string
	defaults   manifest.SDKBounds
	logger     *log.Logger
}

func New(classifier *classify.Classifier, scanner pomscan.Scanner, prefix, libsDir string, defaults manifest.SDKBounds, logger *log.Logger) *Stager {
	return &Stager{
		classifier: classifier,
		scanner:    scanner,
		prefix:     prefix,
		libsDir:    libsDir,
		defaults:   defaults,
		logger:     logger,
	}
}

// Run stages the resolved artifact set. The libs/ tree is deleted and rebuilt
// from scratch, so a retried run always starts clean.
func (s *Stager) Run(resolved []artifact.Artifact) ([]Staged, error) {
	var vendored []artifact.Artifact
	for _, a := range Dedup(resolved) {
		if s.classifier.Classify(a.Identity()) == classify.Platform {
			s.logger.Debug("skipping platform module", "module", a.Identity())
			continue
		}
		vendored = append(vendored, a)
	}

	// Only names that will actually be emitted can collide.
	if err := checkCollisions(vendored, s.prefix); err != nil {
		return nil, err
	}

	if err := os.RemoveAll(s.libsDir); err != nil {
		return nil, fmt.Errorf("failed to clear %s: %w", s.libsDir, err)
	}
	if err := os.MkdirAll(s.libsDir, 0755); err != nil {
		return nil, err
	}

	var staged []Staged
	for _, a := range vendored {
		st, err := s.stageOne(a)
		if err != nil {
			return nil, err
		}
		staged = append(staged, st)
	}

	return staged, nil
}

func (s *Stager) stageOne(a artifact.Artifact) (Staged, error) {
	kind, err := a.Kind()
	if err != nil {
		return Staged{}, err
	}

	destRel := filepath.Join(a.Group, a.Name)
	destDir := filepath.Join(s.libsDir, destRel)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return Staged{}, err
	}
	if err := copyFile(a.File, filepath.Join(destDir, a.PayloadName())); err != nil {
		return Staged{}, fmt.Errorf("failed to stage %s: %w", a.Identity(), err)
	}

	st := Staged{
		Artifact:   a,
		Kind:       kind,
		ModuleName: naming.Vendor(s.prefix, a.Identity()),
		PayloadRel: filepath.ToSlash(filepath.Join(destRel, a.PayloadName())),
		SDK:        s.defaults,
	}

	if kind == artifact.KindAar {
		manifestPath, err := manifest.ExtractFromAar(a.File, destDir)
		if err != nil {
			return Staged{}, err
		}
		st.ManifestRel = filepath.ToSlash(filepath.Join(destRel, filepath.Base(manifestPath)))
		st.SDK = manifest.ParseSDKBounds(manifestPath, s.defaults, s.logger)
	}

	deps, err := s.scanner.Dependencies(a)
	if err != nil {
		return Staged{}, fmt.Errorf("failed to scan POMs for %s: %w", a.Identity(), err)
	}
	st.RawDeps = deps

	return st, nil
}

// Dedup sorts the resolved set by vendor key and collapses duplicate
// identities, keeping the first survivor of the sort. Processing order after
// Dedup is the deterministic order of the whole run.
func Dedup(resolved []artifact.Artifact) []artifact.Artifact {
	ordered := make([]artifact.Artifact, len(resolved))
	copy(ordered, resolved)
	sort.SliceStable(ordered, func(i, j int) bool {
		return naming.VendorKey(ordered[i].Identity()) < naming.VendorKey(ordered[j].Identity())
	})

	seen := make(map[artifact.Identity]bool, len(ordered))
	out := ordered[:0]
	for _, a := range ordered {
		if seen[a.Identity()] {
			continue
		}
		seen[a.Identity()] = true
		out = append(out, a)
	}
	return out
}

// checkCollisions rejects two distinct vendored identities that would render
// the same module name. Silent overwrite here would corrupt the emitted set.
func checkCollisions(vendored []artifact.Artifact, prefix string) error {
	byName := make(map[string]artifact.Identity, len(vendored))
	for _, a := range vendored {
		name := naming.Vendor(prefix, a.Identity())
		if prev, ok := byName[name]; ok {
			return fmt.Errorf("module name collision: %s and %s both render as %q", prev, a.Identity(), name)
		}
		byName[name] = a.Identity()
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
