// Package resolver turns the raw transitive dependencies of a vendored
// artifact into the rendered edge lists of its emitted module declarations.
package resolver

import (
	"github.com/charmbracelet/log"

	"gradle2bp/internal/artifact"
	"gradle2bp/internal/classify"
	"gradle2bp/internal/naming"
)

// EdgeResolver filters, deduplicates and renders dependency edges. It holds
// an index of the full resolved set so edges to modules that were never
// resolved can be dropped instead of emitted dangling.
type EdgeResolver struct {
	classifier *classify.Classifier
	resolved   map[artifact.Identity]bool
	prefix     string
	logger     *log.Logger
}

func New(classifier *classify.Classifier, resolved []artifact.Artifact, prefix string, logger *log.Logger) *EdgeResolver {
	index := make(map[artifact.Identity]bool, len(resolved))
	for _, a := range resolved {
		index[a.Identity()] = true
	}
	return &EdgeResolver{
		classifier: classifier,
		resolved:   index,
		prefix:     prefix,
		logger:     logger,
	}
}

// Resolve renders the edge list for one module declaration. rawDeps is the
// flattened POM scan in discovery order, possibly with duplicates. When
// wantNoDepsEdge is set, the artifact's own -nodeps import is prepended; it is
// never filtered and always comes first.
func (r *EdgeResolver) Resolve(a artifact.Artifact, rawDeps []string, wantNoDepsEdge bool) []string {
	var edges []string
	if wantNoDepsEdge {
		edges = append(edges, naming.Vendor(r.prefix, a.Identity())+"-nodeps")
	}

	seen := make(map[string]bool, len(rawDeps))
	for _, raw := range rawDeps {
		if seen[raw] {
			continue
		}
		seen[raw] = true

		id, hasGroup := artifact.ParseIdentity(raw)
		if hasGroup {
			if classify.ExcludedEdge(id) {
				r.logger.Debug("dropping excluded edge", "from", a.Identity(), "edge", raw)
				continue
			}
			if !r.resolved[id] {
				r.logger.Debug("dropping edge to unresolved module", "from", a.Identity(), "edge", raw)
				continue
			}
		}

		edges = append(edges, r.render(raw, id, hasGroup))
	}

	return edges
}

func (r *EdgeResolver) render(raw string, id artifact.Identity, hasGroup bool) string {
	if !hasGroup {
		return naming.VendorSingle(r.prefix, raw)
	}
	if r.classifier.Classify(id) == classify.Platform {
		return naming.Platform(id)
	}
	return naming.Vendor(r.prefix, id)
}
