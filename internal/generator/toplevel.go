package generator

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gradle2bp/internal/artifact"
	"gradle2bp/internal/classify"
	"gradle2bp/internal/naming"
	"gradle2bp/internal/stage"
)

// staticLibsRegion matches the managed span of the top-level Android.bp: the
// literal static_libs key followed by its bracketed list, across lines.
var staticLibsRegion = regexp.MustCompile(`(?s)static_libs: \[.*?\]`)

// TopLevelNames renders the flat list of direct dependencies for the managed
// region: sorted, deduplicated, classified, with the Kotlin BOM dropped.
func TopLevelNames(resolved []artifact.Artifact, classifier *classify.Classifier, prefix string) []string {
	var names []string
	for _, a := range stage.Dedup(resolved) {
		if !a.Direct {
			continue
		}
		id := a.Identity()
		if classify.ExcludedTopLevel(id) {
			continue
		}
		if classifier.Classify(id) == classify.Platform {
			names = append(names, naming.Platform(id))
		} else {
			names = append(names, naming.Vendor(prefix, id))
		}
	}
	return names
}

// RewriteTopLevel replaces the managed static_libs region of the top-level
// descriptor with the given names. Everything outside the region is left
// byte-for-byte untouched.
func RewriteTopLevel(path string, names []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	loc := staticLibsRegion.FindIndex(data)
	if loc == nil {
		return fmt.Errorf("no static_libs region found in %s", path)
	}

	var region strings.Builder
	region.WriteString("static_libs: [\n")
	for _, name := range names {
		fmt.Fprintf(&region, "        %q,\n", name)
	}
	region.WriteString("    ]")

	var out []byte
	out = append(out, data[:loc[0]]...)
	out = append(out, region.String()...)
	out = append(out, data[loc[1]:]...)

	return os.WriteFile(path, out, 0644)
}
