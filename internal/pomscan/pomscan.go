// Package pomscan discovers the POM metadata of a resolved artifact and
// flattens the declared dependencies into plain "group:artifactId" strings.
// It is the only place that knows the on-disk layout of the resolver cache.
package pomscan

import (
	"encoding/xml"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"gradle2bp/internal/artifact"
)

// Scanner supplies the flattened transitive dependencies of an artifact. The
// edge resolver consumes only these strings and never touches the filesystem.
type Scanner interface {
	Dependencies(a artifact.Artifact) ([]string, error)
}

// CacheScanner reads POM files from a Gradle-style artifact cache, where a
// payload sits at .../group/name/version/<hash>/payload and the POM lives in a
// sibling hash directory of the same version.
type CacheScanner struct {
	logger *log.Logger
}

func NewCacheScanner(logger *log.Logger) *CacheScanner {
	return &CacheScanner{logger: logger}
}

// Dependencies walks the artifact's version directory, parses every POM found
// there and returns the declared dependencies in discovery order. Duplicates
// are kept; deduplication happens in the edge resolver. The walk is scoped to
// the artifact's own version so sibling versions never leak in.
func (s *CacheScanner) Dependencies(a artifact.Artifact) ([]string, error) {
	root := versionDir(a.File)

	var deps []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".pom") {
			return nil
		}

		found, err := parsePom(path)
		if err != nil {
			// A malformed POM costs us its edges, not the run.
			s.logger.Debug("skipping unparsable POM", "pom", path, "error", err)
			return nil
		}
		deps = append(deps, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deps, nil
}

// versionDir maps a payload path to the version directory that holds every
// hash directory for this artifact version.
func versionDir(payload string) string {
	return filepath.Dir(filepath.Dir(payload))
}

type pomProject struct {
	XMLName      xml.Name        `xml:"project"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

func parsePom(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var project pomProject
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil, err
	}

	deps := make([]string, 0, len(project.Dependencies))
	for _, d := range project.Dependencies {
		if d.GroupID == "" || d.ArtifactID == "" {
			continue
		}
		deps = append(deps, d.GroupID+":"+d.ArtifactID)
	}
	return deps, nil
}
