package artifact

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the payload packaging of a resolved artifact.
type Kind int

const (
	KindJar Kind = iota
	KindAar
)

func (k Kind) String() string {
	switch k {
	case KindJar:
		return "jar"
	case KindAar:
		return "aar"
	}
	return "unknown"
}

// Identity is the version-independent key of an artifact. Two resolved
// artifacts with the same Identity are the same module as far as
// deduplication and edge matching are concerned.
type Identity struct {
	Group string
	Name  string
}

func (id Identity) String() string {
	return id.Group + ":" + id.Name
}

// ParseIdentity splits a "group:artifactId" dependency string. The second
// return value is false for strings without a group separator.
func ParseIdentity(s string) (Identity, bool) {
	group, name, ok := strings.Cut(s, ":")
	if !ok || group == "" || name == "" {
		return Identity{}, false
	}
	return Identity{Group: group, Name: name}, true
}

// Artifact is one entry of the resolved dependency set, as supplied by the
// external resolver. The engine never mutates it.
type Artifact struct {
	Group   string
	Name    string
	Version string
	File    string
	// Direct marks a top-level (non-transitive) dependency of the project.
	Direct bool
}

func (a Artifact) Identity() Identity {
	return Identity{Group: a.Group, Name: a.Name}
}

// Kind derives the payload packaging from the file extension. Anything other
// than .jar or .aar is a configuration error and aborts the run.
func (a Artifact) Kind() (Kind, error) {
	switch filepath.Ext(a.File) {
	case ".jar":
		return KindJar, nil
	case ".aar":
		return KindAar, nil
	}
	return 0, fmt.Errorf("unsupported artifact type %q for %s", filepath.Ext(a.File), a.Identity())
}

// PayloadName is the file name of the artifact payload as staged into libs/.
func (a Artifact) PayloadName() string {
	return filepath.Base(a.File)
}
