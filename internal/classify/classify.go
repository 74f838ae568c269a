// Package classify decides whether a dependency is already provided by the
// target platform or has to be vendored into the project.
package classify

import (
	"gradle2bp/internal/artifact"
)

type Classification int

const (
	Vendored Classification = iota
	Platform
)

func (c Classification) String() string {
	if c == Platform {
		return "platform"
	}
	return "vendored"
}

// Predicate reports whether the platform tree already provides a prebuilt for
// the given coordinates. Supplied by the caller; typically backed by the
// project configuration.
type Predicate func(group, name string) bool

const (
	kotlinGroup        = "org.jetbrains.kotlin"
	kotlinStdlibCommon = "kotlin-stdlib-common"
	kotlinBOM          = "kotlin-bom"
)

// Classifier wraps the availability predicate. It carries no process-wide
// state; classification is recomputed on every call.
type Classifier struct {
	available Predicate
}

func New(available Predicate) *Classifier {
	return &Classifier{available: available}
}

func (c *Classifier) Classify(id artifact.Identity) Classification {
	if c.available != nil && c.available(id.Group, id.Name) {
		return Platform
	}
	return Vendored
}

// ExcludedEdge reports whether an identity must never appear as a dependency
// edge, regardless of classification. kotlin-stdlib-common shows up in
// transitive POM scans but declaring it produces an unwanted edge.
func ExcludedEdge(id artifact.Identity) bool {
	return id.Group == kotlinGroup && id.Name == kotlinStdlibCommon
}

// ExcludedTopLevel reports whether an identity is dropped from the top-level
// dependency list. The Kotlin bill-of-materials pins versions and is not a
// module.
func ExcludedTopLevel(id artifact.Identity) bool {
	return id.Group == kotlinGroup && id.Name == kotlinBOM
}
