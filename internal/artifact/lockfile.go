package artifact

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type lockfile struct {
	Artifacts []lockEntry `yaml:"artifacts"`
}

type lockEntry struct {
	Group   string `yaml:"group"`
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	File    string `yaml:"file"`
	Direct  bool   `yaml:"direct"`
}

// LoadLockfile reads the resolved-artifact list written by the external
// resolver. The list may contain duplicate identities at different versions;
// deduplication is the stager's job, not the loader's.
func LoadLockfile(path string) ([]Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}

	var lf lockfile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse lockfile: %w", err)
	}

	artifacts := make([]Artifact, 0, len(lf.Artifacts))
	for _, e := range lf.Artifacts {
		if e.Group == "" || e.Name == "" {
			return nil, fmt.Errorf("lockfile entry missing group or name: %+v", e)
		}
		artifacts = append(artifacts, Artifact{
			Group:   e.Group,
			Name:    e.Name,
			Version: e.Version,
			File:    e.File,
			Direct:  e.Direct,
		})
	}

	return artifacts, nil
}
