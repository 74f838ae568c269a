package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultMinSDK is used when neither the manifest nor the config declares a
// minimum SDK.
const DefaultMinSDK = 14

type Config struct {
	Project struct {
		// Prefix is prepended to every synthesized vendor module name.
		Prefix    string `yaml:"prefix"`
		TargetSDK int    `yaml:"target_sdk"`
		MinSDK    int    `yaml:"min_sdk"`
	} `yaml:"project"`
	Paths struct {
		LibsDir    string `yaml:"libs_dir"`
		TopLevelBp string `yaml:"top_level_bp"`
	} `yaml:"paths"`
	// PlatformModules lists "group:name" coordinates already provided by the
	// platform tree. An entry of "group:*" covers every artifact of a group.
	PlatformModules []string `yaml:"platform_modules"`
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if prefix := os.Getenv("GRADLE2BP_PREFIX"); prefix != "" {
		cfg.Project.Prefix = prefix
	}
	if target := os.Getenv("GRADLE2BP_TARGET_SDK"); target != "" {
		v, err := strconv.Atoi(target)
		if err != nil {
			return nil, fmt.Errorf("GRADLE2BP_TARGET_SDK must be numeric: %w", err)
		}
		cfg.Project.TargetSDK = v
	}
	if min := os.Getenv("GRADLE2BP_MIN_SDK"); min != "" {
		v, err := strconv.Atoi(min)
		if err != nil {
			return nil, fmt.Errorf("GRADLE2BP_MIN_SDK must be numeric: %w", err)
		}
		cfg.Project.MinSDK = v
	}
	if libsDir := os.Getenv("GRADLE2BP_LIBS_DIR"); libsDir != "" {
		cfg.Paths.LibsDir = libsDir
	}
	if topLevel := os.Getenv("GRADLE2BP_TOP_LEVEL_BP"); topLevel != "" {
		cfg.Paths.TopLevelBp = topLevel
	}

	cfg.applyDefaults()

	if cfg.Project.Prefix == "" {
		return nil, fmt.Errorf("project.prefix must be set")
	}
	if cfg.Project.TargetSDK == 0 {
		return nil, fmt.Errorf("project.target_sdk must be set")
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Project.MinSDK == 0 {
		c.Project.MinSDK = DefaultMinSDK
	}
	if c.Paths.LibsDir == "" {
		c.Paths.LibsDir = "libs"
	}
	if c.Paths.TopLevelBp == "" {
		c.Paths.TopLevelBp = "Android.bp"
	}
}

// AvailabilityPredicate builds the platform-availability check from the
// configured module list.
func (c *Config) AvailabilityPredicate() func(group, name string) bool {
	exact := make(map[string]bool, len(c.PlatformModules))
	groups := make(map[string]bool)
	for _, entry := range c.PlatformModules {
		if g, ok := wildcardGroup(entry); ok {
			groups[g] = true
			continue
		}
		exact[entry] = true
	}

	return func(group, name string) bool {
		return exact[group+":"+name] || groups[group]
	}
}

func wildcardGroup(entry string) (string, bool) {
	const suffix = ":*"
	if len(entry) > len(suffix) && entry[len(entry)-len(suffix):] == suffix {
		return entry[:len(entry)-len(suffix)], true
	}
	return "", false
}
