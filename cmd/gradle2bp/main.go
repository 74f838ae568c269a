package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"gradle2bp/internal/artifact"
	"gradle2bp/internal/classify"
	"gradle2bp/internal/config"
	"gradle2bp/internal/generator"
	"gradle2bp/internal/manifest"
	"gradle2bp/internal/naming"
	"gradle2bp/internal/pomscan"
	"gradle2bp/internal/resolver"
	"gradle2bp/internal/stage"
)

var (
	rootCmd = &cobra.Command{
		Use:   "gradle2bp",
		Short: "Convert resolved Gradle dependencies into Soong module declarations",
	}
	configPath   string
	lockfilePath string
	debug        bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "gradle2bp.yaml", "Path to the project configuration")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log skip decisions and fallbacks")

	generateCmd.Flags().StringVarP(&lockfilePath, "lockfile", "l", "deps.lock.yaml", "Path to the resolved-artifact lockfile")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(verifyCmd)
}

// newLogger builds the run logger. The happy path is silent; --debug surfaces
// every skip decision.
func newLogger() *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Level:           level,
	})
}

// platformAvailability combines the configured platform modules with the
// naming override table, whose entries are platform-provided whether or not
// the configuration lists them.
func platformAvailability(cfg *config.Config) classify.Predicate {
	configured := cfg.AvailabilityPredicate()
	overridden := make(map[artifact.Identity]bool)
	for _, id := range naming.OverriddenIdentities() {
		overridden[id] = true
	}
	return func(group, name string) bool {
		return configured(group, name) || overridden[artifact.Identity{Group: group, Name: name}]
	}
}

func loadResolved(path string) ([]artifact.Artifact, error) {
	resolved, err := artifact.LoadLockfile(path)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		return nil, fmt.Errorf("lockfile %s lists no artifacts", path)
	}
	return resolved, nil
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Stage vendored artifacts into libs/ and regenerate the module declarations",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		resolved, err := loadResolved(lockfilePath)
		if err != nil {
			return err
		}

		classifier := classify.New(platformAvailability(cfg))
		scanner := pomscan.NewCacheScanner(logger)
		defaults := manifest.SDKBounds{Target: cfg.Project.TargetSDK, Min: cfg.Project.MinSDK}

		// 1. Stage payloads into a fresh libs/ tree
		stager := stage.New(classifier, scanner, cfg.Project.Prefix, cfg.Paths.LibsDir, defaults, logger)
		staged, err := stager.Run(resolved)
		if err != nil {
			return err
		}

		// 2. Emit one declaration pair per vendored artifact
		edges := resolver.New(classifier, resolved, cfg.Project.Prefix, logger)
		emitter := generator.NewEmitter(edges, filepath.Join(cfg.Paths.LibsDir, "Android.bp"))
		if err := emitter.EmitAll(staged); err != nil {
			return err
		}

		// 3. Rewrite the managed region of the top-level descriptor
		names := generator.TopLevelNames(resolved, classifier, cfg.Project.Prefix)
		if err := generator.RewriteTopLevel(cfg.Paths.TopLevelBp, names); err != nil {
			return err
		}

		fmt.Printf("Staged %d modules into %s\n", len(staged), cfg.Paths.LibsDir)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the generated Android.bp files parse",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		for _, path := range []string{filepath.Join(cfg.Paths.LibsDir, "Android.bp"), cfg.Paths.TopLevelBp} {
			if err := generator.Verify(path); err != nil {
				return err
			}
			fmt.Printf("%s: ok\n", path)
		}
		return nil
	},
}
