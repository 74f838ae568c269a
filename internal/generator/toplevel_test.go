package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradle2bp/internal/artifact"
)

const topLevelBp = `android_app {
    name: "ExampleApp",
    srcs: ["src/**/*.java"],
    static_libs: [
        "stale_entry",
    ],
    optimize: {
        enabled: false,
    },
}
`

func TestTopLevelNames(t *testing.T) {
	names := TopLevelNames(testResolved, testClassifier(), "Example")

	t.Run("Sorted, classified, BOM excluded", func(t *testing.T) {
		assert.Equal(t, []string{
			"androidx-constraintlayout_constraintlayout",
			"Example_com.example_app-lib",
			"Example_com.google.guava_guava",
		}, names)
	})

	t.Run("Transitive artifacts are left out", func(t *testing.T) {
		resolved := make([]artifact.Artifact, len(testResolved))
		copy(resolved, testResolved)
		resolved[0].Direct = false

		names := TopLevelNames(resolved, testClassifier(), "Example")
		assert.NotContains(t, names, "Example_com.google.guava_guava")
	})
}

func TestRewriteTopLevel(t *testing.T) {
	t.Run("Replaces only the managed region", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Android.bp")
		require.NoError(t, os.WriteFile(path, []byte(topLevelBp), 0644))

		err := RewriteTopLevel(path, []string{"Example_com.google.guava_guava", "androidx-constraintlayout_constraintlayout"})
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		out := string(content)

		assert.NotContains(t, out, "stale_entry")
		assert.Contains(t, out, `        "Example_com.google.guava_guava",`)
		assert.Contains(t, out, `        "androidx-constraintlayout_constraintlayout",`)

		// Everything outside the region survives untouched.
		assert.Contains(t, out, `name: "ExampleApp",`)
		assert.Contains(t, out, "optimize: {")

		assert.NoError(t, Verify(path))
	})

	t.Run("Rewrite is idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Android.bp")
		require.NoError(t, os.WriteFile(path, []byte(topLevelBp), 0644))

		names := []string{"Example_com.google.guava_guava"}
		require.NoError(t, RewriteTopLevel(path, names))
		first, err := os.ReadFile(path)
		require.NoError(t, err)

		require.NoError(t, RewriteTopLevel(path, names))
		second, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Missing region is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Android.bp")
		require.NoError(t, os.WriteFile(path, []byte(`android_app { name: "ExampleApp" }`), 0644))

		err := RewriteTopLevel(path, nil)
		assert.ErrorContains(t, err, "no static_libs region")
	})
}

func TestVerify(t *testing.T) {
	t.Run("Rejects broken blueprint", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Android.bp")
		require.NoError(t, os.WriteFile(path, []byte("java_import {\n    name: \n}"), 0644))
		assert.Error(t, Verify(path))
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		assert.Error(t, Verify(filepath.Join(t.TempDir(), "absent.bp")))
	})
}
