package generator

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradle2bp/internal/artifact"
	"gradle2bp/internal/classify"
	"gradle2bp/internal/manifest"
	"gradle2bp/internal/resolver"
	"gradle2bp/internal/stage"
)

var testResolved = []artifact.Artifact{
	{Group: "com.google.guava", Name: "guava", Version: "31.0", File: "guava-31.0.jar", Direct: true},
	{Group: "com.example", Name: "app-lib", Version: "1.0", File: "app-lib-1.0.aar", Direct: true},
	{Group: "androidx.constraintlayout", Name: "constraintlayout", Version: "2.1.4", File: "constraintlayout-2.1.4.aar", Direct: true},
	{Group: "org.jetbrains.kotlin", Name: "kotlin-bom", Version: "1.8.0", File: "kotlin-bom-1.8.0.jar", Direct: true},
}

func testClassifier() *classify.Classifier {
	return classify.New(func(group, name string) bool {
		return group == "androidx.constraintlayout"
	})
}

func newTestEmitter(t *testing.T) (*Emitter, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Android.bp")
	edges := resolver.New(testClassifier(), testResolved, "Example", log.New(io.Discard))
	return NewEmitter(edges, path), path
}

func guavaStaged() stage.Staged {
	return stage.Staged{
		Artifact:   testResolved[0],
		Kind:       artifact.KindJar,
		ModuleName: "Example_com.google.guava_guava",
		PayloadRel: "com.google.guava/guava/guava-31.0.jar",
		SDK:        manifest.SDKBounds{Target: 30, Min: 14},
	}
}

func appLibStaged() stage.Staged {
	return stage.Staged{
		Artifact:    testResolved[1],
		Kind:        artifact.KindAar,
		ModuleName:  "Example_com.example_app-lib",
		PayloadRel:  "com.example/app-lib/app-lib-1.0.aar",
		ManifestRel: "com.example/app-lib/AndroidManifest.xml",
		SDK:         manifest.SDKBounds{Target: 33, Min: 21},
		RawDeps: []string{
			"com.google.guava:guava",
			"androidx.constraintlayout:constraintlayout",
			"com.unknown:never-resolved",
		},
	}
}

func TestEmitter_Emit(t *testing.T) {
	t.Run("Jar declarations", func(t *testing.T) {
		e, path := newTestEmitter(t)
		require.NoError(t, e.Emit(guavaStaged()))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		out := string(content)

		assert.Contains(t, out, `java_import {`)
		assert.Contains(t, out, `name: "Example_com.google.guava_guava-nodeps"`)
		assert.Contains(t, out, `jars: ["com.google.guava/guava/guava-31.0.jar"]`)

		assert.Contains(t, out, `java_library_static {`)
		assert.Contains(t, out, `name: "Example_com.google.guava_guava"`)
		assert.Contains(t, out, `sdk_version: "30"`)
		assert.Contains(t, out, `min_sdk_version: "14"`)
		assert.Contains(t, out, `static_libs: ["Example_com.google.guava_guava-nodeps"]`)
	})

	t.Run("Aar declarations", func(t *testing.T) {
		e, path := newTestEmitter(t)
		require.NoError(t, e.Emit(appLibStaged()))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		out := string(content)

		assert.Contains(t, out, `android_library_import {`)
		assert.Contains(t, out, `name: "Example_com.example_app-lib-nodeps"`)
		assert.Contains(t, out, `aars: ["com.example/app-lib/app-lib-1.0.aar"]`)
		assert.Contains(t, out, `"//apex_available:platform"`)
		assert.Contains(t, out, `"//apex_available:anyapex"`)

		assert.Contains(t, out, `android_library {`)
		assert.Contains(t, out, `manifest: "com.example/app-lib/AndroidManifest.xml"`)
		assert.Contains(t, out, `sdk_version: "33"`)
		assert.Contains(t, out, `min_sdk_version: "21"`)
		assert.Contains(t, out, `java_version: "1.7"`)
	})

	t.Run("Library edges start with the self edge and drop unresolved ones", func(t *testing.T) {
		e, path := newTestEmitter(t)
		require.NoError(t, e.Emit(appLibStaged()))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		out := string(content)

		selfEdge := strings.Index(out, `"Example_com.example_app-lib-nodeps",`)
		guavaEdge := strings.Index(out, `"Example_com.google.guava_guava",`)
		platformEdge := strings.Index(out, `"androidx-constraintlayout_constraintlayout",`)
		assert.Greater(t, guavaEdge, selfEdge)
		assert.Greater(t, platformEdge, guavaEdge)
		assert.NotContains(t, out, "never-resolved")
	})

	t.Run("Import declarations carry no static_libs", func(t *testing.T) {
		e, path := newTestEmitter(t)
		require.NoError(t, e.Emit(guavaStaged()))

		content, err := os.ReadFile(path)
		require.NoError(t, err)

		importBlock, _, found := strings.Cut(string(content), "java_library_static")
		require.True(t, found)
		assert.NotContains(t, importBlock, "static_libs")
	})

	t.Run("Header is written exactly once", func(t *testing.T) {
		e, path := newTestEmitter(t)
		require.NoError(t, e.Emit(guavaStaged()))
		require.NoError(t, e.Emit(appLibStaged()))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(content), "Do not edit"))
		assert.True(t, strings.HasPrefix(string(content), "// This file is automatically generated"))
	})

	t.Run("Two runs produce identical output", func(t *testing.T) {
		e1, path1 := newTestEmitter(t)
		e2, path2 := newTestEmitter(t)
		staged := []stage.Staged{appLibStaged(), guavaStaged()}
		require.NoError(t, e1.EmitAll(staged))
		require.NoError(t, e2.EmitAll(staged))

		c1, err := os.ReadFile(path1)
		require.NoError(t, err)
		c2, err := os.ReadFile(path2)
		require.NoError(t, err)
		assert.Equal(t, c1, c2)
	})

	t.Run("Generated output parses as blueprint", func(t *testing.T) {
		e, path := newTestEmitter(t)
		require.NoError(t, e.EmitAll([]stage.Staged{appLibStaged(), guavaStaged()}))
		assert.NoError(t, Verify(path))
	})
}
