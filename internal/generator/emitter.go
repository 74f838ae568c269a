// Package generator renders Soong module declarations for staged artifacts
// and maintains the generated Android.bp files.
package generator

import (
	"fmt"
	"os"
	"strconv"

	bpparser "github.com/google/blueprint/parser"

	"gradle2bp/internal/artifact"
	"gradle2bp/internal/resolver"
	"gradle2bp/internal/stage"
)

const header = "// This file is automatically generated by gradle2bp. Do not edit.\n"

// apexAvailable is stamped on every archive import so the prebuilt can be
// linked from any APEX as well as the platform.
var apexAvailable = []string{
	"//apex_available:platform",
	"//apex_available:anyapex",
}

// javaVersion is the language level stamped on vendored android libraries.
const javaVersion = "1.7"

// Emitter appends module declarations to the generated descriptor. Each
// staged artifact yields a -nodeps import plus a full library module.
type Emitter struct {
	edges *resolver.EdgeResolver
	path  string
}

func NewEmitter(edges *resolver.EdgeResolver, path string) *Emitter {
	return &Emitter{edges: edges, path: path}
}

// EmitAll appends declarations for every staged artifact in order.
func (e *Emitter) EmitAll(staged []stage.Staged) error {
	for _, st := range staged {
		if err := e.Emit(st); err != nil {
			return err
		}
	}
	return nil
}

// Emit appends the two declarations of one staged artifact. The do-not-edit
// header is written first if the descriptor is still empty.
func (e *Emitter) Emit(st stage.Staged) error {
	var defs []bpparser.Definition
	switch st.Kind {
	case artifact.KindJar:
		defs = e.flatModules(st)
	case artifact.KindAar:
		defs = e.archiveModules(st)
	default:
		return fmt.Errorf("unsupported artifact kind %q for %s", st.Kind, st.Artifact.Identity())
	}

	return e.append(defs)
}

// flatModules declares a plain jar: an import exposing the payload and a
// static library wiring up the transitive edges.
func (e *Emitter) flatModules(st stage.Staged) []bpparser.Definition {
	imp := &bpparser.Module{
		Type: "java_import",
		Map: bpparser.Map{Properties: []*bpparser.Property{
			stringProp("name", st.ModuleName+"-nodeps"),
			listProp("jars", []string{st.PayloadRel}),
		}},
	}

	lib := &bpparser.Module{
		Type: "java_library_static",
		Map: bpparser.Map{Properties: []*bpparser.Property{
			stringProp("name", st.ModuleName),
			stringProp("sdk_version", strconv.Itoa(st.SDK.Target)),
			stringProp("min_sdk_version", strconv.Itoa(st.SDK.Min)),
			listProp("static_libs", e.edges.Resolve(st.Artifact, st.RawDeps, true)),
		}},
	}

	return []bpparser.Definition{imp, lib}
}

// archiveModules declares an aar: the import carries the SDK bounds and APEX
// availability, the library adds the extracted manifest and the edges.
func (e *Emitter) archiveModules(st stage.Staged) []bpparser.Definition {
	imp := &bpparser.Module{
		Type: "android_library_import",
		Map: bpparser.Map{Properties: []*bpparser.Property{
			stringProp("name", st.ModuleName+"-nodeps"),
			listProp("aars", []string{st.PayloadRel}),
			stringProp("sdk_version", strconv.Itoa(st.SDK.Target)),
			stringProp("min_sdk_version", strconv.Itoa(st.SDK.Min)),
			listProp("apex_available", apexAvailable),
		}},
	}

	lib := &bpparser.Module{
		Type: "android_library",
		Map: bpparser.Map{Properties: []*bpparser.Property{
			stringProp("name", st.ModuleName),
			stringProp("sdk_version", strconv.Itoa(st.SDK.Target)),
			stringProp("min_sdk_version", strconv.Itoa(st.SDK.Min)),
			stringProp("manifest", st.ManifestRel),
			listProp("static_libs", e.edges.Resolve(st.Artifact, st.RawDeps, true)),
			stringProp("java_version", javaVersion),
		}},
	}

	return []bpparser.Definition{imp, lib}
}

func (e *Emitter) append(defs []bpparser.Definition) error {
	f, err := os.OpenFile(e.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		if _, err := f.WriteString(header + "\n"); err != nil {
			return err
		}
	}

	// Print one module per file so hand-built definitions without positions
	// still come out separated by blank lines.
	for _, def := range defs {
		out, err := bpparser.Print(&bpparser.File{Defs: []bpparser.Definition{def}})
		if err != nil {
			return err
		}
		if _, err := f.Write(out); err != nil {
			return err
		}
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}

	return nil
}

func stringProp(name, value string) *bpparser.Property {
	return &bpparser.Property{
		Name:  name,
		Value: &bpparser.String{Value: value},
	}
}

func listProp(name string, values []string) *bpparser.Property {
	list := &bpparser.List{}
	for _, v := range values {
		list.Values = append(list.Values, &bpparser.String{Value: v})
	}
	return &bpparser.Property{Name: name, Value: list}
}
