// Package naming maps Maven coordinates to Soong module names. Platform
// modules keep the names AOSP already uses for them; everything else gets a
// project-prefixed vendor name.
package naming

import (
	"sort"

	"gradle2bp/internal/artifact"
)

// platformOverrides holds platform modules whose prebuilt names predate the
// mechanical group_artifactId scheme and were never renamed.
var platformOverrides = map[string]string{
	"androidx.constraintlayout:constraintlayout":        "androidx-constraintlayout_constraintlayout",
	"androidx.constraintlayout:constraintlayout-solver": "androidx-constraintlayout_constraintlayout-solver",
}

// OverriddenIdentities returns the coordinates of the override table. An
// entry there is platform-provided by definition, so classification must
// treat these as available even when the project configuration omits them.
func OverriddenIdentities() []artifact.Identity {
	ids := make([]artifact.Identity, 0, len(platformOverrides))
	for key := range platformOverrides {
		if id, ok := artifact.ParseIdentity(key); ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Platform returns the module name a platform-classified dependency already
// has in the target tree.
func Platform(id artifact.Identity) string {
	if name, ok := platformOverrides[id.String()]; ok {
		return name
	}
	return id.Group + "_" + id.Name
}

// Vendor returns the synthesized name for a vendored module. The mapping must
// stay injective over the resolved set; the stager rejects collisions.
func Vendor(prefix string, id artifact.Identity) string {
	return prefix + "_" + id.Group + "_" + id.Name
}

// VendorSingle names a dependency given as a bare token without a group
// separator.
func VendorSingle(prefix, token string) string {
	return prefix + "_" + token
}

// VendorKey is the sort and dedup key for resolved artifacts. It matches the
// vendor name minus the project prefix, so processing order is the same as
// emitted-name order.
func VendorKey(id artifact.Identity) string {
	return id.Group + "_" + id.Name
}
