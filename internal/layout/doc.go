// Package layout maps artifact layout identifiers (Maven 2, NuGet, npm, ...)
// to the coordinate type that describes artifacts stored under them.
//
// The Registry is the only state shared between concurrent queries. It is
// initialized lazily exactly once with the built-in layouts, allows
// concurrent reads, and fails deterministically with UnknownLayoutError on
// keys it does not know. Additional layouts can be declared in CUE:
//
//	layout: conan: {
//		type:        "ConanArtifactCoordinates"
//		aliases:     ["Conan"]
//		coordinates: ["name", "version", "user", "channel"]
//	}
package layout
