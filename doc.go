// Package uvatlas prepares triangle meshes for UV-atlas generation and packs
// their surface into a non-overlapping 2D parameterization for texture baking.
//
// # Overview
//
// uvatlas is a Pure Go offline geometry-processing library for the GoGPU
// ecosystem. It takes raw triangle soup, repairs its topology, derives
// face adjacency and vertex normals, partitions the surface into
// near-developable charts and packs those charts into the unit UV square
// under a stretch and chart-count budget.
//
// # Quick Start
//
//	import "github.com/gogpu/uvatlas"
//
//	// Ingest the mesh (indices first, then positions)
//	var m uvatlas.Mesh
//	m.SetIndexData(numFaces, indices)
//	m.SetVertexData(xs, ys, zs)
//
//	// Prepare it
//	m.Clean(true)
//	m.GenerateAdjacency(0)
//	m.ComputeNormals(uvatlas.WeightByAngle)
//
//	// Pack the atlas
//	atlas, err := uvatlas.Create(&m, uvatlas.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(atlas.Charts, atlas.Stretch)
//
// Or run the whole pipeline in one call with [Run].
//
// # Pipeline
//
// The stages form a fixed order; each stage checks its own preconditions
// and fails with [ErrNotReady] when invoked too early:
//
//	SetIndexData -> SetVertexData -> (Validate) -> (Clean) ->
//	GenerateAdjacency -> (ComputeNormals) -> Create
//
// Validate is advisory and never mutates. Clean may grow the vertex count
// (never the face count). Every mutating stage is atomic: on failure the
// mesh is left exactly as it was.
//
// # Architecture
//
//   - Public API: Mesh, Options, Atlas, Create, Run
//   - Internal: parallel (worker pool for chart flattening),
//     objfile (OBJ reader/writer used by cmd/uvatlas)
//
// The numerical chart-growth and flattening algorithm sits behind the
// [Parameterizer] interface so it can be swapped without touching the
// pipeline shell.
//
// # Concurrency
//
// A Mesh is processed by one pipeline invocation end to end; no stage may
// run concurrently with another on the same Mesh. Chart flattening inside
// Create is spread across worker goroutines, with results written to
// per-chart slots so the output is deterministic regardless of scheduling.
//
// # Performance
//
// This is a batch, offline pipeline optimized for correctness over speed.
package uvatlas

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
