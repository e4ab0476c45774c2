package uvatlas

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh owns the per-mesh geometry the pipeline operates on: a triangle
// index list, positions, optional per-face attribute ids and the derived
// adjacency and normal buffers. All data is copied in on ingestion; no
// caller-supplied slice is retained.
//
// A Mesh is constructed empty and populated once, indices first:
//
//	var m Mesh
//	m.SetIndexData(nFaces, indices)
//	m.SetVertexData(xs, ys, zs)
//
// The zero value is ready to use. A Mesh must not be mutated by two
// goroutines at once.
type Mesh struct {
	faces int
	verts int

	indices    []uint32      // 3*faces, triangle corners
	attributes []uint32      // faces entries, optional face grouping
	adjacency  []uint32      // 3*faces, derived neighbor per edge
	pointReps  []uint32      // verts entries, derived weld table
	positions  []mgl32.Vec3  // verts entries
	normals    []mgl32.Vec3  // verts entries, optional
}

// maxIndexCount is the ingestion bound: 3*faceCount must stay below it so
// every corner index remains addressable as a uint32.
const maxIndexCount = math.MaxUint32

// SetIndexData copies nFaces*3 triangle corner indices into the mesh and
// establishes the face count. Any previously set attribute buffer and any
// derived adjacency are released: both are face-aligned and invalidated by
// new index data.
//
// Fails with ErrInvalidArgument when nFaces is not positive or indices is
// too short, and with ErrOverflow when 3*nFaces would not fit in a uint32.
// On failure the mesh is unchanged.
func (m *Mesh) SetIndexData(nFaces int, indices []uint32) error {
	const op = "SetIndexData"
	if nFaces <= 0 {
		return stageErr(op, KindInvalidArgument, "face count %d, want > 0", nFaces)
	}
	if indices == nil {
		return stageErr(op, KindInvalidArgument, "nil index data")
	}
	if uint64(nFaces)*3 >= maxIndexCount {
		return stageErr(op, KindOverflow, "%d faces need %d indices", nFaces, uint64(nFaces)*3)
	}
	n := nFaces * 3
	if len(indices) < n {
		return stageErr(op, KindInvalidArgument, "got %d indices, want %d", len(indices), n)
	}

	ib := make([]uint32, n)
	copy(ib, indices[:n])

	m.faces = nFaces
	m.indices = ib
	m.attributes = nil
	m.adjacency = nil
	return nil
}

// SetAttributeData copies one attribute id per face into the mesh.
// Attributes group faces (material or island ids); Clean splits vertices
// shared across groups. Requires index data to be set first.
func (m *Mesh) SetAttributeData(attrs []uint32) error {
	const op = "SetAttributeData"
	if m.faces == 0 {
		return stageErr(op, KindNotReady, "index data not set")
	}
	if len(attrs) != m.faces {
		return stageErr(op, KindInvalidArgument, "got %d attributes, want %d", len(attrs), m.faces)
	}
	ab := make([]uint32, m.faces)
	copy(ab, attrs)
	m.attributes = ab
	return nil
}

// SetVertexData zips the three parallel coordinate slices into the position
// buffer and establishes the vertex count. Any previously computed normals,
// adjacency and weld table are released: all three derive from positions
// and must be recomputed.
//
// Fails with ErrInvalidArgument when the slices are empty or their lengths
// differ. On failure the mesh is unchanged.
func (m *Mesh) SetVertexData(xs, ys, zs []float32) error {
	const op = "SetVertexData"
	n := len(xs)
	if n == 0 {
		return stageErr(op, KindInvalidArgument, "no vertex data")
	}
	if len(ys) != n || len(zs) != n {
		return stageErr(op, KindInvalidArgument,
			"coordinate lengths differ: x=%d y=%d z=%d", n, len(ys), len(zs))
	}

	pos := make([]mgl32.Vec3, n)
	for i := range pos {
		pos[i] = mgl32.Vec3{xs[i], ys[i], zs[i]}
	}

	m.verts = n
	m.positions = pos
	m.normals = nil
	m.adjacency = nil
	m.pointReps = nil
	return nil
}

// Clear releases all buffers and resets both counts to zero. Idempotent.
func (m *Mesh) Clear() {
	m.faces = 0
	m.verts = 0

	// Face data
	m.indices = nil
	m.attributes = nil
	m.adjacency = nil

	// Vertex data
	m.positions = nil
	m.normals = nil
	m.pointReps = nil
}

// FaceCount returns the number of triangles, zero before ingestion.
func (m *Mesh) FaceCount() int { return m.faces }

// VertexCount returns the number of vertices, zero before ingestion.
func (m *Mesh) VertexCount() int { return m.verts }

// Indices returns the triangle corner indices, 3 per face.
// The returned slice is a view into the mesh and must not be mutated.
func (m *Mesh) Indices() []uint32 { return m.indices }

// Attributes returns the per-face attribute ids, or nil when ungrouped.
// The returned slice is a view into the mesh and must not be mutated.
func (m *Mesh) Attributes() []uint32 { return m.attributes }

// Adjacency returns the per-edge neighboring face indices produced by
// GenerateAdjacency, or nil before it has run. Entries holding
// InvalidIndex mark boundary edges. The returned slice is a view into the
// mesh and must not be mutated.
func (m *Mesh) Adjacency() []uint32 { return m.adjacency }

// PointReps returns the weld table produced by the last GenerateAdjacency
// call: for every vertex, the lowest vertex index within welding distance.
// Nil before adjacency has been generated. The returned slice is a view
// into the mesh and must not be mutated.
func (m *Mesh) PointReps() []uint32 { return m.pointReps }

// Positions returns the vertex positions.
// The returned slice is a view into the mesh and must not be mutated.
func (m *Mesh) Positions() []mgl32.Vec3 { return m.positions }

// Normals returns the per-vertex normals, or nil until ComputeNormals has
// run. The returned slice is a view into the mesh and must not be mutated.
func (m *Mesh) Normals() []mgl32.Vec3 { return m.normals }
