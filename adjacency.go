package uvatlas

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// InvalidIndex is the sentinel stored in the adjacency buffer for a
// triangle edge with no neighboring face (a boundary edge).
const InvalidIndex = ^uint32(0)

// GenerateAdjacency derives, for each of the three edges of every face,
// the index of the face sharing that edge, or InvalidIndex for a boundary
// edge. Vertices whose positions lie within epsilon (Euclidean distance)
// of each other are welded into the same topological point for adjacency
// purposes only; the vertex buffer itself is not merged. The weld table is
// retained and exposed through PointReps.
//
// When more than two faces share an edge, the neighbor recorded for each
// of them is the first other face in face order. This rule is
// deterministic and does not depend on scheduling.
//
// Requires index and vertex data. Running it twice on an unmutated mesh
// produces identical buffers.
func (m *Mesh) GenerateAdjacency(epsilon float32) error {
	const op = "GenerateAdjacency"
	if m.faces == 0 || len(m.indices) == 0 || m.verts == 0 || len(m.positions) == 0 {
		return stageErr(op, KindNotReady, "index or vertex data not set")
	}
	if uint64(m.faces)*3 >= maxIndexCount {
		return stageErr(op, KindOverflow, "%d faces need %d indices", m.faces, uint64(m.faces)*3)
	}
	for i, idx := range m.indices {
		if idx >= uint32(m.verts) {
			return stageErr(op, KindAdjacencyFailed,
				"face %d corner %d: index %d out of range (%d vertices)",
				i/3, i%3, idx, m.verts)
		}
	}

	reps := m.computePointReps(epsilon)

	// Collect the faces meeting at every welded, undirected edge, in face
	// order. An edge with both corners welded to the same point carries no
	// adjacency (collapsed edge).
	type edgeKey struct{ a, b uint32 }
	edges := make(map[edgeKey][]uint32, len(m.indices))
	for f := 0; f < m.faces; f++ {
		for e := 0; e < 3; e++ {
			a := reps[m.indices[3*f+e]]
			b := reps[m.indices[3*f+(e+1)%3]]
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			edges[edgeKey{a, b}] = append(edges[edgeKey{a, b}], uint32(f))
		}
	}

	adj := make([]uint32, len(m.indices))
	for f := 0; f < m.faces; f++ {
		for e := 0; e < 3; e++ {
			adj[3*f+e] = InvalidIndex
			a := reps[m.indices[3*f+e]]
			b := reps[m.indices[3*f+(e+1)%3]]
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			for _, other := range edges[edgeKey{a, b}] {
				if other != uint32(f) {
					adj[3*f+e] = other
					break
				}
			}
		}
	}

	m.adjacency = adj
	m.pointReps = reps
	Logger().Debug("uvatlas: adjacency generated",
		"faces", m.faces, "epsilon", epsilon)
	return nil
}

// computePointReps assigns every vertex the lowest vertex index within
// epsilon of its position. With epsilon <= 0 only exactly coincident
// positions weld. Vertices are scanned in index order and candidates are
// resolved to the smallest matching index, so the result is deterministic.
func (m *Mesh) computePointReps(epsilon float32) []uint32 {
	reps := make([]uint32, m.verts)

	if epsilon <= 0 {
		first := make(map[mgl32.Vec3]uint32, m.verts)
		for v := 0; v < m.verts; v++ {
			p := m.positions[v]
			if r, ok := first[p]; ok {
				reps[v] = r
			} else {
				first[p] = uint32(v)
				reps[v] = uint32(v)
			}
		}
		return reps
	}

	// Spatial hash with cell size epsilon: any vertex within epsilon of p
	// lives in one of the 27 cells around p's cell.
	type cell struct{ x, y, z int32 }
	cellOf := func(p mgl32.Vec3) cell {
		return cell{
			int32(math.Floor(float64(p.X() / epsilon))),
			int32(math.Floor(float64(p.Y() / epsilon))),
			int32(math.Floor(float64(p.Z() / epsilon))),
		}
	}
	grid := make(map[cell][]uint32, m.verts)
	epsSq := epsilon * epsilon

	for v := 0; v < m.verts; v++ {
		p := m.positions[v]
		c := cellOf(p)
		best := uint32(v)
		for dx := int32(-1); dx <= 1; dx++ {
			for dy := int32(-1); dy <= 1; dy++ {
				for dz := int32(-1); dz <= 1; dz++ {
					for _, w := range grid[cell{c.x + dx, c.y + dy, c.z + dz}] {
						if w < best && m.positions[w].Sub(p).LenSqr() <= epsSq {
							best = w
						}
					}
				}
			}
		}
		if best != uint32(v) {
			// Chain through the earlier vertex so all members of a weld
			// cluster share one representative.
			reps[v] = reps[best]
		} else {
			reps[v] = uint32(v)
		}
		grid[c] = append(grid[c], uint32(v))
	}
	return reps
}
