package uvatlas

import "github.com/go-gl/mathgl/mgl32"

// Clean resolves vertices that cannot survive parameterization as a single
// vertex, by splitting them: the offending vertex's position (and normal,
// when present) is duplicated into a new slot appended at the end of the
// vertex buffer and the affected faces are rewritten to reference it.
//
// Two independent conditions trigger a split:
//
//   - attribute splits, always performed when an attribute buffer is set:
//     a vertex shared by faces with differing attribute ids is duplicated
//     so each attribute group gets its own copy;
//   - bowtie splits, performed only when breakBowties is true: a vertex
//     shared by two or more edge-disconnected triangle fans is duplicated
//     so each fan gets its own copy.
//
// When no split is required the call succeeds as a no-op and leaves every
// buffer untouched. The face count never changes; the vertex count grows
// by exactly the number of splits. The rewrite is computed against scratch
// buffers and committed only on success, so a failed Clean leaves the mesh
// in its pre-call state. Derived adjacency is released on commit: it is
// invalidated by the rewritten indices.
func (m *Mesh) Clean(breakBowties bool) error {
	const op = "Clean"
	if m.faces == 0 || len(m.indices) == 0 || m.verts == 0 || len(m.positions) == 0 {
		return stageErr(op, KindNotReady, "index or vertex data not set")
	}
	for i, idx := range m.indices {
		if idx >= uint32(m.verts) {
			return stageErr(op, KindInvalidArgument,
				"face %d corner %d: index %d out of range (%d vertices)",
				i/3, i%3, idx, m.verts)
		}
	}

	indices := make([]uint32, len(m.indices))
	copy(indices, m.indices)

	// dups[i] is the ORIGINAL vertex the (verts+i)-th vertex duplicates.
	// Splits of already-split vertices resolve through it, so every entry
	// stays below the pre-clean vertex count.
	var dups []uint32

	if len(m.attributes) > 0 {
		dups = splitAttributeVerts(indices, m.attributes, uint32(m.verts), dups)
	}
	if breakBowties {
		dups = splitBowtieVerts(indices, uint32(m.verts), dups)
	}

	if len(dups) == 0 {
		return nil
	}

	newVerts := m.verts + len(dups)
	if uint64(newVerts) >= maxIndexCount {
		return stageErr(op, KindOverflow, "%d vertices after splitting", newVerts)
	}

	positions := make([]mgl32.Vec3, newVerts)
	copy(positions, m.positions)
	for i, src := range dups {
		positions[m.verts+i] = m.positions[src]
	}

	var normals []mgl32.Vec3
	if m.normals != nil {
		normals = make([]mgl32.Vec3, newVerts)
		copy(normals, m.normals)
		for i, src := range dups {
			normals[m.verts+i] = m.normals[src]
		}
	}

	m.indices = indices
	m.positions = positions
	m.normals = normals
	m.verts = newVerts
	m.adjacency = nil
	m.pointReps = nil
	Logger().Debug("uvatlas: clean split vertices",
		"splits", len(dups), "vertices", m.verts)
	return nil
}

// splitAttributeVerts rewrites indices so no vertex is shared by faces
// with differing attribute ids. Faces are walked in order; the first
// attribute seen at a vertex keeps the original slot and every further
// attribute gets one duplicate. Returns dups extended with the source
// vertex of every appended duplicate.
func splitAttributeVerts(indices, attributes []uint32, verts uint32, dups []uint32) []uint32 {
	type vertAttr struct{ v, attr uint32 }

	firstAttr := make(map[uint32]uint32)
	remap := make(map[vertAttr]uint32)
	next := verts + uint32(len(dups))

	for i, v := range indices {
		attr := attributes[i/3]
		a, seen := firstAttr[v]
		if !seen {
			firstAttr[v] = attr
			continue
		}
		if a == attr {
			continue
		}
		nv, ok := remap[vertAttr{v, attr}]
		if !ok {
			nv = next
			next++
			remap[vertAttr{v, attr}] = nv
			dups = append(dups, rootVert(v, verts, dups))
		}
		indices[i] = nv
	}
	return dups
}

// splitBowtieVerts rewrites indices so every vertex belongs to a single
// edge-connected triangle fan. For each vertex, its incident faces are
// grouped into fans (faces connect when they share an edge through the
// vertex); the fan of the first incident face keeps the original slot and
// every further fan gets a duplicate. Returns dups extended with the
// source vertex of every appended duplicate.
func splitBowtieVerts(indices []uint32, verts uint32, dups []uint32) []uint32 {
	total := verts + uint32(len(dups))
	incident := incidentFaces(indices, total)

	next := total
	for v := uint32(0); v < total; v++ {
		faces := incident[v]
		if len(faces) < 2 {
			continue
		}
		roots := fanRoots(indices, v, faces)

		// The first face's fan keeps v; each further fan is rewritten to
		// a fresh duplicate. Faces are scanned in order, so fan numbering
		// is deterministic.
		fanVert := make(map[int]uint32)
		for li, f := range faces {
			if roots[li] == roots[0] {
				continue
			}
			nv, ok := fanVert[roots[li]]
			if !ok {
				nv = next
				next++
				fanVert[roots[li]] = nv
				dups = append(dups, rootVert(v, verts, dups))
			}
			for e := uint32(0); e < 3; e++ {
				if indices[3*f+e] == v {
					indices[3*f+e] = nv
				}
			}
		}
	}
	return dups
}

// incidentFaces builds the incident face list of every vertex, in face
// order, with a face listed once even when it references the vertex in
// more than one corner.
func incidentFaces(indices []uint32, verts uint32) [][]uint32 {
	incident := make([][]uint32, verts)
	for i, v := range indices {
		f := uint32(i / 3)
		n := len(incident[v])
		if n == 0 || incident[v][n-1] != f {
			incident[v] = append(incident[v], f)
		}
	}
	return incident
}

// fanRoots groups the faces incident to v into edge-connected fans: two
// faces belong to the same fan when they share an edge through v. The
// result assigns each entry of faces the local index of its fan root.
func fanRoots(indices []uint32, v uint32, faces []uint32) []int {
	parent := make([]int, len(faces))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	byNeighbor := make(map[uint32]int)
	for li, f := range faces {
		for e := 0; e < 3; e++ {
			if indices[3*f+uint32(e)] != v {
				continue
			}
			for _, x := range [2]uint32{
				indices[3*f+uint32((e+1)%3)],
				indices[3*f+uint32((e+2)%3)],
			} {
				if x == v {
					continue
				}
				if lj, ok := byNeighbor[x]; ok {
					ra, rb := find(li), find(lj)
					if ra != rb {
						parent[rb] = ra
					}
				} else {
					byNeighbor[x] = li
				}
			}
		}
	}

	roots := make([]int, len(faces))
	for i := range roots {
		roots[i] = find(i)
	}
	return roots
}

// rootVert resolves a possibly-duplicated vertex back to its original
// pre-clean vertex index.
func rootVert(v, verts uint32, dups []uint32) uint32 {
	if v < verts {
		return v
	}
	return dups[v-verts]
}
