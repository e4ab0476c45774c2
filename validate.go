package uvatlas

import (
	"fmt"
	"strings"
)

// ValidateFlags selects the structural checks Validate performs. Index
// range validity is always checked.
type ValidateFlags uint32

const (
	// ValidateDefault checks index ranges only.
	ValidateDefault ValidateFlags = 0

	// ValidateDegenerate reports faces that reference the same vertex in
	// more than one corner.
	ValidateDegenerate ValidateFlags = 1 << 0

	// ValidateBowties reports vertices shared across edge-disconnected
	// triangle fans.
	ValidateBowties ValidateFlags = 1 << 1

	// ValidateAsymmetric reports adjacency entries whose neighbor does
	// not link back. Skipped when no adjacency has been generated.
	ValidateAsymmetric ValidateFlags = 1 << 2

	// ValidateUnused reports vertices never referenced by any face.
	ValidateUnused ValidateFlags = 1 << 3
)

// ValidateAll selects every available check.
const ValidateAll = ValidateDegenerate | ValidateBowties | ValidateAsymmetric | ValidateUnused

// Validate performs read-only structural checks on the mesh. On failure
// it returns an ErrInvalidArgument-classed error whose Detail lists every
// finding, one per line. The mesh is never mutated; the check is advisory
// and callers may run Clean regardless of the outcome.
//
// Requires index and vertex data.
func (m *Mesh) Validate(flags ValidateFlags) error {
	const op = "Validate"
	if m.faces == 0 || len(m.indices) == 0 || m.verts == 0 {
		return stageErr(op, KindNotReady, "index or vertex data not set")
	}

	var findings []string

	rangeOK := true
	for i, idx := range m.indices {
		if idx >= uint32(m.verts) {
			findings = append(findings, fmt.Sprintf(
				"face %d corner %d: index %d out of range (%d vertices)",
				i/3, i%3, idx, m.verts))
			rangeOK = false
		}
	}

	if flags&ValidateDegenerate != 0 {
		for f := 0; f < m.faces; f++ {
			i0 := m.indices[3*f]
			i1 := m.indices[3*f+1]
			i2 := m.indices[3*f+2]
			if i0 == i1 || i1 == i2 || i0 == i2 {
				findings = append(findings, fmt.Sprintf(
					"face %d: degenerate, corners (%d %d %d)", f, i0, i1, i2))
			}
		}
	}

	// The remaining checks index into vertex-sized tables and need every
	// corner in range.
	if rangeOK {
		if flags&ValidateBowties != 0 {
			for _, v := range findBowties(m.indices, uint32(m.verts)) {
				findings = append(findings, fmt.Sprintf(
					"vertex %d: bowtie, shared by disconnected fans", v))
			}
		}
		if flags&ValidateUnused != 0 {
			used := make([]bool, m.verts)
			for _, idx := range m.indices {
				used[idx] = true
			}
			for v, ok := range used {
				if !ok {
					findings = append(findings, fmt.Sprintf("vertex %d: unused", v))
				}
			}
		}
	}

	if flags&ValidateAsymmetric != 0 && len(m.adjacency) == len(m.indices) {
		for i, n := range m.adjacency {
			if n == InvalidIndex {
				continue
			}
			if int(n) >= m.faces {
				findings = append(findings, fmt.Sprintf(
					"face %d edge %d: neighbor %d out of range (%d faces)",
					i/3, i%3, n, m.faces))
				continue
			}
			back := false
			for e := 0; e < 3; e++ {
				if m.adjacency[3*int(n)+e] == uint32(i/3) {
					back = true
					break
				}
			}
			if !back {
				findings = append(findings, fmt.Sprintf(
					"face %d edge %d: neighbor %d does not link back", i/3, i%3, n))
			}
		}
	}

	if len(findings) == 0 {
		return nil
	}
	return &Error{Op: op, Kind: KindInvalidArgument, Detail: strings.Join(findings, "\n")}
}

// findBowties returns, in ascending order, every vertex whose incident
// faces form more than one edge-connected fan.
func findBowties(indices []uint32, verts uint32) []uint32 {
	incident := incidentFaces(indices, verts)

	var bowties []uint32
	for v := uint32(0); v < verts; v++ {
		faces := incident[v]
		if len(faces) < 2 {
			continue
		}
		roots := fanRoots(indices, v, faces)
		for li := 1; li < len(faces); li++ {
			if roots[li] != roots[0] {
				bowties = append(bowties, v)
				break
			}
		}
	}
	return bowties
}
