package uvatlas

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NormalFlags selects the weighting policy for ComputeNormals.
type NormalFlags uint32

const (
	// WeightByAngle weighs each face's contribution by the angle of its
	// corner at the vertex. This is the default.
	WeightByAngle NormalFlags = 0

	// WeightByArea weighs each face's contribution by its area.
	WeightByArea NormalFlags = 1 << 0

	// WeightEqual gives every incident face the same weight.
	WeightEqual NormalFlags = 1 << 1

	// WindClockwise treats the input triangles as clockwise-wound and
	// flips the accumulated face normals accordingly.
	WindClockwise NormalFlags = 1 << 2
)

// ComputeNormals derives one normal per vertex by accumulating the face
// normal of every incident face, weighted per flags, and normalizing the
// sum. Faces with zero area contribute nothing. Any existing normal
// buffer is overwritten.
//
// Requires index and vertex data.
func (m *Mesh) ComputeNormals(flags NormalFlags) error {
	const op = "ComputeNormals"
	if m.faces == 0 || len(m.indices) == 0 || m.verts == 0 || len(m.positions) == 0 {
		return stageErr(op, KindNotReady, "index or vertex data not set")
	}
	if flags&WeightByArea != 0 && flags&WeightEqual != 0 {
		return stageErr(op, KindInvalidArgument, "WeightByArea and WeightEqual are mutually exclusive")
	}
	for i, idx := range m.indices {
		if idx >= uint32(m.verts) {
			return stageErr(op, KindInvalidArgument,
				"face %d corner %d: index %d out of range (%d vertices)",
				i/3, i%3, idx, m.verts)
		}
	}

	acc := make([]mgl32.Vec3, m.verts)
	for f := 0; f < m.faces; f++ {
		i0 := m.indices[3*f]
		i1 := m.indices[3*f+1]
		i2 := m.indices[3*f+2]
		p0 := m.positions[i0]
		p1 := m.positions[i1]
		p2 := m.positions[i2]

		// Length of the cross product is twice the face area.
		fn := p1.Sub(p0).Cross(p2.Sub(p0))
		if fn.LenSqr() == 0 {
			continue
		}
		if flags&WindClockwise != 0 {
			fn = fn.Mul(-1)
		}

		switch {
		case flags&WeightByArea != 0:
			acc[i0] = acc[i0].Add(fn)
			acc[i1] = acc[i1].Add(fn)
			acc[i2] = acc[i2].Add(fn)
		case flags&WeightEqual != 0:
			n := fn.Normalize()
			acc[i0] = acc[i0].Add(n)
			acc[i1] = acc[i1].Add(n)
			acc[i2] = acc[i2].Add(n)
		default: // WeightByAngle
			n := fn.Normalize()
			acc[i0] = acc[i0].Add(n.Mul(cornerAngle(p0, p1, p2)))
			acc[i1] = acc[i1].Add(n.Mul(cornerAngle(p1, p2, p0)))
			acc[i2] = acc[i2].Add(n.Mul(cornerAngle(p2, p0, p1)))
		}
	}

	normals := make([]mgl32.Vec3, m.verts)
	for v := range normals {
		if acc[v].LenSqr() > 0 {
			normals[v] = acc[v].Normalize()
		}
	}
	m.normals = normals
	return nil
}

// cornerAngle returns the interior angle at corner p of triangle (p, a, b).
func cornerAngle(p, a, b mgl32.Vec3) float32 {
	ea := a.Sub(p)
	eb := b.Sub(p)
	la := ea.Len()
	lb := eb.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := ea.Dot(eb) / (la * lb)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return float32(math.Acos(float64(cos)))
}
