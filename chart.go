package uvatlas

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Chart is a connected set of faces flattened into a shared 2D frame.
// Partition fills Faces; Flatten fills the rest.
type Chart struct {
	// Faces holds the input face indices of the chart, in discovery order.
	Faces []uint32

	// Verts holds the input vertex indices used by the chart, in
	// discovery order. Filled by Flatten.
	Verts []uint32

	// UV holds one chart-local coordinate per entry of Verts, in the
	// units of the input positions. Filled by Flatten.
	UV []mgl32.Vec2

	// Area3D is the summed surface area of the chart's faces.
	Area3D float32

	// Stretch is the chart's signal distortion in [0, 1]:
	// 1 - flattenedArea/Area3D. Zero for a developable chart.
	Stretch float32

	// Min and Max bound the chart's UV coordinates.
	Min, Max mgl32.Vec2
}

// Width returns the chart's extent along U.
func (c *Chart) Width() float32 { return c.Max.X() - c.Min.X() }

// Height returns the chart's extent along V.
func (c *Chart) Height() float32 { return c.Max.Y() - c.Min.Y() }

// Parameterizer is the numerical core of the atlas packer: it partitions
// a mesh into charts and flattens each chart into 2D. Implementations
// must be deterministic for a given mesh and options. The default
// implementation grows charts over the adjacency buffer and flattens by
// planar projection; swap it with [WithParameterizer] to use a different
// algorithm without touching the pipeline shell.
type Parameterizer interface {
	// Partition splits every face of the mesh into charts. Each face
	// belongs to exactly one chart. MaxCharts infeasibility is reported
	// as an ErrPackingFailed error carrying the attempted chart count.
	Partition(m *Mesh, opts Options) ([]Chart, error)

	// Flatten computes the 2D coordinates, bounds, area and stretch of a
	// single chart: it must fill Verts with every vertex the chart's faces
	// reference and UV with one coordinate per Verts entry. Safe to call
	// for distinct charts concurrently.
	Flatten(m *Mesh, c *Chart) error
}

// planarParameterizer is the built-in Parameterizer: normal-cone region
// growing over the adjacency buffer, then projection of each chart onto
// its area-weighted average plane.
type planarParameterizer struct{}

// Growing angles in radians. The stretch budget maps linearly onto
// [minConeAngle, maxConeAngle]; the cap stays below a quarter turn so a
// chart never folds back under projection.
const (
	minConeAngle = 0.02
	maxConeAngle = math.Pi/2 - 0.08
)

// coneAngle maps the stretch budget and heuristic flags to the largest
// allowed angle between a face normal and its chart's average normal.
func coneAngle(maxStretch float32, flags PackFlags) float64 {
	a := minConeAngle + float64(maxStretch)*(maxConeAngle-minConeAngle)
	switch {
	case flags&PackFewerCharts != 0:
		a *= 1.5
	case flags&PackLowerStretch != 0:
		a *= 0.5
	}
	return clampConeAngle(a)
}

func clampConeAngle(a float64) float64 {
	if a < minConeAngle {
		return minConeAngle
	}
	if a > maxConeAngle {
		return maxConeAngle
	}
	return a
}

// Partition grows charts by breadth-first traversal of the adjacency
// buffer. A face joins the current chart while its normal stays within
// the cone around the chart's running average normal. Seeds are taken in
// face order and edges are visited in corner order, so the partition is
// deterministic. When MaxCharts is exceeded the cone is widened and the
// partition retried; once the cone is at its cap the constraint is
// reported as infeasible.
func (planarParameterizer) Partition(m *Mesh, opts Options) ([]Chart, error) {
	normals := faceNormals(m)
	angle := coneAngle(opts.MaxStretch, opts.Flags)

	for {
		charts := growCharts(m, normals, float32(math.Cos(angle)))
		if opts.MaxCharts <= 0 || len(charts) <= opts.MaxCharts {
			Logger().Debug("uvatlas: partition done",
				"charts", len(charts), "coneAngle", angle)
			return charts, nil
		}
		if angle >= maxConeAngle {
			return nil, &Error{
				Op:              "Create",
				Kind:            KindPackingFailed,
				Detail:          "cannot partition into the requested chart count",
				AttemptedCharts: len(charts),
			}
		}
		angle = clampConeAngle(angle * 1.5)
	}
}

// faceNormals returns the unnormalized face normals; a zero vector marks
// a degenerate face.
func faceNormals(m *Mesh) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, m.faces)
	for f := 0; f < m.faces; f++ {
		p0 := m.positions[m.indices[3*f]]
		p1 := m.positions[m.indices[3*f+1]]
		p2 := m.positions[m.indices[3*f+2]]
		normals[f] = p1.Sub(p0).Cross(p2.Sub(p0))
	}
	return normals
}

// growCharts performs one partition pass with a fixed cone threshold
// (minimum cosine between a candidate face normal and the chart's
// average normal).
func growCharts(m *Mesh, normals []mgl32.Vec3, minCos float32) []Chart {
	assigned := make([]bool, m.faces)
	var charts []Chart

	for seed := 0; seed < m.faces; seed++ {
		if assigned[seed] {
			continue
		}
		var c Chart
		c.Faces = append(c.Faces, uint32(seed))
		assigned[seed] = true
		avg := normals[seed]

		for cursor := 0; cursor < len(c.Faces); cursor++ {
			f := c.Faces[cursor]
			for e := 0; e < 3; e++ {
				n := m.adjacency[3*int(f)+e]
				if n == InvalidIndex || assigned[n] {
					continue
				}
				fn := normals[n]
				// Degenerate faces join whichever chart reaches them
				// first; they have no orientation to test.
				if fn.LenSqr() > 0 && avg.LenSqr() > 0 {
					if fn.Normalize().Dot(avg.Normalize()) < minCos {
						continue
					}
				}
				c.Faces = append(c.Faces, n)
				assigned[n] = true
				avg = avg.Add(fn)
			}
		}
		charts = append(charts, c)
	}
	return charts
}

// Flatten projects the chart onto its area-weighted average plane and
// records bounds, surface area and the resulting stretch.
func (planarParameterizer) Flatten(m *Mesh, c *Chart) error {
	// Collect the chart's vertices in discovery order.
	local := make(map[uint32]uint32)
	for _, f := range c.Faces {
		for e := 0; e < 3; e++ {
			v := m.indices[3*f+uint32(e)]
			if _, ok := local[v]; !ok {
				local[v] = uint32(len(c.Verts))
				c.Verts = append(c.Verts, v)
			}
		}
	}

	// Chart normal and surface area.
	var acc mgl32.Vec3
	var area float32
	for _, f := range c.Faces {
		p0 := m.positions[m.indices[3*f]]
		p1 := m.positions[m.indices[3*f+1]]
		p2 := m.positions[m.indices[3*f+2]]
		cr := p1.Sub(p0).Cross(p2.Sub(p0))
		acc = acc.Add(cr)
		area += cr.Len() / 2
	}
	c.Area3D = area

	normal := acc
	if normal.LenSqr() == 0 {
		normal = mgl32.Vec3{0, 0, 1}
	}
	normal = normal.Normalize()
	u, v := planeBasis(normal)

	c.UV = make([]mgl32.Vec2, len(c.Verts))
	for i, vi := range c.Verts {
		p := m.positions[vi]
		c.UV[i] = mgl32.Vec2{p.Dot(u), p.Dot(v)}
	}

	// Bounds.
	c.Min = c.UV[0]
	c.Max = c.UV[0]
	for _, uv := range c.UV[1:] {
		if uv.X() < c.Min.X() {
			c.Min = mgl32.Vec2{uv.X(), c.Min.Y()}
		}
		if uv.Y() < c.Min.Y() {
			c.Min = mgl32.Vec2{c.Min.X(), uv.Y()}
		}
		if uv.X() > c.Max.X() {
			c.Max = mgl32.Vec2{uv.X(), c.Max.Y()}
		}
		if uv.Y() > c.Max.Y() {
			c.Max = mgl32.Vec2{c.Max.X(), uv.Y()}
		}
	}

	// Signed flattened area. The cone cap keeps the faces front-facing, so
	// the signed sum matches the unsigned one for a healthy chart and
	// drops when projection folds or compresses geometry.
	var flat float32
	for _, f := range c.Faces {
		a := c.UV[local[m.indices[3*f]]]
		b := c.UV[local[m.indices[3*f+1]]]
		d := c.UV[local[m.indices[3*f+2]]]
		ab := b.Sub(a)
		ad := d.Sub(a)
		flat += (ab.X()*ad.Y() - ab.Y()*ad.X()) / 2
	}
	if flat < 0 {
		flat = -flat
	}

	switch {
	case area == 0:
		c.Stretch = 0
	case flat >= area:
		c.Stretch = 0
	default:
		c.Stretch = 1 - flat/area
	}
	return nil
}

// planeBasis returns two orthonormal vectors spanning the plane with the
// given unit normal.
func planeBasis(n mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	// Pick the axis least aligned with n to avoid a degenerate cross.
	axis := mgl32.Vec3{1, 0, 0}
	ax, ay, az := abs32(n.X()), abs32(n.Y()), abs32(n.Z())
	if ay <= ax && ay <= az {
		axis = mgl32.Vec3{0, 1, 0}
	} else if az <= ax && az <= ay {
		axis = mgl32.Vec3{0, 0, 1}
	}
	u := axis.Cross(n).Normalize()
	v := n.Cross(u)
	return u, v
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
