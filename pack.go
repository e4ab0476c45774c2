package uvatlas

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/uvatlas/internal/parallel"
)

// CreateOption configures Create beyond the packing Options.
// Use functional options to customize packer behavior.
//
// Example:
//
//	// Default planar parameterizer
//	atlas, err := uvatlas.Create(&m, opts)
//
//	// Custom chart algorithm (dependency injection)
//	atlas, err := uvatlas.Create(&m, opts, uvatlas.WithParameterizer(lscm))
type CreateOption func(*createOptions)

// createOptions holds optional configuration for Create.
type createOptions struct {
	param   Parameterizer
	workers int
}

// WithParameterizer sets a custom chart partitioning and flattening
// algorithm. The default grows charts over the adjacency buffer and
// flattens by planar projection.
func WithParameterizer(p Parameterizer) CreateOption {
	return func(o *createOptions) {
		o.param = p
	}
}

// WithWorkers sets the number of goroutines used for chart flattening.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) CreateOption {
	return func(o *createOptions) {
		o.workers = n
	}
}

// packTries bounds the scale-and-retry loop; each failed attempt shrinks
// the charts, so the loop terminates long before the bound in practice.
const packTries = 64

// stretchSlack absorbs float rounding when holding charts to MaxStretch.
const stretchSlack = 1e-4

// Create partitions the mesh into charts, flattens each chart into UV
// space and packs the charts into the unit square without overlap,
// honoring Options.Gutter as minimum inter-chart spacing once scaled to
// UV units via Options.Width and Options.Height.
//
// The mesh must have positions, indices and a generated adjacency buffer;
// Create does not implicitly clean or validate. Charts may disagree with
// the mesh's attribute grouping: attributes are advisory here.
//
// On infeasible constraints Create fails with an ErrPackingFailed error
// carrying the attempted chart count and achieved stretch, so the caller
// can relax MaxCharts or MaxStretch and retry. It never returns a
// degraded or overlapping result.
func Create(m *Mesh, opts Options, createOpts ...CreateOption) (*Atlas, error) {
	const op = "Create"

	co := createOptions{param: planarParameterizer{}}
	for _, apply := range createOpts {
		apply(&co)
	}

	if err := opts.Validate(); err != nil {
		return nil, stageErr(op, KindInvalidArgument, "%v", err)
	}
	if m.faces == 0 || len(m.indices) == 0 || m.verts == 0 || len(m.positions) == 0 {
		return nil, stageErr(op, KindNotReady, "index or vertex data not set")
	}
	if len(m.adjacency) != len(m.indices) {
		return nil, stageErr(op, KindNotReady, "adjacency not generated")
	}

	charts, err := co.param.Partition(m, opts)
	if err != nil {
		return nil, err
	}

	// Flatten charts in parallel; each task owns its chart slot, so the
	// result does not depend on scheduling.
	pool := parallel.NewWorkerPool(co.workers)
	flattenErrs := make([]error, len(charts))
	pool.ForEach(len(charts), func(i int) {
		flattenErrs[i] = co.param.Flatten(m, &charts[i])
	})
	pool.Close()
	for _, ferr := range flattenErrs {
		if ferr != nil {
			return nil, ferr
		}
	}

	var worst float32
	for i := range charts {
		if charts[i].Stretch > worst {
			worst = charts[i].Stretch
		}
	}
	if worst > opts.MaxStretch+stretchSlack {
		return nil, &Error{
			Op:              op,
			Kind:            KindPackingFailed,
			Detail:          "stretch budget exceeded",
			AttemptedCharts: len(charts),
			AchievedStretch: worst,
		}
	}

	placements, scale, util, err := packCharts(charts, opts)
	if err != nil {
		return nil, err
	}

	atlas := assembleAtlas(m, charts, placements, scale, opts)
	atlas.Stretch = worst
	atlas.utilization = util

	Logger().Info("uvatlas: atlas created",
		"charts", atlas.Charts,
		"stretch", atlas.Stretch,
		"vertices", atlas.VertexCount,
		"utilization", atlas.utilization)
	return atlas, nil
}

// placement is a chart's texel position in the raster.
type placement struct {
	x, y int
}

// packCharts places every chart rectangle into the Width x Height raster
// with Gutter texels of spacing. All charts share one scale (uniform
// texel density); when a pass does not fit, the scale is reduced and the
// pass retried. Returns the placements, the final scale in texels per
// UV unit and the raster utilization.
func packCharts(charts []Chart, opts Options) ([]placement, float64, float64, error) {
	const op = "Create"
	padding := int(math.Ceil(float64(opts.Gutter)))

	// Even one-texel charts must fit with their gutter.
	if (1+padding)*(1+padding)*len(charts) > opts.Width*opts.Height {
		return nil, 0, 0, &Error{
			Op:              op,
			Kind:            KindPackingFailed,
			Detail:          "raster too small for the chart count and gutter",
			AttemptedCharts: len(charts),
		}
	}

	// Initial scale: fill a fraction of the raster with the chart bounds,
	// capped so the widest and tallest charts fit on their own.
	var boundsArea, maxW, maxH float64
	for i := range charts {
		w := float64(charts[i].Width())
		h := float64(charts[i].Height())
		boundsArea += w * h
		maxW = math.Max(maxW, w)
		maxH = math.Max(maxH, h)
	}
	scale := math.Inf(1)
	if boundsArea > 0 {
		scale = math.Sqrt(0.7 * float64(opts.Width*opts.Height) / boundsArea)
	}
	if maxW > 0 {
		scale = math.Min(scale, float64(opts.Width-padding-1)/maxW)
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(opts.Height-padding-1)/maxH)
	}
	if math.IsInf(scale, 1) {
		// All charts are degenerate points; any positive scale works.
		scale = 1
	}

	packer := newShelfPacker(opts.Width, opts.Height, padding)
	placements := make([]placement, len(charts))
	order := make([]int, len(charts))

	for try := 0; try < packTries; try++ {
		// Tallest first gives the shelf packer its best shot; the stable
		// sort keeps chart order on ties, so packing is deterministic.
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return texelSize(charts[order[a]].Height(), scale) >
				texelSize(charts[order[b]].Height(), scale)
		})

		packer.reset()
		ok := true
		for _, ci := range order {
			w := texelSize(charts[ci].Width(), scale)
			h := texelSize(charts[ci].Height(), scale)
			x, y, placed := packer.place(w, h)
			if !placed {
				ok = false
				break
			}
			placements[ci] = placement{x: x, y: y}
		}
		if ok {
			Logger().Debug("uvatlas: charts packed",
				"tries", try+1, "scale", scale, "utilization", packer.utilization())
			return placements, scale, packer.utilization(), nil
		}
		scale *= 0.85
	}

	return nil, 0, 0, &Error{
		Op:              op,
		Kind:            KindPackingFailed,
		Detail:          "charts do not fit the raster at any scale",
		AttemptedCharts: len(charts),
	}
}

// texelSize quantizes a chart extent to whole texels, at least one.
func texelSize(extent float32, scale float64) int {
	n := int(math.Ceil(float64(extent) * scale))
	if n < 1 {
		n = 1
	}
	return n
}

// assembleAtlas builds the output buffers. Every chart contributes its
// own copy of the vertices it uses, so vertices on chart boundaries are
// duplicated; VertexRemap records the input vertex behind each copy.
// Face order follows the input mesh.
func assembleAtlas(m *Mesh, charts []Chart, placements []placement, scale float64, opts Options) *Atlas {
	offsets := make([]uint32, len(charts))
	total := 0
	for i := range charts {
		offsets[i] = uint32(total)
		total += len(charts[i].Verts)
	}

	uvs := make([]mgl32.Vec2, total)
	remap := make([]uint32, total)
	for ci := range charts {
		c := &charts[ci]
		px := float64(placements[ci].x)
		py := float64(placements[ci].y)
		for li, vi := range c.Verts {
			u := (px + (float64(c.UV[li].X()-c.Min.X()))*scale) / float64(opts.Width)
			v := (py + (float64(c.UV[li].Y()-c.Min.Y()))*scale) / float64(opts.Height)
			uvs[offsets[ci]+uint32(li)] = mgl32.Vec2{float32(u), float32(v)}
			remap[offsets[ci]+uint32(li)] = vi
		}
	}

	faceChart := make([]uint32, m.faces)
	for ci := range charts {
		for _, f := range charts[ci].Faces {
			faceChart[f] = uint32(ci)
		}
	}

	// Per-chart vertex lookup, derived from Verts so any Parameterizer
	// implementation feeds the assembly the same way.
	locals := make([]map[uint32]uint32, len(charts))
	for ci := range charts {
		lm := make(map[uint32]uint32, len(charts[ci].Verts))
		for li, v := range charts[ci].Verts {
			lm[v] = uint32(li)
		}
		locals[ci] = lm
	}

	indices := make([]uint32, len(m.indices))
	for f := 0; f < m.faces; f++ {
		ci := faceChart[f]
		for e := 0; e < 3; e++ {
			indices[3*f+e] = offsets[ci] + locals[ci][m.indices[3*f+e]]
		}
	}

	return &Atlas{
		VertexCount:   total,
		FaceCount:     m.faces,
		UVs:           uvs,
		Indices:       indices,
		VertexRemap:   remap,
		FacePartition: faceChart,
		Charts:        len(charts),
	}
}
