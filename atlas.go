package uvatlas

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"
)

// Atlas is the output of a successful pack: per-vertex UV coordinates, a
// rewritten index buffer and the provenance of every output vertex.
// Created once per pack and never mutated afterwards; it owns its buffers
// independently of the source Mesh.
type Atlas struct {
	// VertexCount is the number of output vertices. Flattening duplicates
	// vertices along chart boundaries, so it can exceed the input's.
	VertexCount int

	// FaceCount matches the input face count.
	FaceCount int

	// UVs holds one coordinate per output vertex, inside the unit square.
	UVs []mgl32.Vec2

	// Indices is the rewritten index buffer, 3*FaceCount entries, each
	// below VertexCount. Face order matches the input mesh.
	Indices []uint32

	// VertexRemap maps every output vertex to the input vertex it
	// originates from. Several output vertices may map to the same input
	// vertex.
	VertexRemap []uint32

	// FacePartition records the chart id of every input face.
	FacePartition []uint32

	// Stretch is the achieved stretch: the worst per-chart signal
	// distortion, in [0, 1].
	Stretch float32

	// Charts is the final chart count.
	Charts int

	// utilization is the fraction of the raster covered by charts.
	utilization float64
}

// Utilization returns the fraction of the target raster covered by chart
// rectangles, in [0, 1].
func (a *Atlas) Utilization() float64 { return a.utilization }

// Release drops the atlas buffers. Idempotent; the Atlas must not be used
// afterwards.
func (a *Atlas) Release() {
	a.UVs = nil
	a.Indices = nil
	a.VertexRemap = nil
	a.FacePartition = nil
	a.VertexCount = 0
	a.FaceCount = 0
}

// LayoutImage rasterizes the packed triangles into a w x h coverage
// image, for visual inspection of the chart layout. Gutter space stays
// at zero alpha.
func (a *Atlas) LayoutImage(w, h int) *image.Alpha {
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	if len(a.Indices) == 0 {
		return dst
	}

	r := vector.NewRasterizer(w, h)
	for f := 0; f < a.FaceCount; f++ {
		p0 := a.UVs[a.Indices[3*f]]
		p1 := a.UVs[a.Indices[3*f+1]]
		p2 := a.UVs[a.Indices[3*f+2]]
		r.MoveTo(p0.X()*float32(w), p0.Y()*float32(h))
		r.LineTo(p1.X()*float32(w), p1.Y()*float32(h))
		r.LineTo(p2.X()*float32(w), p2.Y()*float32(h))
		r.ClosePath()
	}
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}
