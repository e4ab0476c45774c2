package uvatlas

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAtlas_Release(t *testing.T) {
	m := quadMesh(t)
	if err := m.GenerateAdjacency(0); err != nil {
		t.Fatalf("GenerateAdjacency: %v", err)
	}
	atlas, err := Create(m, DefaultOptions())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	atlas.Release()
	if atlas.UVs != nil || atlas.Indices != nil || atlas.VertexRemap != nil || atlas.FacePartition != nil {
		t.Error("Release left buffers populated")
	}
	if atlas.VertexCount != 0 || atlas.FaceCount != 0 {
		t.Error("Release left counts set")
	}
	atlas.Release() // idempotent
}

func TestAtlas_LayoutImage(t *testing.T) {
	m := packedCube(t)
	atlas, err := Create(m, DefaultOptions())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	img := atlas.LayoutImage(64, 64)
	if got := img.Bounds(); got.Dx() != 64 || got.Dy() != 64 {
		t.Fatalf("bounds = %v, want 64x64", got)
	}

	covered := 0
	for i := range img.Pix {
		if img.Pix[i] > 0 {
			covered++
		}
	}
	if covered == 0 {
		t.Error("layout image is empty; charts rasterized nowhere")
	}
	// The shelf packer keeps chart rectangles well under the full raster,
	// so some gutter texels must remain blank.
	if covered == len(img.Pix) {
		t.Error("layout image fully covered; gutters missing")
	}
}

func TestAtlas_LayoutImageEmpty(t *testing.T) {
	var atlas Atlas
	img := atlas.LayoutImage(8, 8)
	for i := range img.Pix {
		if img.Pix[i] != 0 {
			t.Fatal("empty atlas produced coverage")
		}
	}
}

func TestAtlas_UVsInsideUnitSquare(t *testing.T) {
	m := packedCube(t)
	atlas, err := Create(m, DefaultOptions())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i, uv := range atlas.UVs {
		if uv.X() < 0 || uv.X() > 1 || uv.Y() < 0 || uv.Y() > 1 {
			t.Errorf("UVs[%d] = %v outside [0,1]^2", i, uv)
		}
	}
	var zero mgl32.Vec2
	distinct := false
	for _, uv := range atlas.UVs {
		if uv != zero {
			distinct = true
			break
		}
	}
	if !distinct {
		t.Error("all UVs are zero")
	}
}
