package uvatlas

import (
	"errors"
	"testing"
)

// cubeBuffers returns the cube as the flat component arrays Run expects.
func cubeBuffers(t *testing.T) (int, []uint32, []float32, []float32, []float32) {
	t.Helper()
	m := cubeMesh(t)
	xs := make([]float32, m.VertexCount())
	ys := make([]float32, m.VertexCount())
	zs := make([]float32, m.VertexCount())
	for i, p := range m.Positions() {
		xs[i], ys[i], zs[i] = p.X(), p.Y(), p.Z()
	}
	return m.FaceCount(), m.Indices(), xs, ys, zs
}

func TestRun_Cube(t *testing.T) {
	nFaces, indices, xs, ys, zs := cubeBuffers(t)
	atlas, err := Run(nFaces, indices, xs, ys, zs, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer atlas.Release()

	if atlas.Charts != 6 {
		t.Errorf("Charts = %d, want 6", atlas.Charts)
	}
	if atlas.FaceCount != nFaces {
		t.Errorf("FaceCount = %d, want %d", atlas.FaceCount, nFaces)
	}
	if CodeOf(err) != CodeOK {
		t.Errorf("CodeOf(nil) = %d, want CodeOK", CodeOf(err))
	}
}

func TestRun_FailureCodes(t *testing.T) {
	nFaces, indices, xs, ys, zs := cubeBuffers(t)

	tooFew := DefaultOptions()
	tooFew.MaxCharts = 1

	tests := []struct {
		name    string
		nFaces  int
		indices []uint32
		xs      []float32
		opts    Options
		want    int
	}{
		{"no faces", 0, indices, xs, DefaultOptions(), CodeBadInput},
		{"too many faces", 1 << 31, []uint32{0, 1, 2}, xs, DefaultOptions(), CodeOverflow},
		{"index out of range", 1, []uint32{0, 1, 99}, xs, DefaultOptions(), CodeAdjacency},
		{"chart cap infeasible", nFaces, indices, xs, tooFew, CodePacking},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atlas, err := Run(tt.nFaces, tt.indices, tt.xs, ys, zs, tt.opts)
			if err == nil {
				t.Fatal("Run succeeded, want failure")
			}
			if atlas != nil {
				t.Error("Run returned a partial atlas alongside the error")
			}
			if got := CodeOf(err); got != tt.want {
				t.Errorf("CodeOf = %d, want %d (error: %v)", got, tt.want, err)
			}
		})
	}
}

func TestRun_DoesNotRetainInput(t *testing.T) {
	nFaces, indices, xs, ys, zs := cubeBuffers(t)
	atlas, err := Run(nFaces, indices, xs, ys, zs, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	first := append([]uint32(nil), atlas.Indices...)
	for i := range indices {
		indices[i] = 0
	}
	for i := range atlas.Indices {
		if atlas.Indices[i] != first[i] {
			t.Fatal("mutating the input index buffer changed the atlas")
		}
	}
}

func TestRun_PackingError(t *testing.T) {
	nFaces, indices, xs, ys, zs := cubeBuffers(t)
	opts := DefaultOptions()
	opts.MaxCharts = 3

	_, err := Run(nFaces, indices, xs, ys, zs, opts)
	if !errors.Is(err, ErrPackingFailed) {
		t.Fatalf("Run error = %v, want ErrPackingFailed", err)
	}
	var uerr *Error
	if !errors.As(err, &uerr) {
		t.Fatalf("Run error %T is not *Error", err)
	}
	if uerr.AttemptedCharts != 6 {
		t.Errorf("AttemptedCharts = %d, want 6", uerr.AttemptedCharts)
	}
}
