package uvatlas

import (
	"errors"
	"testing"
)

// quadMesh returns a unit quad in the z=0 plane: 4 vertices, 2 CCW
// triangles sharing the edge (0, 2).
func quadMesh(t *testing.T) *Mesh {
	t.Helper()
	var m Mesh
	if err := m.SetIndexData(2, []uint32{0, 1, 2, 0, 2, 3}); err != nil {
		t.Fatalf("SetIndexData: %v", err)
	}
	err := m.SetVertexData(
		[]float32{0, 1, 1, 0},
		[]float32{0, 0, 1, 1},
		[]float32{0, 0, 0, 0},
	)
	if err != nil {
		t.Fatalf("SetVertexData: %v", err)
	}
	return &m
}

// cubeMesh returns a closed unit cube: 8 vertices, 12 triangles, every
// edge shared by exactly two faces.
func cubeMesh(t *testing.T) *Mesh {
	t.Helper()
	var m Mesh
	indices := []uint32{
		0, 2, 1, 0, 3, 2, // z=0
		4, 5, 6, 4, 6, 7, // z=1
		0, 1, 5, 0, 5, 4, // y=0
		3, 7, 6, 3, 6, 2, // y=1
		0, 4, 7, 0, 7, 3, // x=0
		1, 2, 6, 1, 6, 5, // x=1
	}
	if err := m.SetIndexData(12, indices); err != nil {
		t.Fatalf("SetIndexData: %v", err)
	}
	err := m.SetVertexData(
		[]float32{0, 1, 1, 0, 0, 1, 1, 0},
		[]float32{0, 0, 1, 1, 0, 0, 1, 1},
		[]float32{0, 0, 0, 0, 1, 1, 1, 1},
	)
	if err != nil {
		t.Fatalf("SetVertexData: %v", err)
	}
	return &m
}

func TestMesh_Ingestion(t *testing.T) {
	tests := []struct {
		name    string
		faces   int
		indices []uint32
		verts   int
	}{
		{"single triangle", 1, []uint32{0, 1, 2}, 3},
		{"quad", 2, []uint32{0, 1, 2, 0, 2, 3}, 4},
		{"extra indices ignored", 1, []uint32{0, 1, 2, 9, 9, 9}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Mesh
			if err := m.SetIndexData(tt.faces, tt.indices); err != nil {
				t.Fatalf("SetIndexData: %v", err)
			}
			xs := make([]float32, tt.verts)
			ys := make([]float32, tt.verts)
			zs := make([]float32, tt.verts)
			if err := m.SetVertexData(xs, ys, zs); err != nil {
				t.Fatalf("SetVertexData: %v", err)
			}
			if m.FaceCount() != tt.faces {
				t.Errorf("FaceCount = %d, want %d", m.FaceCount(), tt.faces)
			}
			if m.VertexCount() != tt.verts {
				t.Errorf("VertexCount = %d, want %d", m.VertexCount(), tt.verts)
			}
			if len(m.Indices()) != 3*tt.faces {
				t.Errorf("len(Indices) = %d, want %d", len(m.Indices()), 3*tt.faces)
			}
		})
	}
}

func TestMesh_SetIndexData_Errors(t *testing.T) {
	tests := []struct {
		name    string
		faces   int
		indices []uint32
		want    error
	}{
		{"zero faces", 0, []uint32{0, 1, 2}, ErrInvalidArgument},
		{"negative faces", -1, []uint32{0, 1, 2}, ErrInvalidArgument},
		{"nil indices", 3, nil, ErrInvalidArgument},
		{"short indices", 2, []uint32{0, 1, 2}, ErrInvalidArgument},
		{"overflow", 1 << 31, []uint32{0}, ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Mesh
			err := m.SetIndexData(tt.faces, tt.indices)
			if !errors.Is(err, tt.want) {
				t.Errorf("SetIndexData = %v, want %v", err, tt.want)
			}
			if m.FaceCount() != 0 {
				t.Errorf("FaceCount after failure = %d, want 0", m.FaceCount())
			}
		})
	}
}

func TestMesh_SetVertexData_Errors(t *testing.T) {
	tests := []struct {
		name       string
		xs, ys, zs []float32
	}{
		{"empty", nil, nil, nil},
		{"mismatched ys", []float32{0, 1}, []float32{0}, []float32{0, 1}},
		{"mismatched zs", []float32{0, 1}, []float32{0, 1}, []float32{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Mesh
			if err := m.SetIndexData(1, []uint32{0, 1, 2}); err != nil {
				t.Fatalf("SetIndexData: %v", err)
			}
			err := m.SetVertexData(tt.xs, tt.ys, tt.zs)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("SetVertexData = %v, want ErrInvalidArgument", err)
			}
			if m.VertexCount() != 0 {
				t.Errorf("VertexCount after failure = %d, want 0", m.VertexCount())
			}
		})
	}
}

func TestMesh_SetIndexData_ResetsDerived(t *testing.T) {
	m := quadMesh(t)
	if err := m.SetAttributeData([]uint32{0, 1}); err != nil {
		t.Fatalf("SetAttributeData: %v", err)
	}
	if err := m.GenerateAdjacency(0); err != nil {
		t.Fatalf("GenerateAdjacency: %v", err)
	}

	if err := m.SetIndexData(2, []uint32{0, 1, 2, 0, 2, 3}); err != nil {
		t.Fatalf("SetIndexData: %v", err)
	}
	if m.Attributes() != nil {
		t.Error("Attributes survived SetIndexData")
	}
	if m.Adjacency() != nil {
		t.Error("Adjacency survived SetIndexData")
	}
}

func TestMesh_SetVertexData_ResetsDerived(t *testing.T) {
	m := quadMesh(t)
	if err := m.GenerateAdjacency(0); err != nil {
		t.Fatalf("GenerateAdjacency: %v", err)
	}
	if err := m.ComputeNormals(WeightByAngle); err != nil {
		t.Fatalf("ComputeNormals: %v", err)
	}

	// Repositioned vertices invalidate everything derived from positions.
	err := m.SetVertexData(
		[]float32{0, 2, 2, 0},
		[]float32{0, 0, 2, 2},
		[]float32{0, 0, 0, 0},
	)
	if err != nil {
		t.Fatalf("SetVertexData: %v", err)
	}
	if m.Adjacency() != nil {
		t.Error("Adjacency survived SetVertexData")
	}
	if m.PointReps() != nil {
		t.Error("PointReps survived SetVertexData")
	}
	if m.Normals() != nil {
		t.Error("Normals survived SetVertexData")
	}
}

func TestMesh_SetAttributeData(t *testing.T) {
	var m Mesh
	if err := m.SetAttributeData([]uint32{0}); !errors.Is(err, ErrNotReady) {
		t.Errorf("SetAttributeData before indices = %v, want ErrNotReady", err)
	}

	m2 := quadMesh(t)
	if err := m2.SetAttributeData([]uint32{0}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetAttributeData with wrong length = %v, want ErrInvalidArgument", err)
	}
	if err := m2.SetAttributeData([]uint32{1, 2}); err != nil {
		t.Fatalf("SetAttributeData: %v", err)
	}
	if got := m2.Attributes(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Attributes = %v, want [1 2]", got)
	}
}

func TestMesh_CopiesInput(t *testing.T) {
	indices := []uint32{0, 1, 2}
	xs := []float32{0, 1, 0}
	ys := []float32{0, 0, 1}
	zs := []float32{0, 0, 0}

	var m Mesh
	if err := m.SetIndexData(1, indices); err != nil {
		t.Fatalf("SetIndexData: %v", err)
	}
	if err := m.SetVertexData(xs, ys, zs); err != nil {
		t.Fatalf("SetVertexData: %v", err)
	}

	indices[0] = 99
	xs[0] = 99
	if m.Indices()[0] != 0 {
		t.Error("index buffer aliases caller memory")
	}
	if m.Positions()[0].X() != 0 {
		t.Error("position buffer aliases caller memory")
	}
}

func TestMesh_Clear(t *testing.T) {
	m := quadMesh(t)
	if err := m.GenerateAdjacency(0); err != nil {
		t.Fatalf("GenerateAdjacency: %v", err)
	}

	m.Clear()
	m.Clear() // idempotent

	if m.FaceCount() != 0 || m.VertexCount() != 0 {
		t.Errorf("counts after Clear = (%d, %d), want (0, 0)", m.FaceCount(), m.VertexCount())
	}
	if m.Indices() != nil || m.Positions() != nil || m.Adjacency() != nil {
		t.Error("buffers survived Clear")
	}
}
