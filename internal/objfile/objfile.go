// Package objfile reads and writes a minimal subset of Wavefront OBJ:
// vertex positions, normals, texture coordinates and triangulated faces.
// It exists for cmd/uvatlas; it is not a general OBJ implementation.
package objfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Model holds the geometry of one OBJ file. Faces index Positions;
// UVs and Normals, when present, are per-vertex and parallel to
// Positions.
type Model struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Faces     [][3]uint32
}

// Read parses an OBJ stream. Polygons are fan-triangulated; negative
// (relative) indices are resolved against the current vertex count.
// Per-corner normal and UV references are ignored: the pipeline derives
// both itself.
func Read(r io.Reader) (*Model, error) {
	var m Model
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("objfile: line %d: vertex needs 3 coordinates", lineNo)
			}
			x, err1 := strconv.ParseFloat(fields[1], 32)
			y, err2 := strconv.ParseFloat(fields[2], 32)
			z, err3 := strconv.ParseFloat(fields[3], 32)
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, fmt.Errorf("objfile: line %d: bad vertex coordinate", lineNo)
			}
			m.Positions = append(m.Positions, mgl32.Vec3{float32(x), float32(y), float32(z)})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("objfile: line %d: face needs 3 or more corners", lineNo)
			}
			corners := make([]uint32, 0, len(fields)-1)
			for _, fld := range fields[1:] {
				// A corner is "v", "v/vt", "v//vn" or "v/vt/vn"; only the
				// position index matters here.
				s := fld
				if k := strings.IndexByte(s, '/'); k >= 0 {
					s = s[:k]
				}
				idx, err := strconv.Atoi(s)
				if err != nil || idx == 0 {
					return nil, fmt.Errorf("objfile: line %d: bad face index %q", lineNo, fld)
				}
				if idx < 0 {
					idx += len(m.Positions) + 1
				}
				if idx < 1 || idx > len(m.Positions) {
					return nil, fmt.Errorf("objfile: line %d: face index %d out of range", lineNo, idx)
				}
				corners = append(corners, uint32(idx-1))
			}
			// Fan triangulation.
			for i := 1; i < len(corners)-1; i++ {
				m.Faces = append(m.Faces, [3]uint32{corners[0], corners[i], corners[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("objfile: %w", err)
	}
	if len(m.Positions) == 0 || len(m.Faces) == 0 {
		return nil, fmt.Errorf("objfile: no geometry found")
	}
	return &m, nil
}

// Write emits the model as OBJ. UVs and Normals are written when present
// and referenced per corner, so a vertex keeps one UV across all its
// faces (the uvatlas output duplicates vertices instead of sharing them).
func Write(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# exported by uvatlas")

	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X(), p.Y(), p.Z())
	}
	for _, uv := range m.UVs {
		fmt.Fprintf(bw, "vt %g %g\n", uv.X(), uv.Y())
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n.X(), n.Y(), n.Z())
	}

	hasUV := len(m.UVs) > 0
	hasN := len(m.Normals) > 0
	for _, f := range m.Faces {
		fmt.Fprint(bw, "f")
		for _, c := range f {
			i := c + 1
			switch {
			case hasUV && hasN:
				fmt.Fprintf(bw, " %d/%d/%d", i, i, i)
			case hasUV:
				fmt.Fprintf(bw, " %d/%d", i, i)
			case hasN:
				fmt.Fprintf(bw, " %d//%d", i, i)
			default:
				fmt.Fprintf(bw, " %d", i)
			}
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
