// Command uvatlas packs the surface of a triangulated OBJ mesh into a UV
// atlas and writes the result as an OBJ with texture coordinates.
package main

import (
	"flag"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/uvatlas"
	"github.com/gogpu/uvatlas/internal/objfile"
)

func main() {
	var (
		in      = flag.String("in", "", "input OBJ file (required)")
		out     = flag.String("out", "atlas.obj", "output OBJ file")
		layout  = flag.String("layout", "", "optional PNG of the packed chart layout")
		config  = flag.String("config", "", "YAML options file")
		charts  = flag.Int("max-charts", 0, "maximum chart count, 0 = unbounded")
		stretch = flag.Float64("max-stretch", 0.16667, "stretch budget in [0,1]")
		gutter  = flag.Float64("gutter", 2, "inter-chart spacing in texels")
		size    = flag.Int("size", 512, "target raster resolution (width = height)")
		epsilon = flag.Float64("epsilon", 0, "vertex welding distance for adjacency")
		clean   = flag.Bool("clean", true, "split bowtie vertices before packing")
		normals = flag.Bool("normals", false, "write computed vertex normals")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		uvatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	opts := uvatlas.DefaultOptions()
	if *config != "" {
		loaded, err := uvatlas.LoadOptions(*config)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		opts = loaded
	} else {
		opts.MaxCharts = *charts
		opts.MaxStretch = float32(*stretch)
		opts.Gutter = float32(*gutter)
		opts.Width = *size
		opts.Height = *size
		opts.AdjacencyEpsilon = float32(*epsilon)
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	model, err := objfile.Read(f)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to read OBJ: %v", err)
	}

	var m uvatlas.Mesh
	indices := make([]uint32, 0, len(model.Faces)*3)
	for _, face := range model.Faces {
		indices = append(indices, face[0], face[1], face[2])
	}
	xs := make([]float32, len(model.Positions))
	ys := make([]float32, len(model.Positions))
	zs := make([]float32, len(model.Positions))
	for i, p := range model.Positions {
		xs[i], ys[i], zs[i] = p.X(), p.Y(), p.Z()
	}
	if err := m.SetIndexData(len(model.Faces), indices); err != nil {
		log.Fatalf("Failed to set index data: %v", err)
	}
	if err := m.SetVertexData(xs, ys, zs); err != nil {
		log.Fatalf("Failed to set vertex data: %v", err)
	}

	if *clean {
		if err := m.Clean(true); err != nil {
			log.Fatalf("Failed to clean mesh: %v", err)
		}
	}
	if err := m.GenerateAdjacency(opts.AdjacencyEpsilon); err != nil {
		log.Fatalf("Failed to generate adjacency: %v", err)
	}
	if *normals {
		if err := m.ComputeNormals(uvatlas.WeightByAngle); err != nil {
			log.Fatalf("Failed to compute normals: %v", err)
		}
	}

	atlas, err := uvatlas.Create(&m, opts)
	if err != nil {
		log.Fatalf("Failed to create atlas (code %d): %v", uvatlas.CodeOf(err), err)
	}

	result := outputModel(&m, atlas, *normals)
	of, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	if err := objfile.Write(of, result); err != nil {
		of.Close()
		log.Fatalf("Failed to write OBJ: %v", err)
	}
	if err := of.Close(); err != nil {
		log.Fatalf("Failed to close output: %v", err)
	}

	if *layout != "" {
		img := atlas.LayoutImage(opts.Width, opts.Height)
		lf, err := os.Create(*layout)
		if err != nil {
			log.Fatalf("Failed to create layout image: %v", err)
		}
		if err := png.Encode(lf, img); err != nil {
			lf.Close()
			log.Fatalf("Failed to encode layout image: %v", err)
		}
		lf.Close()
	}

	log.Printf("%s: %d charts, stretch %.4f, %d vertices, %.0f%% utilization",
		*out, atlas.Charts, atlas.Stretch, atlas.VertexCount, atlas.Utilization()*100)
}

// outputModel rebuilds an OBJ model from the atlas: output vertices carry
// the packed UVs, positions (and normals) follow the remap back to the
// source mesh.
func outputModel(m *uvatlas.Mesh, atlas *uvatlas.Atlas, withNormals bool) *objfile.Model {
	model := &objfile.Model{
		Positions: make([]mgl32.Vec3, atlas.VertexCount),
		UVs:       make([]mgl32.Vec2, atlas.VertexCount),
		Faces:     make([][3]uint32, atlas.FaceCount),
	}
	pos := m.Positions()
	norms := m.Normals()
	if withNormals && norms != nil {
		model.Normals = make([]mgl32.Vec3, atlas.VertexCount)
	}
	for i, src := range atlas.VertexRemap {
		model.Positions[i] = pos[src]
		model.UVs[i] = atlas.UVs[i]
		if model.Normals != nil {
			model.Normals[i] = norms[src]
		}
	}
	for f := 0; f < atlas.FaceCount; f++ {
		model.Faces[f] = [3]uint32{
			atlas.Indices[3*f],
			atlas.Indices[3*f+1],
			atlas.Indices[3*f+2],
		}
	}
	return model
}
