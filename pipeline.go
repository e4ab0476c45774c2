package uvatlas

// Run is the single end-to-end pipeline entry: it ingests the caller's
// buffers into a fresh Mesh, derives adjacency with opts.AdjacencyEpsilon
// and packs the atlas. The input slices are copied, never retained.
//
// Run performs no cleanup or validation; callers that need Clean,
// Validate or ComputeNormals drive the stages themselves and finish with
// Create. Either a populated Atlas or a typed failure is returned — never
// a partial result. Use CodeOf to turn the failure into a numeric
// boundary code.
func Run(nFaces int, indices []uint32, xs, ys, zs []float32, opts Options) (*Atlas, error) {
	var m Mesh
	if err := m.SetIndexData(nFaces, indices); err != nil {
		return nil, err
	}
	if err := m.SetVertexData(xs, ys, zs); err != nil {
		return nil, err
	}
	if err := m.GenerateAdjacency(opts.AdjacencyEpsilon); err != nil {
		return nil, err
	}
	return Create(&m, opts)
}
