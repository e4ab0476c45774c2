package uvatlas

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PackFlags is a bitmask selecting heuristic variants of the packer.
type PackFlags uint32

const (
	// PackDefault balances chart count against stretch.
	PackDefault PackFlags = 0

	// PackFewerCharts biases partitioning toward fewer, larger charts at
	// the cost of more stretch per chart.
	PackFewerCharts PackFlags = 1 << 0

	// PackLowerStretch biases partitioning toward flatter charts at the
	// cost of a higher chart count.
	PackLowerStretch PackFlags = 1 << 1
)

// Options configures atlas creation.
type Options struct {
	// MaxCharts bounds the number of charts; 0 means unbounded.
	MaxCharts int `yaml:"max_charts"`

	// MaxStretch is the allowed fraction of signal distortion per chart,
	// in [0, 1]. 0 admits only developable charts.
	MaxStretch float32 `yaml:"max_stretch"`

	// Gutter is the minimum separation between charts, in texels of the
	// target raster.
	Gutter float32 `yaml:"gutter"`

	// Width and Height give the target raster resolution in texels. They
	// convert Gutter to UV-space margin and set the packing grid.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Flags selects packing heuristics.
	Flags PackFlags `yaml:"flags"`

	// AdjacencyEpsilon is the vertex welding distance used when Run
	// builds adjacency before packing. Unused by Create, which expects
	// adjacency to be generated already.
	AdjacencyEpsilon float32 `yaml:"adjacency_epsilon"`
}

// DefaultOptions returns the default atlas configuration: unbounded
// charts, 1/6 stretch budget, 2 texel gutter, 512x512 raster.
func DefaultOptions() Options {
	return Options{
		MaxCharts:        0,
		MaxStretch:       0.16667,
		Gutter:           2,
		Width:            512,
		Height:           512,
		Flags:            PackDefault,
		AdjacencyEpsilon: 0,
	}
}

// OptionsError reports an invalid Options field.
type OptionsError struct {
	Field  string
	Reason string
}

func (e *OptionsError) Error() string {
	return "uvatlas: invalid options." + e.Field + ": " + e.Reason
}

// Validate checks the configuration.
func (o *Options) Validate() error {
	if o.MaxCharts < 0 {
		return &OptionsError{Field: "MaxCharts", Reason: "must be non-negative"}
	}
	if o.MaxStretch < 0 || o.MaxStretch > 1 {
		return &OptionsError{Field: "MaxStretch", Reason: "must be in [0, 1]"}
	}
	if o.Gutter < 0 {
		return &OptionsError{Field: "Gutter", Reason: "must be non-negative"}
	}
	if o.Width <= 0 {
		return &OptionsError{Field: "Width", Reason: "must be positive"}
	}
	if o.Height <= 0 {
		return &OptionsError{Field: "Height", Reason: "must be positive"}
	}
	if int(o.Gutter) >= o.Width || int(o.Gutter) >= o.Height {
		return &OptionsError{Field: "Gutter", Reason: "must be smaller than the raster"}
	}
	if o.AdjacencyEpsilon < 0 {
		return &OptionsError{Field: "AdjacencyEpsilon", Reason: "must be non-negative"}
	}
	return nil
}

// LoadOptions reads Options from a YAML file, starting from
// DefaultOptions so absent fields keep their defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("loading options from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("loading options from %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("loading options from %s: %w", path, err)
	}
	return opts, nil
}

// SaveOptions writes the Options to a YAML file, creating parent
// directories as needed.
func SaveOptions(path string, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(&opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
