package utils

import (
	"os"

	"github.com/voxelsplace/splatpack/api"
	"github.com/voxelsplace/splatpack/splat"
)

// RunInspect describes a GLB or SPB file, compressed or not.
func RunInspect(path string) (*api.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return api.Inspect(data)
}

// RunAnalyze sorts a PLY file and computes its chunk locality. Nothing is
// encoded, so texture capacity does not apply.
func RunAnalyze(path string, opts splat.Options) (*splat.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	in, err := api.ReadPLY(data, path)
	if err != nil {
		return nil, err
	}
	opts.Analyze = true
	res, _, err := splat.Sorted(in, opts)
	return res, err
}
