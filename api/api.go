// Package api converts splat PLY bytes to GLB or SPB bytes in memory and
// inspects the produced containers. It backs both the CLI runners and the
// wasm build.
package api

import (
	"bytes"
	"fmt"

	"github.com/voxelsplace/splatpack/ply"
	"github.com/voxelsplace/splatpack/splat"
)

// Output is an encoded container and the conversion behind it.
type Output struct {
	Bytes []byte
	// JSON is the glTF JSON chunk, set for the texture target only.
	JSON   []byte
	Result *splat.Result
}

// ReadPLY parses PLY bytes, inflating zlib or zstd wrapped input first.
func ReadPLY(data []byte, name string) (splat.Input, error) {
	data, _, err := splat.Decompress(data)
	if err != nil {
		return splat.Input{}, err
	}
	names, verts, err := ply.Read(bytes.NewReader(data))
	if err != nil {
		return splat.Input{}, fmt.Errorf("read ply %s: %w", name, err)
	}
	return splat.Input{Name: name, Properties: names, Data: verts}, nil
}

// Convert runs the pipeline on PLY bytes and encodes the result with the
// container selected by opts.Target.
func Convert(data []byte, name string, opts splat.Options) (*Output, error) {
	in, err := ReadPLY(data, name)
	if err != nil {
		return nil, err
	}
	res, err := splat.Convert(in, opts)
	if err != nil {
		return nil, err
	}
	out := &Output{Result: res}
	if res.Sequential != nil {
		out.Bytes = res.Sequential.Marshal()
		return out, nil
	}
	doc, err := BuildGLB(res)
	if err != nil {
		return nil, err
	}
	if out.Bytes, err = EncodeGLB(doc); err != nil {
		return nil, err
	}
	if out.JSON, err = EncodeGLTFJSON(doc); err != nil {
		return nil, err
	}
	return out, nil
}

// PLYToGLB converts PLY bytes to a GLB with Morton ordering.
func PLYToGLB(data []byte, name string) ([]byte, error) {
	out, err := Convert(data, name, splat.Options{Target: splat.TargetTexture, Level: splat.LevelHigh})
	if err != nil {
		return nil, err
	}
	return out.Bytes, nil
}

// PLYToSPB converts PLY bytes to an SPB stream at the given quality level.
func PLYToSPB(data []byte, name string, level int, pad bool) ([]byte, error) {
	out, err := Convert(data, name, splat.Options{Target: splat.TargetSequential, Level: splat.Level(level), Pad: pad})
	if err != nil {
		return nil, err
	}
	return out.Bytes, nil
}
