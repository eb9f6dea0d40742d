//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/voxelsplace/splatpack/api"
)

func bytesFromJS(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func bytesToJS(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// ply2glb(plyBytes, name)
func ply2glb(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("usage: ply2glb(bytes, name)")
	}
	out, err := api.PLYToGLB(bytesFromJS(args[0]), args[1].String())
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

// ply2spb(plyBytes, name, level, pad)
func ply2spb(this js.Value, args []js.Value) any {
	if len(args) < 4 {
		return js.ValueOf("usage: ply2spb(bytes, name, level, pad)")
	}
	out, err := api.PLYToSPB(bytesFromJS(args[0]), args[1].String(), args[2].Int(), args[3].Bool())
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

// inspectSplat(bytes) returns the manifest as an object
func inspectSplat(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing container bytes")
	}
	m, err := api.Inspect(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	regions := js.Global().Get("Array").New()
	for _, r := range m.Regions {
		regions.Call("push", map[string]any{
			"name":   r.Name,
			"size":   r.Size,
			"format": string(r.Format),
			"width":  r.Width,
			"height": r.Height,
			"xxh64":  r.XXH64,
		})
	}
	return js.ValueOf(map[string]any{
		"container":   m.Container,
		"compression": m.Compression,
		"schema":      m.Schema,
		"name":        m.Name,
		"points":      m.Points,
		"quality":     m.Quality,
		"regions":     regions,
	})
}

func main() {
	js.Global().Set("ply2glb", js.FuncOf(ply2glb))
	js.Global().Set("ply2spb", js.FuncOf(ply2spb))
	js.Global().Set("inspectSplat", js.FuncOf(inspectSplat))
	select {}
}
