package splat

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// CompactThreshold is the chunk diameter under which a chunk counts as
// compact: the diagonal of a unit cube.
var CompactThreshold = math.Sqrt(3)

// ChunkStats summarizes how tightly a sort packs consecutive points.
type ChunkStats struct {
	Points  int
	Chunks  int
	Compact int
	// CompactPercent is Compact/Chunks in percent.
	CompactPercent float64
	MaxDiameter    float64
	MeanDiameter   float64
	// Diameters holds the largest pairwise distance inside each chunk.
	Diameters []float64
}

// AnalyzeChunks measures every run of ChunkSize consecutive points of pos
// (three floats per point). A chunk with fewer than two points has
// diameter 0.
func AnalyzeChunks(pos []float32) ChunkStats {
	n := len(pos) / 3
	st := ChunkStats{Points: n, Chunks: (n + ChunkSize - 1) / ChunkSize}
	if st.Chunks == 0 {
		return st
	}
	st.Diameters = make([]float64, st.Chunks)
	pts := make([]r3.Vec, ChunkSize)
	for c := range st.Diameters {
		lo, hi := c*ChunkSize, min((c+1)*ChunkSize, n)
		pts = pts[:hi-lo]
		for i := range pts {
			p := pos[3*(lo+i):]
			pts[i] = r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
		}
		var d float64
		for i := range pts {
			for j := i + 1; j < len(pts); j++ {
				d = max(d, r3.Norm(r3.Sub(pts[i], pts[j])))
			}
		}
		st.Diameters[c] = d
		if d < CompactThreshold {
			st.Compact++
		}
	}
	st.CompactPercent = 100 * float64(st.Compact) / float64(st.Chunks)
	st.MaxDiameter = floats.Max(st.Diameters)
	st.MeanDiameter = stat.Mean(st.Diameters, nil)
	return st
}
