package utils

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/voxelsplace/splatpack/ply"
	"github.com/voxelsplace/splatpack/splat"
)

// noiseCells is the side of the cell grid splats are scattered over.
const noiseCells = 16

// noiseValue draws one property value with a plausible distribution for
// its name.
func noiseValue(name string, r *rand.Rand) float32 {
	switch {
	case strings.HasPrefix(name, "n"):
		return 0
	case strings.HasPrefix(name, "f_dc_"):
		return float32(r.NormFloat64() * 0.5)
	case strings.HasPrefix(name, "f_rest_"):
		return float32(r.NormFloat64() * 0.1)
	case name == "opacity":
		return float32(r.NormFloat64() * 2)
	case strings.HasPrefix(name, "scale_"):
		return float32(-5 + 2*r.Float64())
	case strings.HasPrefix(name, "rot_"):
		return float32(r.NormFloat64())
	case strings.HasPrefix(name, "motion_"):
		return float32(r.NormFloat64() * 0.05)
	case strings.HasPrefix(name, "omega_"):
		return float32(r.NormFloat64() * 0.1)
	case name == "trbf_center":
		return float32(r.Float64())
	case name == "trbf_scale":
		return float32(r.Float64()*2 - 1)
	}
	return 0
}

// GenerateNoiseCloud returns n rows of schema columns. Positions are
// scattered inside randomly chosen cells of a 16x16x16 unit grid, with
// the given percentage of cells occupied.
func GenerateNoiseCloud(schema *splat.Schema, n int, percentage float64, r *rand.Rand) []float32 {
	percentage = max(0, min(100, percentage))
	total := noiseCells * noiseCells * noiseCells
	want := max(1, int(float64(total)*(percentage/100.0)+0.5))

	// partial Fisher-Yates over the cells
	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < want; i++ {
		j := i + r.Intn(total-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	names := schema.CanonicalProperties()
	x, y, z := schema.Column("x"), schema.Column("y"), schema.Column("z")
	out := make([]float32, 0, n*schema.Total)
	for p := 0; p < n; p++ {
		row := make([]float32, len(names))
		for c, name := range names {
			row[c] = noiseValue(name, r)
		}
		cell := idx[r.Intn(want)]
		cy := cell / (noiseCells * noiseCells)
		rem := cell % (noiseCells * noiseCells)
		row[x] = float32(float64(rem/noiseCells) + r.Float64())
		row[y] = float32(float64(cy) + r.Float64())
		row[z] = float32(float64(rem%noiseCells) + r.Float64())
		out = append(out, row...)
	}
	return out
}

// GenerateNoisePLY writes a synthetic splat PLY of the named schema
// ("ThreeD"/"static" or "SPACETIME"/"spacetime").
func GenerateNoisePLY(kind string, n int, percentage float64, seed int64, outPath string) error {
	schema, err := schemaForKind(kind)
	if err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("point count must be positive, got %d", n)
	}
	r := rand.New(rand.NewSource(seed))
	values := GenerateNoiseCloud(schema, n, percentage, r)
	return WriteAtomic(outPath, func(f *os.File) error {
		return ply.Write(f, schema.CanonicalProperties(), values,
			fmt.Sprintf("synthetic %s cloud, seed %d, fill %.1f%%", schema.Name, seed, percentage))
	})
}

func schemaForKind(kind string) (*splat.Schema, error) {
	switch strings.ToLower(kind) {
	case "", "static", "3d":
		kind = "ThreeD"
	case "4d":
		kind = "SPACETIME"
	}
	return splat.SchemaByName(kind)
}

// GenerateNoiseSet writes amount synthetic PLY files 0.ply..(amount-1).ply
// into outDir, each seeded from seed.
func GenerateNoiseSet(kind string, n, amount int, percentage float64, seed int64, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	const weyl = uint64(0x9e3779b97f4a7c15)
	for i := 0; i < amount; i++ {
		s := int64((uint64(seed) ^ (uint64(i)+1)*weyl) & 0x7fffffffffffffff)
		path := filepath.Join(outDir, fmt.Sprintf("%d.ply", i))
		if err := GenerateNoisePLY(kind, n, percentage, s, path); err != nil {
			return fmt.Errorf("generate %s: %w", path, err)
		}
	}
	return nil
}
