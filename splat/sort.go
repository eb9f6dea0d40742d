package splat

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// SortOrder selects the space-filling curve used to order points.
type SortOrder int

const (
	Morton SortOrder = iota
	Hilbert
)

func (o SortOrder) String() string {
	if o == Hilbert {
		return "Hilbert"
	}
	return "Morton"
}

// ParseSortOrder accepts "Morton" or "Hilbert", case-insensitively.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(s) {
	case "", "morton":
		return Morton, nil
	case "hilbert":
		return Hilbert, nil
	}
	return Morton, fmt.Errorf("unknown reorder mode %q", s)
}

const (
	bits3D = 21
	bits4D = 16
)

// SortOptions configures SpatialOrder.
type SortOptions struct {
	Order SortOrder
	// UseTime adds the time axis as a fourth dimension.
	UseTime bool
	// TimeWeight scales the time axis before normalization; 0 means 1.
	TimeWeight float32
	Logger     *slog.Logger
}

// SortResult is the permutation produced by SpatialOrder.
type SortResult struct {
	// Perm[i] is the source index of the i-th point in curve order.
	Perm []int
	// Degenerate is set when all points coincide and Perm is the identity.
	Degenerate bool
}

// SpatialOrder sorts points along a Morton or Hilbert curve. pos holds three
// floats per point; t holds one time value per point and is only read when
// UseTime is set. Coordinates are normalized with one scale shared by all
// axes and quantized to 21 bits (3D) or 16 bits (4D) per axis. Equal keys
// keep their input order.
func SpatialOrder(pos, t []float32, opts SortOptions) SortResult {
	n := len(pos) / 3
	dims := 3
	if opts.UseTime && t != nil {
		dims = 4
	}
	weight := opts.TimeWeight
	if weight == 0 {
		weight = 1
	}
	coord := func(i, d int) float64 {
		if d == 3 {
			return float64(t[i] * weight)
		}
		return float64(pos[3*i+d])
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	if n == 0 {
		return SortResult{Perm: perm}
	}

	var lo, hi [4]float64
	for d := 0; d < dims; d++ {
		lo[d], hi[d] = coord(0, d), coord(0, d)
	}
	for i := 1; i < n; i++ {
		for d := 0; d < dims; d++ {
			v := coord(i, d)
			lo[d] = min(lo[d], v)
			hi[d] = max(hi[d], v)
		}
	}
	var scale float64
	for d := 0; d < dims; d++ {
		scale = max(scale, hi[d]-lo[d])
	}
	if scale == 0 {
		log := opts.Logger
		if log == nil {
			log = slog.Default()
		}
		log.Debug("identity order", "reason", ErrDegenerateGeometry, "points", n)
		return SortResult{Perm: perm, Degenerate: true}
	}

	bits := uint(bits3D)
	if dims == 4 {
		bits = bits4D
	}
	top := float64(uint32(1)<<bits - 1)
	keys := make([]uint64, n)
	var c [4]uint32
	for i := range keys {
		for d := 0; d < dims; d++ {
			// truncates toward zero
			c[d] = uint32((coord(i, d) - lo[d]) / scale * top)
		}
		keys[i] = curveKey(opts.Order, c[:dims], bits)
	}
	slices.SortStableFunc(perm, func(a, b int) int {
		switch {
		case keys[a] < keys[b]:
			return -1
		case keys[a] > keys[b]:
			return 1
		}
		return 0
	})
	return SortResult{Perm: perm}
}

func curveKey(order SortOrder, c []uint32, bits uint) uint64 {
	if order == Hilbert {
		return HilbertDistance(c, bits)
	}
	if len(c) == 4 {
		return Morton4D(c[0], c[1], c[2], c[3])
	}
	return Morton3D(c[0], c[1], c[2])
}
