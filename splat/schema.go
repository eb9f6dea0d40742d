package splat

import (
	"fmt"
	"slices"
	"strings"
)

// Kind tags the attribute layout of a point cloud.
type Kind uint8

const (
	GaussianStatic Kind = iota + 1
	GaussianSpacetime
)

// Schema maps the float properties of one input to row columns.
// A Schema is built once by Identify and never modified.
type Schema struct {
	Kind  Kind
	Name  string // name written into SPB headers
	Total int    // floats per row

	columns map[string]int
}

// Column returns the column index of a property, or -1 when absent.
func (s *Schema) Column(name string) int {
	if c, ok := s.columns[name]; ok {
		return c
	}
	return -1
}

func (s *Schema) col(name string) int { return s.columns[name] }

// HasTime reports whether rows carry time-dependent fields.
func (s *Schema) HasTime() bool { return s.Kind == GaussianSpacetime }

func (s *Schema) String() string { return s.Name }

type layoutSpec struct {
	kind     Kind
	name     string
	known    []string
	required []string
}

func seq(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var (
	normals = []string{"nx", "ny", "nz"}

	staticLayout = layoutSpec{
		kind: GaussianStatic,
		name: "ThreeD",
		known: concat(
			[]string{"x", "y", "z"}, normals,
			seq("f_dc_", 3), seq("f_rest_", 45),
			[]string{"opacity"}, seq("scale_", 3), seq("rot_", 4),
		),
	}
	spacetimeLayout = layoutSpec{
		kind: GaussianSpacetime,
		name: "SPACETIME",
		known: concat(
			[]string{"x", "y", "z", "trbf_center", "trbf_scale"}, normals,
			seq("motion_", 9), seq("f_dc_", 3),
			[]string{"opacity"}, seq("scale_", 3), seq("rot_", 4), seq("omega_", 4),
		),
	}

	// layouts are tried in this order; the required f_rest_* and
	// trbf_center fields make them mutually exclusive.
	layouts = []layoutSpec{staticLayout, spacetimeLayout}
)

// Every known field except the normals is required.
func init() {
	for i := range layouts {
		for _, k := range layouts[i].known {
			if !slices.Contains(normals, k) {
				layouts[i].required = append(layouts[i].required, k)
			}
		}
	}
}

func (l layoutSpec) match(names []string) (*Schema, bool) {
	known := make(map[string]bool, len(l.known))
	for _, k := range l.known {
		known[k] = true
	}
	columns := make(map[string]int, len(names))
	for i, n := range names {
		if !known[n] {
			return nil, false
		}
		if _, dup := columns[n]; dup {
			return nil, false
		}
		columns[n] = i
	}
	for _, r := range l.required {
		if _, ok := columns[r]; !ok {
			return nil, false
		}
	}
	return &Schema{Kind: l.kind, Name: l.name, Total: len(names), columns: columns}, true
}

// Identify returns the schema described by the ordered float property
// names of a vertex element. Columns follow declaration order.
func Identify(names []string) (*Schema, error) {
	for _, l := range layouts {
		if s, ok := l.match(names); ok {
			return s, nil
		}
	}
	return nil, newError(CodeUnknownPointFormat, "identify", ErrUnknownPointFormat,
		"%d properties [%s]", len(names), abbreviate(names, 8))
}

// SchemaByName returns the layout with the given SPB name using the
// canonical column order. It is used when reading SPB files back and by
// the synthetic generator.
func SchemaByName(name string) (*Schema, error) {
	for _, l := range layouts {
		if strings.EqualFold(l.name, name) {
			s, _ := l.match(l.known)
			return s, nil
		}
	}
	return nil, newError(CodeUnknownPointFormat, "schema", ErrUnknownPointFormat, "%q", name)
}

// CanonicalProperties lists the property names of a schema in column order.
func (s *Schema) CanonicalProperties() []string {
	out := make([]string, s.Total)
	for n, c := range s.columns {
		out[c] = n
	}
	return out
}

func abbreviate(names []string, n int) string {
	if len(names) <= n {
		return strings.Join(names, " ")
	}
	return strings.Join(names[:n], " ") + " ..."
}
