package splat

// SPBHeader is the ASCII preamble of an SPB file. Buffers are listed in
// blob order.
type SPBHeader struct {
	Schema     string
	Level      Level
	PointCount int
	Padded     bool
	Buffers    []SPBBuffer
}

// SPBBuffer declares one region of the blob.
type SPBBuffer struct {
	Name string
	Size int
}

const (
	spbMagic     = "SPB"
	spbBuffer    = "Buffer"
	spbEndHeader = "end_header"
)
