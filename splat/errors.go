package splat

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPointFormat means no schema matched the declared properties.
	ErrUnknownPointFormat = errors.New("unknown point format")
	// ErrMalformedRecordStream means the payload is not a whole number of rows.
	ErrMalformedRecordStream = errors.New("malformed record stream")
	// ErrDegenerateGeometry means every point is coincident. It is never
	// returned by Convert; the sorter falls back to the identity order.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrInvalidQualityLevel means the level is outside {0,1,2}.
	ErrInvalidQualityLevel = errors.New("invalid quality level")
	// ErrCapacityExceeded means the data does not fit a 4096x4096 texture.
	ErrCapacityExceeded = errors.New("point count exceeds texture capacity")
)

// ErrorCode categorizes conversion failures.
type ErrorCode string

const (
	CodeUnknownPointFormat    ErrorCode = "UNKNOWN_POINT_FORMAT"
	CodeMalformedRecordStream ErrorCode = "MALFORMED_RECORD_STREAM"
	CodeDegenerateGeometry    ErrorCode = "DEGENERATE_GEOMETRY"
	CodeInvalidQualityLevel   ErrorCode = "INVALID_QUALITY_LEVEL"
	CodeCapacityExceeded      ErrorCode = "CAPACITY_EXCEEDED"
)

// Error is a conversion failure with the pipeline step that raised it.
type Error struct {
	Code ErrorCode
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code ErrorCode, op string, sentinel error, format string, args ...any) error {
	return &Error{Code: code, Op: op, Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
}
