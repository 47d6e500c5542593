package molframe

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/frame"
)

var (
	// ErrInvalidArgument is returned when an option value is out of range or
	// unrecognised. It is reported before any row is processed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNullStructure is returned when a featurization step meets a row
	// without a parsed structure.
	ErrNullStructure = errors.New("null structure")

	// ErrCapability is returned when the configured toolkit cannot provide an
	// operation the transforms rely on.
	ErrCapability = errors.New("missing capability")

	// ErrColumnNotFound is returned when a named column does not exist.
	ErrColumnNotFound = frame.ErrColumnNotFound

	// ErrColumnType is returned when a column does not hold the expected type.
	ErrColumnType = frame.ErrColumnType
)

// RowError reports a failure while featurizing a single row.
//
// The original underlying error can be accessed via errors.Unwrap.
type RowError struct {
	Op    string
	Row   int
	cause error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: row %d: %v", e.Op, e.Row, e.cause)
}

func (e *RowError) Unwrap() error { return e.cause }

func invalidArgument(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
