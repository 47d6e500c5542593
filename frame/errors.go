package frame

import "github.com/cockroachdb/errors"

var (
	// ErrColumnNotFound is returned when a named column does not exist.
	ErrColumnNotFound = errors.New("column not found")
	// ErrLengthMismatch is returned when a column or index does not have one
	// entry per row.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrDuplicateColumn is returned when a column name is used twice.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrColumnType is returned when a column does not hold the requested type.
	ErrColumnType = errors.New("unexpected column type")
)
