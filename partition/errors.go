package partition

import "errors"

var (
	// ErrPartition indicates the partitioning service call failed.
	ErrPartition = errors.New("partition request failed")

	// ErrEmptyDocument is returned when no document bytes are provided.
	ErrEmptyDocument = errors.New("document bytes required")
)
