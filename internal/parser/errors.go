package parser

import (
	"errors"
	"fmt"
)

// MaxBatchSize caps the number of lines accepted by a single batch call.
const MaxBatchSize = 500

var (
	// ErrEmptyInput is returned for whitespace-only input. No partial
	// result is produced.
	ErrEmptyInput = errors.New("input is empty")

	// ErrNoPhoneFound is returned when no trailing digit group matches
	// any phone shape. The parse fails entirely since a phone number is
	// mandatory in a listing.
	ErrNoPhoneFound = errors.New("no valid phone number found")
)

// BatchSizeError rejects an oversized batch before any per-line parsing.
type BatchSizeError struct {
	Got int
	Max int
}

func (e *BatchSizeError) Error() string {
	return fmt.Sprintf("batch of %d inputs exceeds limit of %d", e.Got, e.Max)
}
