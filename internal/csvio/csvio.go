// Package csvio reads and writes the two tabular dialects the engine
// speaks: the native full-fidelity point format, and the partial format
// produced by the instrument (SEM / laser-ablation) software.
//
// The dialects differ in header naming and in coordinate convention:
// instrument x values originate at the top-right of the image and are
// inverted to the native top-left origin at import time. Native files
// are never inverted.
package csvio

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRow is returned for a row whose required numeric
	// fields cannot be parsed. Batch importers skip such rows rather
	// than aborting.
	ErrMalformedRow = errors.New("malformed row")

	// ErrMissingColumn is returned when a file lacks a required header.
	// This is structural: the whole import aborts.
	ErrMissingColumn = errors.New("missing required column")
)

// rowError wraps a per-row failure with its 1-based data row number.
func rowError(row int, err error) error {
	return fmt.Errorf("row %d: %w", row, err)
}
