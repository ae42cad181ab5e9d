package pipeline

import (
	"fmt"
	"strings"
)

// MissingColumnError is returned by every stage at entry when the input
// table lacks columns the stage depends on. Stages never proceed with
// partial data; downstream ranks and ratios are meaningless over it.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("the following columns are missing in the table: %s", strings.Join(e.Columns, ", "))
}

// DirectoryReason classifies why a directory check failed
type DirectoryReason string

const (
	DirNotFound    DirectoryReason = "not_found"
	DirNotADir     DirectoryReason = "not_a_directory"
	DirEmptySource DirectoryReason = "empty_source"
)

// DirectoryError is returned before any processing begins when a source
// directory is missing, not a directory, or has no files to read.
type DirectoryError struct {
	Path   string
	Reason DirectoryReason
}

func (e *DirectoryError) Error() string {
	switch e.Reason {
	case DirNotFound:
		return fmt.Sprintf("source directory does not exist: %s", e.Path)
	case DirNotADir:
		return fmt.Sprintf("path is not a directory: %s", e.Path)
	case DirEmptySource:
		return fmt.Sprintf("source directory is empty: %s", e.Path)
	default:
		return fmt.Sprintf("directory error at %s", e.Path)
	}
}

// DegenerateModelError is returned by the feature selector when the
// elastic net shrinks every candidate coefficient to zero. This is a
// terminal condition requiring hyperparameter review, never masked
// with a fallback feature set.
type DegenerateModelError struct {
	Alpha   float64
	L1Ratio float64
}

func (e *DegenerateModelError) Error() string {
	return fmt.Sprintf("elastic net removed all predictors (alpha=%g, l1_ratio=%g)", e.Alpha, e.L1Ratio)
}
