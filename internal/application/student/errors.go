package student

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCSV     = errors.New("invalid csv")
	ErrEmptyFile      = fmt.Errorf("%w: empty file", ErrInvalidCSV)
	ErrMalformedCSV   = fmt.Errorf("%w: malformed csv", ErrInvalidCSV)
	ErrMissingColumns = fmt.Errorf("%w: missing required columns", ErrInvalidCSV)
	ErrNoDataRows     = fmt.Errorf("%w: no data rows after header", ErrInvalidCSV)

	ErrInternalDuplicates = errors.New("duplicate rows within file")
	ErrSuffixExhausted    = errors.New("no free email suffix")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPreviewLookup      = errors.New("failed to look up existing records")

	ErrInvalidRunID      = errors.New("invalid import run id")
	ErrImportRunNotFound = errors.New("import run not found")
	ErrGetImportRun      = errors.New("failed to get import run")
)
