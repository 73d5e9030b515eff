package student

import "errors"

var (
	ErrInvalidStrategy   = errors.New("invalid import strategy")
	ErrDuplicateRecord   = errors.New("duplicate record")
	ErrRecordNotFound    = errors.New("record not found")
	ErrTxDone            = errors.New("transaction already finished")
	ErrImportRunNotFound = errors.New("import run not found")
)
