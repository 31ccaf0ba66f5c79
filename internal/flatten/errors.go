package flatten

import "errors"

var (
	// ErrInvalidRoot reports a root that does not exist or is not a directory.
	// It is returned before any output is written.
	ErrInvalidRoot = errors.New("invalid root directory")
	// ErrWriteOutput reports a document that could not be written. Documents
	// written earlier in the same run are left in place.
	ErrWriteOutput = errors.New("write output document")
)
