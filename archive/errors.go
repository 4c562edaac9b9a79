package archive

import "errors"

var (
	// ErrUnsupportedFileType indicates the file extension maps to no known
	// archive format.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrMessageNotFound indicates no message in the archive has the
	// requested identifier.
	ErrMessageNotFound = errors.New("message not found")
)
