package scanlog

import "errors"

// Failure kinds. Stores wrap the underlying cause so callers can match the
// kind with errors.Is and still show the full chain.
var (
	ErrEmptyCode          = errors.New("scanned code is empty")
	ErrNothingToExport    = errors.New("no entries to export")
	ErrPermissionDenied   = errors.New("permission to access file was denied")
	ErrFileUnavailable    = errors.New("file is not available")
	ErrWriteFailed        = errors.New("failed to write to file")
	ErrStorageUnavailable = errors.New("storage is unavailable")
)

// Describe returns the user-facing message for a failure.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCode):
		return "Nothing was scanned."
	case errors.Is(err, ErrNothingToExport):
		return "No entries to save."
	case errors.Is(err, ErrPermissionDenied):
		return "Permission to access the log file was denied."
	case errors.Is(err, ErrFileUnavailable):
		return "The selected log file could not be opened."
	case errors.Is(err, ErrWriteFailed):
		return "Failed to write to file. See the log for details."
	case errors.Is(err, ErrStorageUnavailable):
		return "The local log storage is unavailable. See the log for details."
	default:
		return "Unexpected error. See the log for details."
	}
}
