package store

// Store defines the interface for fit-result persistence.
//
// Error handling conventions:
//   - Return nil error on success
//   - Return ErrNotFound if the result doesn't exist (for Load/Delete)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveResult atomically saves the result for its job ID, overwriting
	// any existing result. Implementations should use an atomic write
	// strategy (temp file + rename) so a crash never leaves a torn file.
	SaveResult(result *FitResult) error

	// LoadResult retrieves the result for the given job.
	// Returns ErrNotFound if no result exists for this jobID.
	LoadResult(jobID string) (*FitResult, error)

	// ListResults returns metadata for all stored results. The returned
	// slice may be empty.
	ListResults() ([]ResultInfo, error)

	// DeleteResult removes the result and all associated artifacts
	// (result.json, trace.jsonl) for the given job.
	// Returns ErrNotFound if no result exists for this jobID.
	DeleteResult(jobID string) error
}

// ErrNotFound is returned when a requested fit result does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing fit result.
type NotFoundError struct {
	JobID string
}

func (e *NotFoundError) Error() string {
	if e.JobID != "" {
		return "fit result not found: " + e.JobID
	}
	return "fit result not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
