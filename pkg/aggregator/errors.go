package aggregator

import "fmt"

// BranchError reports the failure of one fan-out branch.
type BranchError struct {
	// Index is the zero-based position of the branch in issue order.
	Index int

	// Target is the path and query the branch fetched.
	Target string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *BranchError) Error() string {
	return fmt.Sprintf("fan-out branch %d (%s) failed: %v", e.Index+1, e.Target, e.Err)
}

// Unwrap returns the underlying error.
func (e *BranchError) Unwrap() error {
	return e.Err
}
