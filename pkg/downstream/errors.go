package downstream

import "fmt"

// BuildError means the outbound request could not be constructed.
type BuildError struct {
	// Path is the path and query the caller asked for.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to build request for %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// TransportError means the call could not be completed: dial, write or
// reading the response body failed.
type TransportError struct {
	// URL is the full request URL.
	URL string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}
