package report

import "fmt"

// NotFoundError is returned when the configured reports directory does not
// exist or cannot be read. The whole load fails; there is no partial result.
type NotFoundError struct {
	Dir string
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("reports directory %q not found: %v", e.Dir, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// MalformedReportError marks a single report file that could not be parsed
// or is missing required content. The loader skips the file and keeps going.
type MalformedReportError struct {
	File   string
	Reason string
	Err    error
}

func (e *MalformedReportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed report %s: %s: %v", e.File, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed report %s: %s", e.File, e.Reason)
}

func (e *MalformedReportError) Unwrap() error { return e.Err }

// LoadError is one entry of the diagnostics list returned alongside the
// successfully loaded runs.
type LoadError struct {
	File string `json:"file"`
	Err  error  `json:"-"`
}

func (e LoadError) Error() string {
	return e.Err.Error()
}
