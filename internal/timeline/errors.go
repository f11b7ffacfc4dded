package timeline

import "fmt"

// InvalidTimelineError reports a structural problem with the edit: a
// transition count mismatch, a non-positive effective duration, or a
// transition longer than an adjacent clip. It is always detected before any
// graph is built and is never retried.
type InvalidTimelineError struct {
	Reason string
}

func (e *InvalidTimelineError) Error() string {
	return "invalid timeline: " + e.Reason
}

// NewInvalidTimeline formats a new InvalidTimelineError.
func NewInvalidTimeline(format string, args ...any) *InvalidTimelineError {
	return &InvalidTimelineError{Reason: fmt.Sprintf(format, args...)}
}

// MissingAssetError reports a referenced media file that does not exist at
// plan time.
type MissingAssetError struct {
	Kind string
	Path string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("missing %s asset: %s", e.Kind, e.Path)
}
