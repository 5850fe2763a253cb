package subtitle

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOptions = errors.New("invalid subtitle options")
	ErrMalformedSRT   = errors.New("malformed srt")
)

// EmptyInputError is returned when there is nothing to turn into cues.
type EmptyInputError struct {
	Reason string
}

func (e *EmptyInputError) Error() string {
	if e.Reason == "" {
		return "empty input"
	}
	return "empty input: " + e.Reason
}

// TimelineError signals cues that are out of order, overlapping or
// zero-length. It always points at a bug in the allocator, never at the input.
type TimelineError struct {
	Index  int
	Reason string
}

func (e *TimelineError) Error() string {
	return fmt.Sprintf("invalid timeline at cue %d: %s", e.Index, e.Reason)
}
