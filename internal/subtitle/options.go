package subtitle

import (
	"fmt"
	"time"
)

// Options controls how transcripts are laid out into cues.
type Options struct {
	MaxLineWidth     int
	MaxLinesPerCue   int
	MaxSpeakerLength int

	MinCueDuration time.Duration
	MaxCueDuration time.Duration
	InterCueGap    time.Duration

	// ReadingSpeed is measured in characters per second.
	ReadingSpeed float64
}

// DefaultOptions returns the subtitle conventions used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxLineWidth:     42,
		MaxLinesPerCue:   2,
		MaxSpeakerLength: 32,
		MinCueDuration:   time.Second,
		MaxCueDuration:   7 * time.Second,
		InterCueGap:      100 * time.Millisecond,
		ReadingSpeed:     15,
	}
}

// Validate reports whether the options can produce a valid timeline.
func (o Options) Validate() error {
	if o.MaxLineWidth < 1 {
		return fmt.Errorf("%w: max line width must be positive, got %d", ErrInvalidOptions, o.MaxLineWidth)
	}
	if o.MaxLinesPerCue < 1 {
		return fmt.Errorf("%w: max lines per cue must be positive, got %d", ErrInvalidOptions, o.MaxLinesPerCue)
	}
	if o.MaxSpeakerLength < 1 {
		return fmt.Errorf("%w: max speaker length must be positive, got %d", ErrInvalidOptions, o.MaxSpeakerLength)
	}
	if o.ReadingSpeed <= 0 {
		return fmt.Errorf("%w: reading speed must be positive, got %v", ErrInvalidOptions, o.ReadingSpeed)
	}
	if o.MinCueDuration < time.Millisecond {
		return fmt.Errorf("%w: min cue duration must be at least 1ms, got %s", ErrInvalidOptions, o.MinCueDuration)
	}
	if o.MaxCueDuration < o.MinCueDuration {
		return fmt.Errorf("%w: max cue duration %s is below min cue duration %s", ErrInvalidOptions, o.MaxCueDuration, o.MinCueDuration)
	}
	if o.InterCueGap < 0 {
		return fmt.Errorf("%w: inter-cue gap must not be negative, got %s", ErrInvalidOptions, o.InterCueGap)
	}
	return nil
}
