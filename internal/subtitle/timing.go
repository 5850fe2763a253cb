package subtitle

import (
	"fmt"
	"time"
)

// ReadingDuration estimates how long a text of n characters needs on screen.
func ReadingDuration(n int, opts Options) time.Duration {
	secs := float64(n) / opts.ReadingSpeed
	if secs >= opts.MaxCueDuration.Seconds() {
		return opts.MaxCueDuration
	}
	d := time.Duration(secs * float64(time.Second)).Round(time.Millisecond)
	if d < opts.MinCueDuration {
		d = opts.MinCueDuration
	}
	if d > opts.MaxCueDuration {
		d = opts.MaxCueDuration
	}
	return d
}

// Allocate assigns back-to-back timestamps to cues, starting at zero and
// separated by the inter-cue gap.
func Allocate(cues []Cue, opts Options) {
	var next time.Duration
	for i := range cues {
		cues[i].Start = next
		cues[i].End = next + ReadingDuration(cues[i].runeCount(), opts)
		next = cues[i].End + opts.InterCueGap
	}
}

// TimedSegment is a piece of text whose timing is already known, such as a
// speech recognition result.
type TimedSegment struct {
	Start   time.Duration
	End     time.Duration
	Speaker string
	Text    string
}

// FromTimedSegments lays out timed segments like utterances and spreads each
// segment's window over its cues in proportion to their length. Overlapping
// or empty windows are pushed forward so the timeline stays monotonic.
func FromTimedSegments(segs []TimedSegment, opts Options) ([]Cue, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var (
		cues    []Cue
		prevEnd time.Duration
	)

	for _, seg := range segs {
		u := Utterance{Speaker: seg.Speaker, Text: seg.Text}
		chunks := Layout([]Utterance{u}, opts)
		if len(chunks) == 0 {
			continue
		}

		start := max(seg.Start.Round(time.Millisecond), prevEnd, 0)
		end := seg.End.Round(time.Millisecond)

		total := 0
		for _, c := range chunks {
			total += c.runeCount()
		}

		if end-start < time.Duration(len(chunks))*time.Millisecond {
			end = start
			for _, c := range chunks {
				end += ReadingDuration(c.runeCount(), opts)
			}
		}

		span := end - start
		cursor := start
		seen := 0
		for i, c := range chunks {
			seen += c.runeCount()
			c.Start = cursor
			if i == len(chunks)-1 {
				c.End = end
			} else {
				c.End = start + (time.Duration(float64(span)*float64(seen)/float64(total))).Round(time.Millisecond)
			}
			if c.End <= c.Start {
				c.End = c.Start + time.Millisecond
			}
			c.Index = len(cues) + 1
			cues = append(cues, c)
			cursor = c.End
		}
		prevEnd = cues[len(cues)-1].End
	}

	if len(cues) == 0 {
		return nil, &EmptyInputError{Reason: "no timed text"}
	}
	if err := Verify(cues); err != nil {
		return nil, fmt.Errorf("verify timeline: %w", err)
	}
	return cues, nil
}

// Verify checks that cues are numbered 1..N, have positive durations and
// never overlap.
func Verify(cues []Cue) error {
	var prevEnd time.Duration
	for i, c := range cues {
		switch {
		case c.Index != i+1:
			return &TimelineError{Index: i + 1, Reason: fmt.Sprintf("index is %d", c.Index)}
		case c.Start < 0:
			return &TimelineError{Index: c.Index, Reason: "negative start"}
		case c.End <= c.Start:
			return &TimelineError{Index: c.Index, Reason: fmt.Sprintf("end %s not after start %s", c.End, c.Start)}
		case c.Start < prevEnd:
			return &TimelineError{Index: c.Index, Reason: fmt.Sprintf("start %s overlaps previous end %s", c.Start, prevEnd)}
		}
		prevEnd = c.End
	}
	return nil
}
