package subtitle

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Cue is one subtitle entry.
type Cue struct {
	Index   int
	Start   time.Duration
	End     time.Duration
	Lines   []string
	Speaker string
}

// Duration is the time the cue stays on screen.
func (c Cue) Duration() time.Duration {
	return c.End - c.Start
}

// Text joins the cue lines with single spaces.
func (c Cue) Text() string {
	return strings.Join(c.Lines, " ")
}

func (c Cue) runeCount() int {
	return utf8.RuneCountInString(c.Text())
}

// TotalDuration returns the end of the last cue.
func TotalDuration(cues []Cue) time.Duration {
	if len(cues) == 0 {
		return 0
	}
	return cues[len(cues)-1].End
}
