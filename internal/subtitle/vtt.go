package subtitle

import (
	"fmt"
	"strings"
	"time"
)

// FormatVTT renders cues as WebVTT.
func FormatVTT(cues []Cue) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for _, c := range cues {
		fmt.Fprintf(&sb, "%d\n", c.Index)
		fmt.Fprintf(&sb, "%s --> %s\n", formatVTTTimestamp(c.Start), formatVTTTimestamp(c.End))
		for _, line := range c.Lines {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatVTTTimestamp(d time.Duration) string {
	h, m, s, ms := splitTimestamp(d)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
