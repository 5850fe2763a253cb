package subtitle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatSRT renders cues as SubRip text. Each cue is followed by a blank line.
func FormatSRT(cues []Cue) string {
	var sb strings.Builder
	for _, c := range cues {
		fmt.Fprintf(&sb, "%d\n", c.Index)
		fmt.Fprintf(&sb, "%s --> %s\n", formatSRTTimestamp(c.Start), formatSRTTimestamp(c.End))
		for _, line := range c.Lines {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// formatSRTTimestamp formats a duration as HH:MM:SS,mmm. Hours are not
// wrapped at 24.
func formatSRTTimestamp(d time.Duration) string {
	h, m, s, ms := splitTimestamp(d)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func splitTimestamp(d time.Duration) (h, m, s, ms int64) {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Millisecond)
	ms = total % 1000
	total /= 1000
	s = total % 60
	total /= 60
	m = total % 60
	h = total / 60
	return h, m, s, ms
}

// ParseSRT reads SubRip text back into cues, renumbering them from 1.
// Text lines are kept as they are; speaker labels are not recovered.
func ParseSRT(text string) ([]Cue, error) {
	blocks := splitSRTBlocks(text)
	cues := make([]Cue, 0, len(blocks))
	for n, blk := range blocks {
		cue, err := parseSRTBlock(blk)
		if err != nil {
			return nil, fmt.Errorf("%w: block %d: %v", ErrMalformedSRT, n+1, err)
		}
		cue.Index = len(cues) + 1
		cues = append(cues, cue)
	}
	return cues, nil
}

func splitSRTBlocks(text string) [][]string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		blocks [][]string
		cur    []string
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				blocks = append(blocks, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}

func parseSRTBlock(lines []string) (Cue, error) {
	// The index line is optional in files seen in the wild.
	if !strings.Contains(lines[0], "-->") {
		if _, err := strconv.Atoi(strings.TrimSpace(lines[0])); err != nil {
			return Cue{}, fmt.Errorf("invalid index %q", lines[0])
		}
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return Cue{}, fmt.Errorf("missing timing line")
	}

	start, end, err := parseSRTTimingLine(lines[0])
	if err != nil {
		return Cue{}, err
	}

	return Cue{
		Start: start,
		End:   end,
		Lines: append([]string(nil), lines[1:]...),
	}, nil
}

func parseSRTTimingLine(line string) (time.Duration, time.Duration, error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := parseSRTTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("start time: %w", err)
	}
	// Position settings may follow the end time.
	endField := strings.Fields(parts[1])
	if len(endField) == 0 {
		return 0, 0, fmt.Errorf("missing end time")
	}
	end, err := parseSRTTimestamp(endField[0])
	if err != nil {
		return 0, 0, fmt.Errorf("end time: %w", err)
	}
	return start, end, nil
}

func parseSRTTimestamp(s string) (time.Duration, error) {
	hms, msPart, ok := strings.Cut(s, ",")
	if !ok {
		hms, msPart, ok = strings.Cut(s, ".")
	}
	if !ok {
		return 0, fmt.Errorf("missing milliseconds in %q", s)
	}

	fields := strings.Split(hms, ":")
	if len(fields) != 3 {
		return 0, fmt.Errorf("invalid h:m:s in %q", s)
	}

	var vals [4]int
	for i, f := range append(fields, msPart) {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid number %q in %q", f, s)
		}
		vals[i] = v
	}
	if vals[1] > 59 || vals[2] > 59 || vals[3] > 999 {
		return 0, fmt.Errorf("out of range field in %q", s)
	}

	return time.Duration(vals[0])*time.Hour +
		time.Duration(vals[1])*time.Minute +
		time.Duration(vals[2])*time.Second +
		time.Duration(vals[3])*time.Millisecond, nil
}
