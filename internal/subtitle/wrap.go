package subtitle

import (
	"strings"
	"unicode/utf8"
)

// Wrap greedily fills lines of at most width runes. Words longer than the
// width are broken into width-sized pieces.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var (
		lines  []string
		cur    strings.Builder
		curLen int
	)

	flush := func() {
		if curLen > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)

		if wordLen > width {
			flush()
			pieces := splitRunes(word, width)
			lines = append(lines, pieces[:len(pieces)-1]...)
			last := pieces[len(pieces)-1]
			cur.WriteString(last)
			curLen = utf8.RuneCountInString(last)
			continue
		}

		switch {
		case curLen == 0:
			cur.WriteString(word)
			curLen = wordLen
		case curLen+1+wordLen <= width:
			cur.WriteByte(' ')
			cur.WriteString(word)
			curLen += 1 + wordLen
		default:
			flush()
			cur.WriteString(word)
			curLen = wordLen
		}
	}
	flush()

	return lines
}

// splitRunes cuts s every size runes at byte offsets, so invalid UTF-8
// bytes pass through unchanged.
func splitRunes(s string, size int) []string {
	out := make([]string, 0, utf8.RuneCountInString(s)/size+1)
	start, n := 0, 0
	for i := 0; i < len(s); {
		if n == size {
			out = append(out, s[start:i])
			start, n = i, 0
		}
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
		n++
	}
	return append(out, s[start:])
}

// Layout wraps each utterance and groups its lines into cues of at most
// MaxLinesPerCue lines. Cues come back numbered but without timing.
func Layout(utterances []Utterance, opts Options) []Cue {
	cues := make([]Cue, 0, len(utterances))
	for _, u := range utterances {
		for _, chunk := range chunkLines(Wrap(u.Label(), opts.MaxLineWidth), opts.MaxLinesPerCue) {
			cues = append(cues, Cue{
				Index:   len(cues) + 1,
				Lines:   chunk,
				Speaker: u.Speaker,
			})
		}
	}
	return cues
}

func chunkLines(lines []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	chunks := make([][]string, 0, (len(lines)+size-1)/size)
	for start := 0; start < len(lines); start += size {
		end := min(start+size, len(lines))
		chunks = append(chunks, lines[start:end])
	}
	return chunks
}
