package subtitle

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Utterance is one speaker's contiguous text taken from a paragraph.
type Utterance struct {
	Speaker string
	Text    string
}

// Label returns the utterance as displayed, with the speaker prefix when present.
func (u Utterance) Label() string {
	if u.Speaker == "" {
		return u.Text
	}
	if u.Text == "" {
		return u.Speaker + ":"
	}
	return u.Speaker + ": " + u.Text
}

// Segment turns document paragraphs into utterances. Empty paragraphs are
// dropped and "Name: text" paragraphs are split into speaker and text.
// A paragraph holding only "Name:" takes the next paragraph as its text
// unless that paragraph names a speaker of its own.
func Segment(paragraphs []string, opts Options) []Utterance {
	out := make([]Utterance, 0, len(paragraphs))

	for i := 0; i < len(paragraphs); i++ {
		para := strings.TrimSpace(paragraphs[i])
		if para == "" {
			continue
		}

		speaker, text, ok := splitSpeaker(para, opts.MaxSpeakerLength)
		if !ok {
			out = append(out, Utterance{Text: para})
			continue
		}

		if text == "" {
			if next, j := nextParagraph(paragraphs, i+1); j >= 0 {
				if _, _, named := splitSpeaker(next, opts.MaxSpeakerLength); !named {
					text = next
					i = j
				}
			}
		}

		out = append(out, Utterance{Speaker: speaker, Text: text})
	}

	return out
}

func nextParagraph(paragraphs []string, from int) (string, int) {
	for j := from; j < len(paragraphs); j++ {
		if p := strings.TrimSpace(paragraphs[j]); p != "" {
			return p, j
		}
	}
	return "", -1
}

// splitSpeaker splits "Label: text" at the first colon.
func splitSpeaker(para string, maxLen int) (speaker, text string, ok bool) {
	idx := strings.IndexByte(para, ':')
	if idx <= 0 {
		return "", "", false
	}

	label := strings.TrimSpace(para[:idx])
	if !isSpeakerLabel(label, maxLen) {
		return "", "", false
	}

	return label, strings.TrimSpace(para[idx+1:]), true
}

func isSpeakerLabel(label string, maxLen int) bool {
	n := utf8.RuneCountInString(label)
	if n == 0 || n > maxLen {
		return false
	}

	hasLetter := false
	for _, r := range label {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r), unicode.IsMark(r), unicode.IsSpace(r):
		case r == '-', r == '_', r == '\'', r == '.':
		default:
			return false
		}
	}
	return hasLetter
}
