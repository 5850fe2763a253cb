package subtitle

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestFormatSRTTimestamp(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00,000"},
		{1100 * time.Millisecond, "00:00:01,100"},
		{time.Hour + 2*time.Minute + 3*time.Second + 456*time.Millisecond, "01:02:03,456"},
		{25 * time.Hour, "25:00:00,000"},
		{-time.Second, "00:00:00,000"},
	}

	for _, tt := range tests {
		if got := formatSRTTimestamp(tt.d); got != tt.want {
			t.Errorf("formatSRTTimestamp(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatSRT(t *testing.T) {
	cues := []Cue{
		{Index: 1, Start: 0, End: time.Second, Lines: []string{"Maria: Hello,", "how are you?"}},
		{Index: 2, Start: 1100 * time.Millisecond, End: 2500 * time.Millisecond, Lines: []string{"Fine."}},
	}

	want := "1\n00:00:00,000 --> 00:00:01,000\nMaria: Hello,\nhow are you?\n\n" +
		"2\n00:00:01,100 --> 00:00:02,500\nFine.\n\n"

	if got := FormatSRT(cues); got != want {
		t.Errorf("FormatSRT() = %q, want %q", got, want)
	}
}

func TestFormatVTT(t *testing.T) {
	cues := []Cue{{Index: 1, Start: 0, End: 1500 * time.Millisecond, Lines: []string{"Hi"}}}

	want := "WEBVTT\n\n1\n00:00:00.000 --> 00:00:01.500\nHi\n\n"
	if got := FormatVTT(cues); got != want {
		t.Errorf("FormatVTT() = %q, want %q", got, want)
	}
}

func TestParseSRT(t *testing.T) {
	input := "\ufeff1\r\n00:00:00,000 --> 00:00:01,000\r\nFirst line\r\nSecond line\r\n\r\n" +
		"00:00:01,100 --> 00:00:02,500 X1:40 X2:600\r\nNo index\r\n\r\n\r\n" +
		"7\r\n00:00:03,000 --> 00:00:04,000\r\nRenumbered\r\n"

	cues, err := ParseSRT(input)
	if err != nil {
		t.Fatalf("ParseSRT() error = %v", err)
	}

	want := []Cue{
		{Index: 1, Start: 0, End: time.Second, Lines: []string{"First line", "Second line"}},
		{Index: 2, Start: 1100 * time.Millisecond, End: 2500 * time.Millisecond, Lines: []string{"No index"}},
		{Index: 3, Start: 3 * time.Second, End: 4 * time.Second, Lines: []string{"Renumbered"}},
	}
	if !reflect.DeepEqual(cues, want) {
		t.Errorf("ParseSRT() = %+v, want %+v", cues, want)
	}
}

func TestParseSRTMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad index", "one\n00:00:00,000 --> 00:00:01,000\nx\n"},
		{"missing arrow", "1\n00:00:00,000 00:00:01,000\nx\n"},
		{"missing millis", "1\n00:00:00 --> 00:00:01,000\nx\n"},
		{"minutes out of range", "1\n00:61:00,000 --> 00:62:00,000\nx\n"},
		{"index only", "1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSRT(tt.input)
			if !errors.Is(err, ErrMalformedSRT) {
				t.Errorf("ParseSRT() error = %v, want ErrMalformedSRT", err)
			}
		})
	}
}

func TestSRTRoundTrip(t *testing.T) {
	paragraphs := []string{
		"Judge: The court is now in session. Please be seated and silence all phones.",
		"Maria: Thank you, your honour.",
		"",
		"A long paragraph without a speaker that keeps going well beyond the limit of two subtitle lines so that it has to be split into several consecutive cues.",
	}

	cues, err := BuildCues(paragraphs, DefaultOptions())
	if err != nil {
		t.Fatalf("BuildCues() error = %v", err)
	}

	parsed, err := ParseSRT(FormatSRT(cues))
	if err != nil {
		t.Fatalf("ParseSRT() error = %v", err)
	}

	if len(parsed) != len(cues) {
		t.Fatalf("parsed %d cues, want %d", len(parsed), len(cues))
	}
	if got, want := TotalDuration(parsed), TotalDuration(cues); got != want {
		t.Errorf("TotalDuration = %s, want %s", got, want)
	}
	for i := range cues {
		if parsed[i].Start != cues[i].Start || parsed[i].End != cues[i].End {
			t.Errorf("cue %d timing = [%s, %s], want [%s, %s]", i+1, parsed[i].Start, parsed[i].End, cues[i].Start, cues[i].End)
		}
		if strings.Join(parsed[i].Lines, "\n") != strings.Join(cues[i].Lines, "\n") {
			t.Errorf("cue %d lines = %q, want %q", i+1, parsed[i].Lines, cues[i].Lines)
		}
	}
}
