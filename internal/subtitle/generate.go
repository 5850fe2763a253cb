package subtitle

import (
	"fmt"
	"strings"
	"time"
)

// Format is a supported subtitle output format.
type Format string

const (
	SRT Format = "srt"
	VTT Format = "vtt"
)

// ParseFormat maps a user supplied name to a Format. The empty string means SRT.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", SRT:
		return SRT, nil
	case VTT:
		return VTT, nil
	default:
		return "", fmt.Errorf("unsupported subtitle format: %q", name)
	}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	if f == VTT {
		return ".vtt"
	}
	return ".srt"
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == VTT {
		return "text/vtt; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Render formats cues in the requested format.
func Render(cues []Cue, format Format) (string, error) {
	switch format {
	case SRT, "":
		return FormatSRT(cues), nil
	case VTT:
		return FormatVTT(cues), nil
	default:
		return "", fmt.Errorf("unsupported subtitle format: %q", format)
	}
}

// Result is a rendered conversion.
type Result struct {
	Content  string
	Format   Format
	Cues     int
	Duration time.Duration
}

// BuildCues runs segmentation, wrapping and timestamp allocation over the
// paragraphs of a document.
func BuildCues(paragraphs []string, opts Options) ([]Cue, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(paragraphs) == 0 {
		return nil, &EmptyInputError{Reason: "document has no paragraphs"}
	}

	cues := Layout(Segment(paragraphs, opts), opts)
	if len(cues) == 0 {
		return nil, &EmptyInputError{Reason: "document has no text"}
	}

	Allocate(cues, opts)
	if err := Verify(cues); err != nil {
		return nil, fmt.Errorf("verify timeline: %w", err)
	}
	return cues, nil
}

// Generate converts document paragraphs into subtitles of the given format.
func Generate(paragraphs []string, format Format, opts Options) (*Result, error) {
	cues, err := BuildCues(paragraphs, opts)
	if err != nil {
		return nil, err
	}
	return NewResult(cues, format)
}

// NewResult renders cues and records their count and total duration.
func NewResult(cues []Cue, format Format) (*Result, error) {
	content, err := Render(cues, format)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = SRT
	}
	return &Result{
		Content:  content,
		Format:   format,
		Cues:     len(cues),
		Duration: TotalDuration(cues),
	}, nil
}

// GenerateSRT converts document paragraphs into SRT text.
func GenerateSRT(paragraphs []string, opts Options) (string, error) {
	res, err := Generate(paragraphs, SRT, opts)
	if err != nil {
		return "", err
	}
	return res.Content, nil
}
