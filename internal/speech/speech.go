// Package speech defines the transcription backends used for audio input.
package speech

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNoBackend is returned when no backend is configured.
var ErrNoBackend = errors.New("no speech backend configured")

// Audio is the normalized recording sent to a backend.
type Audio struct {
	Name       string
	Data       []byte
	MIMEType   string
	SampleRate int
	Channels   int
}

// Options configures a transcription request.
type Options struct {
	LanguageCode string
	Model        string
}

// Segment is one timed piece of recognized speech.
type Segment struct {
	Start      time.Duration
	End        time.Duration
	Text       string
	Speaker    string
	Confidence float64
}

// Transcript is the result of a transcription.
type Transcript struct {
	Segments []Segment
	Language string
	Backend  string
}

// Text joins all segment texts with single spaces.
func (t *Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		if txt := strings.TrimSpace(s.Text); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, " ")
}

type Backend interface {
	Name() string
	Transcribe(ctx context.Context, audio Audio, opts Options) (*Transcript, error)
}
