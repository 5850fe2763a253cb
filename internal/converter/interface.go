package converter

import (
	"context"

	"github.com/nguyentantai21042004/subflow/internal/speech"
	"github.com/nguyentantai21042004/subflow/internal/subtitle"
)

// Converter turns transcripts and recordings into subtitles.
type Converter interface {
	// ConvertDocument builds subtitles from the bytes of a .docx transcript.
	ConvertDocument(ctx context.Context, data []byte, req Request) (*subtitle.Result, error)
	// TranscribeAudio recognizes speech in the file at path and builds
	// subtitles from the timed result.
	TranscribeAudio(ctx context.Context, path string, req Request) (*subtitle.Result, error)
	// ExportTranscript turns SRT text back into a plain .docx transcript.
	ExportTranscript(ctx context.Context, srt []byte, title string) ([]byte, error)
	// Process converts a file dropped into the input folder and archives it.
	Process(ctx context.Context, path string) error
}

// Request carries per-call overrides. Zero values use the configuration.
type Request struct {
	Format       subtitle.Format
	MaxLineWidth int
	LanguageCode string
}

// Transcriber is the part of speech.Registry the converter needs.
type Transcriber interface {
	Transcribe(ctx context.Context, audio speech.Audio, opts speech.Options) (*speech.Transcript, error)
}
