package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/subflow/internal/docx"
	"github.com/nguyentantai21042004/subflow/internal/speech"
	"github.com/nguyentantai21042004/subflow/internal/subtitle"
)

func (c *implConverter) ConvertDocument(ctx context.Context, data []byte, req Request) (*subtitle.Result, error) {
	opts, format := c.resolve(req)

	paragraphs, err := docx.ExtractParagraphs(data)
	if err != nil {
		return nil, fmt.Errorf("extract paragraphs: %w", err)
	}

	res, err := subtitle.Generate(paragraphs, format, opts)
	if err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "Converted document: %d paragraphs -> %d cues (%s)", len(paragraphs), res.Cues, res.Duration)
	return res, nil
}

func (c *implConverter) TranscribeAudio(ctx context.Context, path string, req Request) (*subtitle.Result, error) {
	if c.transcriber == nil {
		return nil, speech.ErrNoBackend
	}
	opts, format := c.resolve(req)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if err := c.sem.acquire(ctx); err != nil {
		return nil, fmt.Errorf("wait for transcription slot: %w", err)
	}
	defer c.sem.release()

	startTime := time.Now()

	prepared, err := c.normalizer.Normalize(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("normalize audio: %w", err)
	}
	defer func() {
		if err := prepared.Cleanup(); err != nil {
			c.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", prepared.Path, err)
		}
	}()

	data, err := os.ReadFile(prepared.Path)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	lang := req.LanguageCode
	if lang == "" {
		lang = c.cfg.Speech.LanguageCode
	}

	c.logger.Info(ctx, "Transcribing %s (%s, %s)", filepath.Base(path), prepared.Info.Duration.Round(time.Second), lang)

	transcript, err := c.transcriber.Transcribe(ctx, speech.Audio{
		Name:       filepath.Base(prepared.Path),
		Data:       data,
		MIMEType:   prepared.MIMEType,
		SampleRate: prepared.Info.SampleRate,
		Channels:   prepared.Info.Channels,
	}, speech.Options{
		LanguageCode: lang,
		Model:        c.cfg.Speech.Model,
	})
	if err != nil {
		return nil, err
	}
	if transcript.Text() == "" {
		return nil, &subtitle.EmptyInputError{Reason: "no speech recognized"}
	}

	cues, err := subtitle.FromTimedSegments(timedSegments(transcript), opts)
	if err != nil {
		return nil, err
	}

	res, err := subtitle.NewResult(cues, format)
	if err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "Transcribed with %s: %d segments -> %d cues in %s",
		transcript.Backend, len(transcript.Segments), res.Cues, time.Since(startTime).Round(time.Millisecond))
	return res, nil
}

func (c *implConverter) ExportTranscript(ctx context.Context, srt []byte, title string) ([]byte, error) {
	cues, err := subtitle.ParseSRT(string(srt))
	if err != nil {
		return nil, err
	}
	if len(cues) == 0 {
		return nil, &subtitle.EmptyInputError{Reason: "subtitle file has no cues"}
	}

	data, err := docx.WriteTranscript(title, cues)
	if err != nil {
		return nil, fmt.Errorf("write transcript: %w", err)
	}

	c.logger.Info(ctx, "Exported %d cues to transcript %q", len(cues), title)
	return data, nil
}

// resolve applies request overrides on top of the configured layout.
func (c *implConverter) resolve(req Request) (subtitle.Options, subtitle.Format) {
	opts := c.cfg.Subtitle.Options()
	if req.MaxLineWidth > 0 {
		opts.MaxLineWidth = req.MaxLineWidth
	}
	format := req.Format
	if format == "" {
		format = c.cfg.Subtitle.OutputFormat()
	}
	return opts, format
}

func timedSegments(t *speech.Transcript) []subtitle.TimedSegment {
	if t == nil {
		return nil
	}
	segs := make([]subtitle.TimedSegment, 0, len(t.Segments))
	for _, s := range t.Segments {
		segs = append(segs, subtitle.TimedSegment{
			Start:   s.Start,
			End:     s.End,
			Speaker: s.Speaker,
			Text:    s.Text,
		})
	}
	return segs
}

// IsClientError reports whether err was caused by the input rather than by
// the service.
func IsClientError(err error) bool {
	var empty *subtitle.EmptyInputError
	return errors.As(err, &empty) ||
		errors.Is(err, docx.ErrNotDocx) ||
		errors.Is(err, subtitle.ErrMalformedSRT) ||
		errors.Is(err, subtitle.ErrInvalidOptions)
}

// outputName replaces the extension of the input file name.
func outputName(input, ext string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}
