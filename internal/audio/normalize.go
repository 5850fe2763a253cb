package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var supportedExts = []string{
	".wav", ".mp3", ".m4a", ".flac", ".ogg", ".opus", ".aac", ".wma",
	".mp4", ".mov", ".mkv", ".webm", ".avi", ".m4v",
}

// IsSupported reports whether the file extension is an audio or video
// container ffmpeg can extract speech from.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range supportedExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Prepared is audio ready for recognition: 16-bit PCM mono WAV.
type Prepared struct {
	Path     string
	MIMEType string
	Info     Info
	temp     bool
}

// Cleanup removes the converted file, if one was created.
func (p *Prepared) Cleanup() error {
	if p == nil || !p.temp {
		return nil
	}
	return os.Remove(p.Path)
}

// Normalize returns LINEAR16 mono audio for path. A WAV that already
// qualifies is used in place; everything else goes through ffmpeg.
func (n *implNormalizer) Normalize(ctx context.Context, path string) (*Prepared, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		info, err := Inspect(path)
		if err == nil && info.IsLinear16Mono() {
			n.logger.Debug(ctx, "Using WAV as is: %s (%d Hz)", path, info.SampleRate)
			return &Prepared{Path: path, MIMEType: "audio/wav", Info: *info}, nil
		}
		if err != nil {
			n.logger.Debug(ctx, "WAV header not usable, converting: %v", err)
		}
	}

	out, err := n.tempPath()
	if err != nil {
		return nil, err
	}

	n.logger.Info(ctx, "Converting audio to %d Hz mono WAV: %s", n.sampleRate, path)

	// -vn: drop video, -ar/-ac: resample to mono, pcm_s16le: LINEAR16
	args := []string{
		"-i", path,
		"-vn",
		"-ar", strconv.Itoa(n.sampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		out,
	}

	if _, err := n.executor.Execute(ctx, n.ffmpeg, args...); err != nil {
		os.Remove(out)
		return nil, fmt.Errorf("ffmpeg convert audio: %w", err)
	}

	info, err := Inspect(out)
	if err != nil {
		os.Remove(out)
		return nil, fmt.Errorf("inspect converted audio: %w", err)
	}

	return &Prepared{Path: out, MIMEType: "audio/wav", Info: *info, temp: true}, nil
}

func (n *implNormalizer) tempPath() (string, error) {
	if n.tempDir != "" {
		if err := os.MkdirAll(n.tempDir, 0755); err != nil {
			return "", fmt.Errorf("create temp dir: %w", err)
		}
	}
	f, err := os.CreateTemp(n.tempDir, "normalized-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := f.Name()
	f.Close()
	return name, nil
}
