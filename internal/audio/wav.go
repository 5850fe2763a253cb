package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

const pcmFormat = 1

// Info describes a WAV file.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	PCM        bool
	Duration   time.Duration
}

// IsLinear16Mono reports whether the audio can be sent to recognition as is.
func (i Info) IsLinear16Mono() bool {
	return i.PCM && i.Channels == 1 && i.BitDepth == 16 && i.SampleRate > 0
}

// Inspect reads the header of a WAV file.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file: %s", path)
	}

	dur, err := d.Duration()
	if err != nil {
		return nil, fmt.Errorf("wav duration: %w", err)
	}

	return &Info{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		PCM:        d.WavAudioFormat == pcmFormat,
		Duration:   dur,
	}, nil
}
