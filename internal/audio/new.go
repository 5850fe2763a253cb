package audio

import (
	"github.com/nguyentantai21042004/subflow/internal/logger"
	"github.com/nguyentantai21042004/subflow/pkg/executor"
)

type implNormalizer struct {
	executor   executor.Executor
	logger     logger.Logger
	ffmpeg     string
	sampleRate int
	tempDir    string
}

// New creates a Normalizer that converts audio with the given ffmpeg binary.
func New(exec executor.Executor, log logger.Logger, ffmpegPath string, sampleRate int, tempDir string) Normalizer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &implNormalizer{
		executor:   exec,
		logger:     log,
		ffmpeg:     ffmpegPath,
		sampleRate: sampleRate,
		tempDir:    tempDir,
	}
}
