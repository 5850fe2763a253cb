package converter

import (
	"github.com/nguyentantai21042004/subflow/internal/audio"
	"github.com/nguyentantai21042004/subflow/internal/config"
	"github.com/nguyentantai21042004/subflow/internal/logger"
)

type implConverter struct {
	cfg         *config.Config
	normalizer  audio.Normalizer
	transcriber Transcriber
	logger      logger.Logger
	sem         *semaphore
}

// New creates a Converter. transcriber may be nil when speech recognition is
// disabled; audio requests then fail with speech.ErrNoBackend.
func New(cfg *config.Config, normalizer audio.Normalizer, transcriber Transcriber, log logger.Logger) Converter {
	capacity := cfg.Performance.MaxConcurrent
	if capacity <= 0 {
		capacity = 1
	}
	return &implConverter{
		cfg:         cfg,
		normalizer:  normalizer,
		transcriber: transcriber,
		logger:      log,
		sem:         newSemaphore(capacity),
	}
}
