// Package googlestt transcribes audio with Google Cloud Speech-to-Text.
package googlestt

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gspeech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/nguyentantai21042004/subflow/internal/logger"
	"github.com/nguyentantai21042004/subflow/internal/speech"
	"github.com/nguyentantai21042004/subflow/internal/storage"
)

const Name = "google_stt"

// DefaultInlineLimit is the largest payload the API accepts inline.
const DefaultInlineLimit = 10 << 20

var _ speech.Backend = (*Backend)(nil)

type Config struct {
	LanguageCode string
	Model        string
	Timeout      time.Duration
	InlineLimit  int
	// ObjectPrefix is the key prefix for staged uploads.
	ObjectPrefix string
}

type recognizeFunc func(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error)

type Backend struct {
	cfg        Config
	client     *gspeech.Client
	recognize  recognizeFunc
	store      storage.ObjectStore
	logger     logger.Logger
	maxRetries int
	baseDelay  time.Duration
}

// New dials the Speech API. store may be nil, in which case audio above the
// inline limit is rejected.
func New(ctx context.Context, cfg Config, store storage.ObjectStore, log logger.Logger, opts ...option.ClientOption) (*Backend, error) {
	client, err := gspeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}

	b := newBackend(cfg, store, log)
	b.client = client
	b.recognize = func(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error) {
		op, err := client.LongRunningRecognize(ctx, req)
		if err != nil {
			return nil, err
		}
		return op.Wait(ctx)
	}
	return b, nil
}

func newBackend(cfg Config, store storage.ObjectStore, log logger.Logger) *Backend {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "ka-GE"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if cfg.InlineLimit <= 0 {
		cfg.InlineLimit = DefaultInlineLimit
	}
	return &Backend{
		cfg:        cfg,
		store:      store,
		logger:     log,
		maxRetries: 4,
		baseDelay:  750 * time.Millisecond,
	}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}

func (b *Backend) Transcribe(ctx context.Context, audio speech.Audio, opts speech.Options) (*speech.Transcript, error) {
	lang := opts.LanguageCode
	if lang == "" {
		lang = b.cfg.LanguageCode
	}
	model := opts.Model
	if model == "" {
		model = b.cfg.Model
	}

	out := &speech.Transcript{Language: lang, Backend: Name}
	if len(audio.Data) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	req := &speechpb.LongRunningRecognizeRequest{
		Config: buildRecognitionConfig(audio, lang, model),
	}

	if len(audio.Data) <= b.cfg.InlineLimit {
		req.Audio = &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio.Data},
		}
	} else {
		if b.store == nil {
			return nil, fmt.Errorf("audio is %d bytes, above the %d byte inline limit, and no bucket is configured", len(audio.Data), b.cfg.InlineLimit)
		}

		key := storage.NewKey(b.cfg.ObjectPrefix, extension(audio))
		uri, err := b.store.Upload(ctx, key, bytes.NewReader(audio.Data), audio.MIMEType)
		if err != nil {
			return nil, fmt.Errorf("stage audio: %w", err)
		}
		defer func() {
			if err := b.store.Delete(context.WithoutCancel(ctx), key); err != nil {
				b.logger.Warn(ctx, "Failed to delete staged audio %s: %v", key, err)
			}
		}()

		b.logger.Info(ctx, "Staged %d bytes at %s", len(audio.Data), uri)
		req.Audio = &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: uri},
		}
	}

	start := time.Now()
	resp, err := b.retry(ctx, func() (*speechpb.LongRunningRecognizeResponse, error) {
		return b.recognize(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("long running recognize: %w", err)
	}

	out.Segments = segmentsFromResponse(resp)
	b.logger.Info(ctx, "Recognized %d segments in %v", len(out.Segments), time.Since(start).Round(time.Millisecond))
	return out, nil
}

func buildRecognitionConfig(audio speech.Audio, lang, model string) *speechpb.RecognitionConfig {
	rc := &speechpb.RecognitionConfig{
		Encoding:                   inferEncoding(audio.MIMEType, audio.Name),
		LanguageCode:               lang,
		EnableAutomaticPunctuation: true,
		EnableWordTimeOffsets:      true,
	}
	if audio.SampleRate > 0 {
		rc.SampleRateHertz = int32(audio.SampleRate)
	}
	if audio.Channels > 0 {
		rc.AudioChannelCount = int32(audio.Channels)
	}
	if model != "" && model != "default" {
		rc.Model = model
	}
	return rc
}

func inferEncoding(mimeType, name string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case strings.Contains(m, "wav") || ext == ".wav":
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac") || ext == ".flac":
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mpeg") || strings.Contains(m, "mp3") || ext == ".mp3":
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "ogg") || ext == ".ogg" || ext == ".opus":
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

func extension(audio speech.Audio) string {
	if ext := filepath.Ext(audio.Name); ext != "" {
		return ext
	}
	switch inferEncoding(audio.MIMEType, "") {
	case speechpb.RecognitionConfig_FLAC:
		return ".flac"
	case speechpb.RecognitionConfig_MP3:
		return ".mp3"
	case speechpb.RecognitionConfig_OGG_OPUS:
		return ".ogg"
	default:
		return ".wav"
	}
}
