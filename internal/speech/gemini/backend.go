// Package gemini transcribes audio with a Gemini model, rotating API keys
// when one hits its quota.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/subflow/internal/logger"
	"github.com/nguyentantai21042004/subflow/internal/speech"
)

const Name = "gemini"

var _ speech.Backend = (*Backend)(nil)

const transcribePrompt = `Transcribe the attached audio recording. The spoken language is %s.

Return a JSON array of segments in the order they are spoken. Each segment is
an object with:
- "start": start time in seconds from the beginning of the recording
- "end": end time in seconds
- "speaker": the speaker's name if it is said aloud, otherwise an empty string
- "text": the exact words spoken, with punctuation

Keep each segment to one sentence or a short phrase of at most 7 seconds.
Do not translate, summarize or add commentary.`

type generateFunc func(ctx context.Context, apiKey, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error)

type Backend struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	logger     logger.Logger
	generate   generateFunc
}

// New creates a backend that rotates through the supplied API keys.
func New(apiKeys []string, model string, log logger.Logger) (*Backend, error) {
	keys := make([]string, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("at least one Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &Backend{
		apiKeys:  keys,
		model:    model,
		logger:   log,
		generate: generateContent,
	}, nil
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Transcribe(ctx context.Context, audio speech.Audio, opts speech.Options) (*speech.Transcript, error) {
	lang := opts.LanguageCode
	if lang == "" {
		lang = "ka-GE"
	}
	out := &speech.Transcript{Language: lang, Backend: Name}
	if len(audio.Data) == 0 {
		return out, nil
	}

	mimeType := audio.MIMEType
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	model := b.model
	if opts.Model != "" && opts.Model != "default" {
		model = opts.Model
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(fmt.Sprintf(transcribePrompt, lang)),
			genai.NewPartFromBytes(audio.Data, mimeType),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   segmentSchema,
	}

	text, err := b.callGemini(ctx, model, contents, cfg)
	if err != nil {
		return nil, err
	}

	segs, err := parseSegments(text)
	if err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}
	out.Segments = segs
	b.logger.Info(ctx, "Gemini returned %d segments", len(segs))
	return out, nil
}

// callGemini tries each key at most once, rotating on rate limit errors.
func (b *Backend) callGemini(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	var lastErr error

	for range len(b.apiKeys) {
		key, idx := b.key()

		text, err := b.generate(ctx, key, model, contents, cfg)
		if err == nil {
			return text, nil
		}
		if !isRateLimited(err) {
			return "", fmt.Errorf("generate content: %w", err)
		}

		b.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
		b.rotateKey(idx)
		lastErr = err
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (b *Backend) key() (string, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.apiKeys[b.currentKey], b.currentKey
}

// rotateKey advances past idx unless another caller already did.
func (b *Backend) rotateKey(idx int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.currentKey == idx {
		b.currentKey = (b.currentKey + 1) % len(b.apiKeys)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func generateContent(ctx context.Context, apiKey, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		return text.String(), nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}
