package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/subflow/internal/logger"
	"github.com/nguyentantai21042004/subflow/internal/speech"
)

func TestParseSegments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []speech.Segment
	}{
		{
			name:  "array",
			input: `[{"start": 0.5, "end": 2.25, "speaker": "Maria", "text": " Hello. "}]`,
			want:  []speech.Segment{{Start: 500 * time.Millisecond, End: 2250 * time.Millisecond, Speaker: "Maria", Text: "Hello."}},
		},
		{
			name:  "fenced object",
			input: "```json\n{\"segments\": [{\"start\": 1, \"end\": 2, \"text\": \"Hi\"}]}\n```",
			want:  []speech.Segment{{Start: time.Second, End: 2 * time.Second, Text: "Hi"}},
		},
		{
			name:  "sorted and cleaned",
			input: `[{"start": 3, "end": 4, "text": "second"}, {"start": 1, "end": 0.5, "text": "first"}, {"start": 2, "end": 3, "text": "  "}]`,
			want: []speech.Segment{
				{Start: time.Second, End: time.Second, Text: "first"},
				{Start: 3 * time.Second, End: 4 * time.Second, Text: "second"},
			},
		},
		{
			name:  "negative start",
			input: `[{"start": -1, "end": 1, "text": "x"}]`,
			want:  []speech.Segment{{Start: 0, End: time.Second, Text: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSegments(tt.input)
			if err != nil {
				t.Fatalf("parseSegments() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d segments, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseSegmentsInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not json", "```\n```"} {
		if _, err := parseSegments(input); err == nil {
			t.Errorf("parseSegments(%q) should fail", input)
		}
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("Error 429, Too Many Requests"), true},
		{errors.New("quota exceeded"), true},
		{errors.New("RESOURCE_EXHAUSTED"), true},
		{errors.New("invalid argument"), false},
	}
	for _, tt := range tests {
		if got := isRateLimited(tt.err); got != tt.want {
			t.Errorf("isRateLimited(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New([]string{" ", ""}, "", logger.NewNop()); err == nil {
		t.Error("New() should fail without keys")
	}
	b, err := New([]string{"a"}, "", logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if b.model != "gemini-2.5-flash" {
		t.Errorf("model = %q", b.model)
	}
}

func TestTranscribeRotatesKeys(t *testing.T) {
	b, err := New([]string{"k1", "k2", "k3"}, "m", logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	var used []string
	b.generate = func(ctx context.Context, apiKey, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
		used = append(used, apiKey)
		if apiKey != "k3" {
			return "", errors.New("429 RESOURCE_EXHAUSTED")
		}
		if cfg.ResponseMIMEType != "application/json" {
			t.Errorf("ResponseMIMEType = %q", cfg.ResponseMIMEType)
		}
		return `[{"start": 0, "end": 1.5, "text": "gamarjoba"}]`, nil
	}

	tr, err := b.Transcribe(context.Background(), speech.Audio{Data: []byte("RIFF"), MIMEType: "audio/wav"}, speech.Options{})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if strings.Join(used, ",") != "k1,k2,k3" {
		t.Errorf("keys used = %v", used)
	}
	if tr.Backend != Name || tr.Language != "ka-GE" || tr.Text() != "gamarjoba" {
		t.Errorf("transcript = %+v", tr)
	}

	// The working key stays current for the next call.
	used = nil
	if _, err := b.Transcribe(context.Background(), speech.Audio{Data: []byte("RIFF")}, speech.Options{}); err != nil {
		t.Fatal(err)
	}
	if strings.Join(used, ",") != "k3" {
		t.Errorf("keys used on second call = %v", used)
	}
}

func TestTranscribeAllKeysExhausted(t *testing.T) {
	b, _ := New([]string{"k1", "k2"}, "m", logger.NewNop())
	calls := 0
	b.generate = func(ctx context.Context, apiKey, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
		calls++
		return "", errors.New("quota")
	}

	_, err := b.Transcribe(context.Background(), speech.Audio{Data: []byte("x")}, speech.Options{})
	if err == nil || !strings.Contains(err.Error(), "exhausted") {
		t.Errorf("Transcribe() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("generate called %d times, want 2", calls)
	}
}

func TestTranscribeStopsOnOtherErrors(t *testing.T) {
	b, _ := New([]string{"k1", "k2"}, "m", logger.NewNop())
	calls := 0
	b.generate = func(ctx context.Context, apiKey, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
		calls++
		return "", errors.New("invalid audio")
	}

	if _, err := b.Transcribe(context.Background(), speech.Audio{Data: []byte("x")}, speech.Options{}); err == nil {
		t.Error("Transcribe() should fail")
	}
	if calls != 1 {
		t.Errorf("generate called %d times, want 1", calls)
	}
}
