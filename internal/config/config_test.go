package config

import (
	"os"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: false,
		},
		{
			name: "missing paths",
			config: Config{
				Paths: PathsConfig{},
			},
			wantErr: true,
		},
		{
			name: "unknown fallback",
			config: Config{
				Speech: SpeechConfig{Fallback: "whisper"},
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: true,
		},
		{
			name: "unknown format",
			config: Config{
				Subtitle: SubtitleConfig{Format: "ass"},
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: true,
		},
		{
			name: "max duration below min",
			config: Config{
				Subtitle: SubtitleConfig{MinCueDuration: 3, MaxCueDuration: 2},
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Paths: PathsConfig{Input: "in", Output: "out"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Paths.Archived != "data/archived" {
		t.Errorf("Archived = %v, want %v", cfg.Paths.Archived, "data/archived")
	}
	if cfg.Performance.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %v, want %v", cfg.Performance.MaxConcurrent, 2)
	}
	if cfg.Speech.LanguageCode != "ka-GE" {
		t.Errorf("LanguageCode = %v, want %v", cfg.Speech.LanguageCode, "ka-GE")
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Gemini.Model = %v, want %v", cfg.Gemini.Model, "gemini-2.5-flash")
	}
	if cfg.Watch.SettleDelay() != 500*time.Millisecond {
		t.Errorf("SettleDelay = %v, want %v", cfg.Watch.SettleDelay(), 500*time.Millisecond)
	}
	if cfg.Speech.TimeoutSeconds != 600 {
		t.Errorf("TimeoutSeconds = %v, want %v", cfg.Speech.TimeoutSeconds, 600)
	}
}

func TestSubtitleOptions(t *testing.T) {
	opts := SubtitleConfig{
		MaxLineWidth:    32,
		MinCueDuration:  1.5,
		InterCueGap:     0.25,
		ReadingSpeedCPS: 12,
	}.Options()

	if opts.MaxLineWidth != 32 {
		t.Errorf("MaxLineWidth = %v, want %v", opts.MaxLineWidth, 32)
	}
	if opts.MinCueDuration != 1500*time.Millisecond {
		t.Errorf("MinCueDuration = %v, want %v", opts.MinCueDuration, 1500*time.Millisecond)
	}
	if opts.InterCueGap != 250*time.Millisecond {
		t.Errorf("InterCueGap = %v, want %v", opts.InterCueGap, 250*time.Millisecond)
	}
	if opts.MaxCueDuration != 7*time.Second {
		t.Errorf("MaxCueDuration = %v, want default %v", opts.MaxCueDuration, 7*time.Second)
	}
	if opts.ReadingSpeed != 12 {
		t.Errorf("ReadingSpeed = %v, want %v", opts.ReadingSpeed, 12)
	}
}

func TestLoad(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
subtitle:
  max_line_width: 38
  reading_speed_cps: 17
  format: "vtt"

speech:
  enabled: true
  language_code: "en-US"

gemini:
  api_keys: ["from-file"]

paths:
  input: "data/input"
  output: "data/output"

logging:
  level: "info"
  format: "text"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GEMINI_API_KEYS", "key-a, key-b,")
	t.Setenv("GCS_BUCKET", "subflow-audio")

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Subtitle.MaxLineWidth != 38 {
		t.Errorf("MaxLineWidth = %v, want %v", cfg.Subtitle.MaxLineWidth, 38)
	}
	if cfg.Subtitle.OutputFormat() != "vtt" {
		t.Errorf("OutputFormat = %v, want %v", cfg.Subtitle.OutputFormat(), "vtt")
	}
	if cfg.Speech.LanguageCode != "en-US" {
		t.Errorf("LanguageCode = %v, want %v", cfg.Speech.LanguageCode, "en-US")
	}
	if len(cfg.Gemini.APIKeys) != 2 || cfg.Gemini.APIKeys[1] != "key-b" {
		t.Errorf("APIKeys = %v, want [key-a key-b]", cfg.Gemini.APIKeys)
	}
	if cfg.Storage.Bucket != "subflow-audio" {
		t.Errorf("Bucket = %v, want %v", cfg.Storage.Bucket, "subflow-audio")
	}
	if cfg.Paths.Input != "data/input" {
		t.Errorf("Input = %v, want %v", cfg.Paths.Input, "data/input")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
