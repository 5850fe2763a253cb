package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nguyentantai21042004/subflow/internal/subtitle"
)

type Config struct {
	Subtitle    SubtitleConfig    `yaml:"subtitle"`
	Speech      SpeechConfig      `yaml:"speech"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Storage     StorageConfig     `yaml:"storage"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Watch       WatchConfig       `yaml:"watch"`
}

// SubtitleConfig holds the layout rules. Durations are in seconds.
type SubtitleConfig struct {
	MaxLineWidth     int     `yaml:"max_line_width"`
	MaxLinesPerCue   int     `yaml:"max_lines_per_cue"`
	MaxSpeakerLength int     `yaml:"max_speaker_length"`
	MinCueDuration   float64 `yaml:"min_cue_duration"`
	MaxCueDuration   float64 `yaml:"max_cue_duration"`
	InterCueGap      float64 `yaml:"inter_cue_gap"`
	ReadingSpeedCPS  float64 `yaml:"reading_speed_cps"`
	Format           string  `yaml:"format"`
}

type SpeechConfig struct {
	Enabled         bool   `yaml:"enabled"`
	LanguageCode    string `yaml:"language_code"`
	Model           string `yaml:"model"`
	CredentialsFile string `yaml:"credentials_file"`
	Fallback        string `yaml:"fallback"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

func (s SpeechConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type StorageConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	MaxUploadMB    int64    `yaml:"max_upload_mb"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type WatchConfig struct {
	SettleDelayMS int  `yaml:"settle_delay_ms"`
	ScanExisting  bool `yaml:"scan_existing"`
}

// SettleDelay is how long a dropped file must stop growing before it is processed.
func (w WatchConfig) SettleDelay() time.Duration {
	return time.Duration(w.SettleDelayMS) * time.Millisecond
}

// Load reads a YAML config file, applies environment overrides and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEYS")); v != "" {
		c.Gemini.APIKeys = nil
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.Gemini.APIKeys = append(c.Gemini.APIKeys, k)
			}
		}
	}
	if v := strings.TrimSpace(os.Getenv("GCS_BUCKET")); v != "" {
		c.Storage.Bucket = v
	}
	if v := strings.TrimSpace(os.Getenv("SUBFLOW_ADDR")); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Speech.Fallback != "" && c.Speech.Fallback != "gemini" {
		return fmt.Errorf("speech.fallback must be empty or \"gemini\", got %q", c.Speech.Fallback)
	}

	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 32
	}
	if c.Speech.LanguageCode == "" {
		c.Speech.LanguageCode = "ka-GE"
	}
	if c.Speech.Model == "" {
		c.Speech.Model = "default"
	}
	if c.Speech.TimeoutSeconds == 0 {
		c.Speech.TimeoutSeconds = 600
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Storage.Prefix == "" {
		c.Storage.Prefix = "audio"
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.Watch.SettleDelayMS == 0 {
		c.Watch.SettleDelayMS = 500
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if _, err := subtitle.ParseFormat(c.Subtitle.Format); err != nil {
		return fmt.Errorf("subtitle.format: %w", err)
	}
	if err := c.Subtitle.Options().Validate(); err != nil {
		return fmt.Errorf("subtitle: %w", err)
	}

	return nil
}

// Options converts the subtitle section into layout options. Zero values
// keep the defaults.
func (s SubtitleConfig) Options() subtitle.Options {
	opts := subtitle.DefaultOptions()
	if s.MaxLineWidth != 0 {
		opts.MaxLineWidth = s.MaxLineWidth
	}
	if s.MaxLinesPerCue != 0 {
		opts.MaxLinesPerCue = s.MaxLinesPerCue
	}
	if s.MaxSpeakerLength != 0 {
		opts.MaxSpeakerLength = s.MaxSpeakerLength
	}
	if s.MinCueDuration != 0 {
		opts.MinCueDuration = seconds(s.MinCueDuration)
	}
	if s.MaxCueDuration != 0 {
		opts.MaxCueDuration = seconds(s.MaxCueDuration)
	}
	if s.InterCueGap != 0 {
		opts.InterCueGap = seconds(s.InterCueGap)
	}
	if s.ReadingSpeedCPS != 0 {
		opts.ReadingSpeed = s.ReadingSpeedCPS
	}
	return opts
}

// OutputFormat returns the configured default output format.
func (s SubtitleConfig) OutputFormat() subtitle.Format {
	f, err := subtitle.ParseFormat(s.Format)
	if err != nil {
		return subtitle.SRT
	}
	return f
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second)).Round(time.Millisecond)
}
