package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/subflow/internal/audio"
	"github.com/nguyentantai21042004/subflow/internal/config"
	"github.com/nguyentantai21042004/subflow/internal/converter"
	"github.com/nguyentantai21042004/subflow/internal/gcp"
	subhttp "github.com/nguyentantai21042004/subflow/internal/http"
	httpH "github.com/nguyentantai21042004/subflow/internal/http/handlers"
	"github.com/nguyentantai21042004/subflow/internal/logger"
	"github.com/nguyentantai21042004/subflow/internal/speech"
	"github.com/nguyentantai21042004/subflow/internal/speech/gemini"
	"github.com/nguyentantai21042004/subflow/internal/speech/googlestt"
	"github.com/nguyentantai21042004/subflow/internal/storage"
	"github.com/nguyentantai21042004/subflow/internal/subtitle"
	"github.com/nguyentantai21042004/subflow/internal/watcher"
	"github.com/nguyentantai21042004/subflow/pkg/executor"
)

type app struct {
	cfg       *config.Config
	log       logger.Logger
	converter converter.Converter
	closers   []func() error
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	registry, err := a.speechRegistry(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	exec := executor.New()
	normalizer := audio.New(exec, log, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.SampleRate, cfg.Paths.Temp)
	a.converter = converter.New(cfg, normalizer, registry, log)
	return a, nil
}

// speechRegistry registers Google Speech-to-Text when enabled and Gemini
// when API keys are configured. Gemini is primary only without Google.
func (a *app) speechRegistry(ctx context.Context) (*speech.Registry, error) {
	cfg := a.cfg
	registry := speech.NewRegistry()

	if cfg.Speech.Enabled {
		opts, err := gcp.ClientOptions(cfg.Speech.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("google credentials: %w", err)
		}

		var store storage.ObjectStore
		if cfg.Storage.Bucket != "" {
			gcs, err := storage.NewGCS(ctx, cfg.Storage.Bucket, a.log, opts...)
			if err != nil {
				return nil, err
			}
			a.closers = append(a.closers, gcs.Close)
			store = gcs
		}

		stt, err := googlestt.New(ctx, googlestt.Config{
			LanguageCode: cfg.Speech.LanguageCode,
			Model:        cfg.Speech.Model,
			Timeout:      cfg.Speech.Timeout(),
			ObjectPrefix: cfg.Storage.Prefix,
		}, store, a.log, opts...)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, stt.Close)
		registry.Register(stt)
		a.log.Info(ctx, "Speech backend: %s (%s)", stt.Name(), cfg.Speech.LanguageCode)
	}

	if len(cfg.Gemini.APIKeys) > 0 && (!cfg.Speech.Enabled || cfg.Speech.Fallback == gemini.Name) {
		gem, err := gemini.New(cfg.Gemini.APIKeys, cfg.Gemini.Model, a.log)
		if err != nil {
			return nil, err
		}
		registry.Register(gem)
		if cfg.Speech.Enabled {
			registry.SetFallback(gem.Name())
		}
		a.log.Info(ctx, "Speech backend: %s (%s, %d keys)", gem.Name(), cfg.Gemini.Model, len(cfg.Gemini.APIKeys))
	}

	if len(registry.Backends()) == 0 {
		a.log.Warn(ctx, "No speech backend configured, audio transcription is disabled")
	}
	return registry, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn(context.Background(), "Close failed: %v", err)
		}
	}
}

func (a *app) serve(ctx context.Context) error {
	server := subhttp.NewServer(a.cfg.Server.Addr, subhttp.RouterConfig{
		ConvertHandler: httpH.NewConvertHandler(a.converter, a.log, a.cfg.Paths.Temp),
		HealthHandler:  httpH.NewHealthHandler(),
		Logger:         a.log,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		MaxUploadBytes: a.cfg.Server.MaxUploadMB << 20,
	})

	a.log.Info(ctx, "HTTP API listening on %s (max upload %d MB)", a.cfg.Server.Addr, a.cfg.Server.MaxUploadMB)
	a.log.Info(ctx, "Press Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		return err
	}
	a.log.Info(ctx, "HTTP API stopped")
	return nil
}

func (a *app) watch(ctx context.Context) error {
	w, err := watcher.New(a.cfg.Paths.Input, a.converter.Process, a.log, watcher.Options{
		MaxConcurrent: a.cfg.Performance.MaxConcurrent,
		SettleDelay:   a.cfg.Watch.SettleDelay(),
		Accept:        acceptInput,
		ScanExisting:  a.cfg.Watch.ScanExisting,
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "Watcher is ready!")
	a.log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Input)
	a.log.Info(ctx, "Output: %s (%s)", a.cfg.Paths.Output, a.cfg.Subtitle.OutputFormat())
	a.log.Info(ctx, "Press Ctrl+C to stop")
	a.log.Info(ctx, "========================================")

	return w.Start(ctx)
}

func acceptInput(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".docx") || audio.IsSupported(path)
}

func (a *app) convertFile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	format := fs.String("format", "", "output format: srt or vtt")
	width := fs.Int("width", 0, "maximum characters per line")
	lang := fs.String("language", "", "speech language code for audio input")
	out := fs.String("o", "", "output file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("convert needs exactly one input file")
	}
	input := fs.Arg(0)

	req := converter.Request{MaxLineWidth: *width, LanguageCode: *lang}
	if *format != "" {
		f, err := subtitle.ParseFormat(*format)
		if err != nil {
			return err
		}
		req.Format = f
	}

	var (
		res *subtitle.Result
		err error
	)
	if strings.EqualFold(filepath.Ext(input), ".docx") {
		data, rerr := os.ReadFile(input)
		if rerr != nil {
			return fmt.Errorf("read input: %w", rerr)
		}
		res, err = a.converter.ConvertDocument(ctx, data, req)
	} else {
		res, err = a.converter.TranscribeAudio(ctx, input, req)
	}
	if err != nil {
		return err
	}

	dest := *out
	if dest == "" {
		dest = strings.TrimSuffix(input, filepath.Ext(input)) + res.Format.Ext()
	}
	if err := writeOutput(dest, []byte(res.Content)); err != nil {
		return err
	}
	if dest != "-" {
		a.log.Info(ctx, "Wrote %d cues (%s) to %s", res.Cues, res.Duration, dest)
	}
	return nil
}

func (a *app) exportFile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	title := fs.String("title", "", "document title, defaults to the file name")
	out := fs.String("o", "", "output .docx file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("export needs exactly one .srt file")
	}
	input := fs.Arg(0)

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	stem := strings.TrimSuffix(input, filepath.Ext(input))
	if *title == "" {
		*title = filepath.Base(stem)
	}
	doc, err := a.converter.ExportTranscript(ctx, data, *title)
	if err != nil {
		return err
	}

	dest := *out
	if dest == "" {
		dest = stem + ".docx"
	}
	if err := writeOutput(dest, doc); err != nil {
		return err
	}
	a.log.Info(ctx, "Wrote transcript to %s", dest)
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
