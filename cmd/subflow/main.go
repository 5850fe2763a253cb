package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/nguyentantai21042004/subflow/internal/config"
	"github.com/nguyentantai21042004/subflow/internal/logger"
)

const usage = `Usage: subflow [-config config.yaml] <command> [flags]

Commands:
  serve                 run the HTTP API (default)
  watch                 convert files dropped into paths.input
  convert [flags] FILE  convert a .docx transcript or an audio file
  export [flags] FILE   turn an .srt file into a .docx transcript
`

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cmd, args := "serve", flag.Args()
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cmd, args, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "%s failed: %v", cmd, err)
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string, cfg *config.Config, log logger.Logger) error {
	switch cmd {
	case "serve", "watch":
		log.Info(ctx, "========================================")
		log.Info(ctx, "subflow: transcript to subtitle converter")
		log.Info(ctx, "========================================")
		log.Info(ctx, "System: %s/%s, CPU Cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
		log.Info(ctx, "Max Concurrent Transcriptions: %d", cfg.Performance.MaxConcurrent)
	}

	if err := ensureDirectories(cfg, cmd == "watch"); err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	switch cmd {
	case "serve":
		return a.serve(ctx)
	case "watch":
		return a.watch(ctx)
	case "convert":
		return a.convertFile(ctx, args)
	case "export":
		return a.exportFile(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *config.Config, watching bool) error {
	dirs := []string{cfg.Paths.Temp}
	if watching {
		dirs = append(dirs, cfg.Paths.Input, cfg.Paths.Output, cfg.Paths.Archived)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
