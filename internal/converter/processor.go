package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/subflow/internal/audio"
	"github.com/nguyentantai21042004/subflow/internal/subtitle"
)

// Process converts a .docx transcript or an audio recording from the input
// folder, writes <name>.<format> into the output folder and archives the input.
func (c *implConverter) Process(ctx context.Context, path string) error {
	startTime := time.Now()

	c.logger.Info(ctx, "========================================")
	c.logger.Info(ctx, "Starting conversion: %s", path)
	c.logger.Info(ctx, "========================================")

	var (
		res *subtitle.Result
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case ext == ".docx":
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		res, err = c.ConvertDocument(ctx, data, Request{})
	case audio.IsSupported(path):
		res, err = c.TranscribeAudio(ctx, path, Request{})
	default:
		return fmt.Errorf("unsupported file type: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("convert %s: %w", filepath.Base(path), err)
	}

	outputPath := filepath.Join(c.cfg.Paths.Output, outputName(path, res.Format.Ext()))
	if err := atomicWrite(outputPath, []byte(res.Content)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if err := c.moveToArchived(ctx, path); err != nil {
		c.logger.Warn(ctx, "Failed to move input to archived folder: %v", err)
	}

	c.logger.Info(ctx, "========================================")
	c.logger.Info(ctx, "Conversion completed successfully!")
	c.logger.Info(ctx, "Output subtitle: %s (%d cues, %s)", outputPath, res.Cues, res.Duration)
	c.logger.Info(ctx, "Processing time: %s", time.Since(startTime).Round(time.Millisecond))
	c.logger.Info(ctx, "========================================")

	return nil
}
