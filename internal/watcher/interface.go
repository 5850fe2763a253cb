package watcher

import (
	"context"
	"time"
)

// Watcher monitors the input folder and hands new files to a handler.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one file that finished arriving.
type EventHandler func(ctx context.Context, filePath string) error

// Options tune the watcher. Zero values use the defaults.
type Options struct {
	MaxConcurrent int
	// SettleDelay is how long a file's size must stay unchanged before it is
	// handed off.
	SettleDelay time.Duration
	// Accept filters paths. Nil accepts every regular file.
	Accept func(path string) bool
	// ScanExisting also handles files already in the folder at startup.
	ScanExisting bool
}
