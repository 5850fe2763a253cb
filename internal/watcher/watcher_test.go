package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/subflow/internal/logger"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	ch    chan string
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan string, 16)}
}

func (r *recorder) handle(ctx context.Context, path string) error {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.ch <- path
	return nil
}

func (r *recorder) wait(t *testing.T) string {
	t.Helper()
	select {
	case p := <-r.ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
		return ""
	}
}

func docxOnly(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".docx")
}

func startWatcher(t *testing.T, dir string, rec *recorder, opts Options) (context.CancelFunc, <-chan error) {
	t.Helper()
	if opts.SettleDelay == 0 {
		opts.SettleDelay = 20 * time.Millisecond
	}
	w, err := New(dir, rec.handle, logger.NewNop(), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()
	return cancel, errCh
}

func TestWatcherHandlesNewFiles(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	cancel, errCh := startWatcher(t, dir, rec, Options{Accept: docxOnly})

	// Give the event loop a moment to start.
	time.Sleep(50 * time.Millisecond)

	for _, name := range []string{"notes.txt", ".hidden.docx", "~$lock.docx", "hearing.docx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if got := rec.wait(t); filepath.Base(got) != "hearing.docx" {
		t.Errorf("handled %q, want hearing.docx", got)
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Start() = %v, want context.Canceled", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.paths) != 1 {
		t.Errorf("handled %v, want only hearing.docx", rec.paths)
	}
}

func TestWatcherScansExisting(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "old.docx"), []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := newRecorder()
	cancel, errCh := startWatcher(t, dir, rec, Options{Accept: docxOnly, ScanExisting: true})
	defer func() {
		cancel()
		<-errCh
	}()

	if got := rec.wait(t); filepath.Base(got) != "old.docx" {
		t.Errorf("handled %q, want old.docx", got)
	}
}

func TestWatcherWaitsForInFlight(t *testing.T) {
	dir := t.TempDir()
	release := make(chan struct{})
	started := make(chan struct{})
	finished := make(chan struct{})

	handler := func(ctx context.Context, path string) error {
		close(started)
		<-release
		close(finished)
		return nil
	}

	w, err := New(dir, handler, logger.NewNop(), Options{SettleDelay: 10 * time.Millisecond, ScanExisting: true})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "a.wav"), []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("handler not started")
	}

	cancel()
	select {
	case <-errCh:
		t.Fatal("Start() returned before in-flight work finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-errCh
	select {
	case <-finished:
	default:
		t.Error("handler did not finish")
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing"), newRecorder().handle, logger.NewNop(), Options{}); err == nil {
		t.Error("New() should fail for a missing directory")
	}
}

func TestAccepts(t *testing.T) {
	w := &implWatcher{opts: Options{Accept: docxOnly}}
	tests := []struct {
		path string
		want bool
	}{
		{"/in/a.docx", true},
		{"/in/A.DOCX", true},
		{"/in/a.txt", false},
		{"/in/.a.docx", false},
		{"/in/~$a.docx", false},
	}
	for _, tt := range tests {
		if got := w.accepts(tt.path); got != tt.want {
			t.Errorf("accepts(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
