package speech

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry holds the configured backends and picks primary and fallback.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
	primary  string
	fallback string
}

func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
	}
}

// Register adds b under its name. The first registered backend becomes primary.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := b.Name()
	r.backends[name] = b
	if r.primary == "" {
		r.primary = name
	}
}

func (r *Registry) SetFallback(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = name
}

func (r *Registry) Primary() Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.backends[r.primary]
}

// Fallback returns nil when no fallback is set or it equals the primary.
func (r *Registry) Fallback() Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.fallback == "" || r.fallback == r.primary {
		return nil
	}
	return r.backends[r.fallback]
}

// Backends returns the registered names in sorted order.
func (r *Registry) Backends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Transcribe runs the primary backend and retries once on the fallback.
func (r *Registry) Transcribe(ctx context.Context, audio Audio, opts Options) (*Transcript, error) {
	primary := r.Primary()
	if primary == nil {
		return nil, ErrNoBackend
	}

	transcript, err := primary.Transcribe(ctx, audio, opts)
	if err == nil {
		return transcript, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("transcribe with %s: %w", primary.Name(), err)
	}

	fallback := r.Fallback()
	if fallback == nil {
		return nil, fmt.Errorf("transcribe with %s: %w", primary.Name(), err)
	}

	transcript, fbErr := fallback.Transcribe(ctx, audio, opts)
	if fbErr != nil {
		return nil, fmt.Errorf("transcribe with %s failed (%v), fallback %s: %w", primary.Name(), err, fallback.Name(), fbErr)
	}
	return transcript, nil
}
