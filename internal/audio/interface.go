package audio

import "context"

// Normalizer prepares audio for speech recognition.
type Normalizer interface {
	Normalize(ctx context.Context, path string) (*Prepared, error)
}
