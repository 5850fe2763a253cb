package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/nguyentantai21042004/subflow/internal/logger"
)

type implGCS struct {
	client  *gcs.Client
	bucket  string
	logger  logger.Logger
	timeout time.Duration
}

// NewGCS returns an ObjectStore backed by a Cloud Storage bucket.
func NewGCS(ctx context.Context, bucket string, log logger.Logger, opts ...option.ClientOption) (ObjectStore, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, fmt.Errorf("bucket name required")
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	return &implGCS{
		client:  client,
		bucket:  bucket,
		logger:  log,
		timeout: 5 * time.Minute,
	}, nil
}
