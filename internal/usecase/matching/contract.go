package matching

import (
	"context"

	"github.com/kailas-cloud/aimatch/internal/domain/match"
)

// Index defines the vector backend contract for matching operations.
type Index interface {
	Upsert(ctx context.Context, namespace, id, text string, meta match.Metadata) error

	Search(ctx context.Context, namespace, queryText string, topK int) ([]match.Hit, error)

	Stats(ctx context.Context) (map[string]any, error)
}
