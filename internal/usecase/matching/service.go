// Package matching orchestrates record upserts and cross-namespace
// similarity searches against the vector index.
package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/aimatch/internal/domain/match"
	"github.com/kailas-cloud/aimatch/internal/domain/profile"
	"github.com/kailas-cloud/aimatch/internal/domain/record"
)

const defaultTopK = 5

// Service handles upsert and rank operations. Stateless: records live only
// for the duration of one request; the index is the only persistent state.
type Service struct {
	index  Index
	logger *zap.Logger
	topK   int
}

// New creates a matching service.
func New(index Index, logger *zap.Logger) *Service {
	return &Service{index: index, logger: logger, topK: defaultTopK}
}

// WithDefaultTopK overrides the default hit count used when a caller does
// not specify top_k.
func (s *Service) WithDefaultTopK(k int) *Service {
	if k > 0 {
		s.topK = k
	}
	return s
}

// Upsert renders the record's profile text and metadata projection and
// writes both into the namespace implied by the record type.
func (s *Service) Upsert(ctx context.Context, recordID string, rec *record.Record, typ record.Type) error {
	text := profile.Format(rec, typ)
	meta := profile.MetadataFor(rec, typ)

	if err := s.index.Upsert(ctx, typ.Namespace(), recordID, text, meta); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}

	s.logger.Info("record upserted",
		zap.String("record_id", recordID),
		zap.String("record_type", string(typ)),
		zap.String("namespace", typ.Namespace()),
	)
	return nil
}

// Rank searches the namespace opposite to the record's type and maps raw
// hits to matches with scaled scores. Backend order is preserved: no
// re-sort, no dedup. The source record can never collide with a hit since
// it lives in the other namespace.
func (s *Service) Rank(
	ctx context.Context, recordID string, rec *record.Record, typ record.Type, topK int,
) ([]match.Match, error) {
	if topK <= 0 {
		topK = s.topK
	}

	text := profile.Format(rec, typ)
	hits, err := s.index.Search(ctx, typ.SearchNamespace(), text, topK)
	if err != nil {
		return nil, fmt.Errorf("search matches: %w", err)
	}

	matches := make([]match.Match, 0, len(hits))
	for _, h := range hits {
		matches = append(matches, match.Match{
			ID:       h.ID,
			Score:    match.ScaleScore(h.Score),
			Metadata: h.Fields,
		})
	}

	s.logger.Debug("matches ranked",
		zap.String("record_id", recordID),
		zap.String("search_namespace", typ.SearchNamespace()),
		zap.Int("count", len(matches)),
	)
	return matches, nil
}

// Stats proxies the backend's index statistics.
func (s *Service) Stats(ctx context.Context) (map[string]any, error) {
	stats, err := s.index.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("index stats: %w", err)
	}
	return stats, nil
}
