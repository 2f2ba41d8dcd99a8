// Package explain enriches ranked matches with LLM-generated text:
// either a short reason per leading match or one overall summary of the
// ranking. Explanation is an enhancement, not part of the matching
// contract, so every failure here degrades to "no explanation" instead of
// failing the request.
package explain

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kailas-cloud/aimatch/internal/domain"
	"github.com/kailas-cloud/aimatch/internal/domain/match"
	"github.com/kailas-cloud/aimatch/internal/domain/record"
)

const (
	defaultMaxReasons       = 3
	defaultReasonMaxTokens  = 150
	defaultSummaryMaxTokens = 200

	// summaryTop caps how many matches are listed in the summary prompt.
	summaryTop = 5
)

// Service generates match explanations. A nil generator means the feature
// is disabled (no API key configured); requests still succeed with null
// explanations.
type Service struct {
	gen              Generator
	maxReasons       int
	reasonMaxTokens  int
	summaryMaxTokens int
	logger           *zap.Logger
}

// New creates an explanation service. gen may be nil.
func New(gen Generator, logger *zap.Logger) *Service {
	return &Service{
		gen:              gen,
		maxReasons:       defaultMaxReasons,
		reasonMaxTokens:  defaultReasonMaxTokens,
		summaryMaxTokens: defaultSummaryMaxTokens,
		logger:           logger,
	}
}

// WithLimits overrides the reason cap and token limits. Zero values keep
// the defaults.
func (s *Service) WithLimits(maxReasons, reasonMaxTokens, summaryMaxTokens int) *Service {
	if maxReasons > 0 {
		s.maxReasons = maxReasons
	}
	if reasonMaxTokens > 0 {
		s.reasonMaxTokens = reasonMaxTokens
	}
	if summaryMaxTokens > 0 {
		s.summaryMaxTokens = summaryMaxTokens
	}
	return s
}

// AddReasons attaches a generated reason to each of the leading matches,
// strictly sequentially in ranked order. Matches beyond the cap get a nil
// reason without an outbound call. Generation failures leave the reason
// nil and never propagate.
func (s *Service) AddReasons(ctx context.Context, rec *record.Record, typ record.Type, matches []match.Match) {
	for i := range matches {
		if i >= s.maxReasons {
			matches[i].Reason = nil
			continue
		}

		text, err := s.reason(ctx, rec, typ, matches[i])
		if err != nil {
			s.logGenerationSkip(err, "reason")
			matches[i].Reason = nil
			continue
		}
		matches[i].Reason = &text
	}
}

// Summarize generates one overall evaluation of the ranking. Returns nil
// when generation is disabled, the match list is empty, or the call fails.
func (s *Service) Summarize(
	ctx context.Context, rec *record.Record, typ record.Type, matches []match.Match,
) *string {
	if len(matches) == 0 {
		return nil
	}
	if s.gen == nil {
		s.logGenerationSkip(domain.ErrGenerationDisabled, "summary")
		return nil
	}

	text, err := s.gen.Generate(ctx, summaryPrompt(rec, typ, matches, summaryTop), s.summaryMaxTokens)
	if err != nil {
		s.logGenerationSkip(err, "summary")
		return nil
	}
	return &text
}

func (s *Service) reason(ctx context.Context, rec *record.Record, typ record.Type, m match.Match) (string, error) {
	if s.gen == nil {
		return "", domain.ErrGenerationDisabled
	}
	return s.gen.Generate(ctx, reasonPrompt(rec, typ, m), s.reasonMaxTokens)
}

// logGenerationSkip keeps "disabled" and "failed" distinguishable in logs
// even though both collapse to null on the wire.
func (s *Service) logGenerationSkip(err error, kind string) {
	if errors.Is(err, domain.ErrGenerationDisabled) {
		s.logger.Info("generation disabled, skipping", zap.String("kind", kind))
		return
	}
	s.logger.Warn("generation failed", zap.String("kind", kind), zap.Error(err))
}
