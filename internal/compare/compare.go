// Package compare asks a generative model to contrast two technologies.
package compare

import (
	"context"
	"errors"
	"time"

	"github.com/dbmrq/techcat/internal/catalog"
	apperrors "github.com/dbmrq/techcat/internal/errors"
	"github.com/dbmrq/techcat/internal/logging"
	"github.com/dbmrq/techcat/internal/metrics"
	"github.com/dbmrq/techcat/internal/prompt"
)

// ErrNoText marks a completion that carried no candidate text.
var ErrNoText = errors.New("no candidate text")

// Comparator produces a free-text comparison of two technologies.
type Comparator interface {
	Compare(ctx context.Context, first, second *catalog.Technology) (string, error)
}

// Generator sends an assembled prompt to a model and returns its text.
type Generator interface {
	Generate(ctx context.Context, req *prompt.Request) (string, error)
}

// Service is a Comparator that renders records with a prompt builder and
// forwards the result to a Generator. Every call reaches the Generator;
// nothing is cached.
type Service struct {
	gen     Generator
	builder *prompt.Builder
	metrics *metrics.Metrics
}

// NewService creates a comparison service. m may be nil.
func NewService(gen Generator, builder *prompt.Builder, m *metrics.Metrics) *Service {
	return &Service{gen: gen, builder: builder, metrics: m}
}

// Compare validates both records, builds the prompt and calls the model.
func (s *Service) Compare(ctx context.Context, first, second *catalog.Technology) (string, error) {
	style := s.builder.Template().Style.String()

	if err := Validate(first, second); err != nil {
		s.metrics.RecordComparison(style, metrics.OutcomeInvalid)
		return "", err
	}

	req, err := s.builder.Build(first, second)
	if err != nil {
		s.metrics.RecordComparison(style, metrics.OutcomeInvalid)
		return "", apperrors.Wrap(err, apperrors.ErrValidation, "could not encode technologies")
	}

	log := logging.FromContext(ctx).With("tech1", first.Name, "tech2", second.Name, "style", style)
	log.Info("comparing technologies")

	start := time.Now()
	text, err := s.gen.Generate(ctx, req)
	if err != nil {
		outcome := metrics.OutcomeUpstream
		if errors.Is(err, ErrNoText) {
			outcome = metrics.OutcomeEmpty
		}
		s.metrics.RecordComparison(style, outcome)
		log.Error("comparison failed", "error", err, "duration", time.Since(start))
		return "", err
	}

	s.metrics.RecordComparison(style, metrics.OutcomeSuccess)
	log.Debug("comparison succeeded", "duration", time.Since(start), "chars", len(text))
	return text, nil
}

// Validate reports a validation error naming the first missing record.
// A record without a name counts as missing.
func Validate(first, second *catalog.Technology) error {
	if first == nil || first.Name == "" {
		return apperrors.MissingTechnology("tech1")
	}
	if second == nil || second.Name == "" {
		return apperrors.MissingTechnology("tech2")
	}
	return nil
}
