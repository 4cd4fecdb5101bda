package service

import (
	"context"
	"time"

	"bailbridge-backend/gemini"
	"bailbridge-backend/models"
	"bailbridge-backend/prompt"
	"bailbridge-backend/reference"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	// ErrReferenceUnavailable wraps any failure to read the section dataset
	ErrReferenceUnavailable = eris.New("service: reference dataset unavailable")
	// ErrGeneratorNotSet is returned when no completion backend is configured
	ErrGeneratorNotSet = eris.New("service: generator not set")
)

// SuggestionService runs the bail suggestion pipeline: load the dataset,
// pick the relevant rows, build the prompt, and ask the model
type SuggestionService struct {
	loader    reference.Loader
	generator gemini.Generator
	revision  prompt.Revision
	now       func() time.Time
}

// SuggestionServiceOption is a functional option for SuggestionService
type SuggestionServiceOption func(*SuggestionService)

// SuggestWithReferenceLoader sets the dataset loader
func SuggestWithReferenceLoader(loader reference.Loader) SuggestionServiceOption {
	return func(s *SuggestionService) {
		s.loader = loader
	}
}

// SuggestWithGenerator sets the completion backend
func SuggestWithGenerator(gen gemini.Generator) SuggestionServiceOption {
	return func(s *SuggestionService) {
		s.generator = gen
	}
}

// SuggestWithRevision selects the prompt template revision
func SuggestWithRevision(rev prompt.Revision) SuggestionServiceOption {
	return func(s *SuggestionService) {
		s.revision = rev
	}
}

// SuggestWithClock sets the clock used for result timestamps
func SuggestWithClock(now func() time.Time) SuggestionServiceOption {
	return func(s *SuggestionService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSuggestionService creates a new suggestion service. The loader defaults
// to the embedded sample dataset and the revision to the short template.
func NewSuggestionService(opts ...SuggestionServiceOption) *SuggestionService {
	s := &SuggestionService{
		loader:   reference.EmbeddedLoader{},
		revision: prompt.RevisionShort,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SuggestRequest represents one suggestion request
type SuggestRequest struct {
	Facts models.CaseFacts
	// Origin is the scheme and host of the inbound request
	Origin string
}

// SuggestResult represents a completed suggestion
type SuggestResult struct {
	Suggestion   string
	Timestamp    time.Time
	MatchedRows  int
	UsedFallback bool
}

// Revision returns the configured prompt revision
func (s *SuggestionService) Revision() prompt.Revision {
	return s.revision
}

// Suggest runs the pipeline once. Generator errors are returned unwrapped.
func (s *SuggestionService) Suggest(ctx context.Context, req SuggestRequest) (*SuggestResult, error) {
	if s.generator == nil {
		return nil, ErrGeneratorNotSet
	}
	if s.loader == nil {
		return nil, eris.Wrap(ErrReferenceUnavailable, "loader not set")
	}

	log := zap.L().With(
		zap.String("section", req.Facts.SectionNumber),
		zap.String("revision", string(s.revision)),
	)

	lines, err := s.loader.Load(ctx, req.Origin)
	if err != nil {
		log.Warn("service: load reference dataset", zap.Error(err))
		return nil, eris.Wrap(err, ErrReferenceUnavailable.Error())
	}

	rows := reference.Filter(lines, req.Facts.SectionNumber, req.Facts.OffenseType, s.revision.MatchLimit())
	text := prompt.Build(s.revision, req.Facts, reference.Excerpt(rows))

	log.Info("service: requesting suggestion",
		zap.Int("dataset_rows", len(lines)),
		zap.Int("matched_rows", len(rows)),
		zap.Int("prompt_length", len(text)),
	)

	resp, err := s.generator.GenerateContent(ctx, text)
	if err != nil {
		log.Error("service: generate suggestion", zap.Error(err))
		return nil, err
	}

	suggestion, ok := resp.FirstText()
	if !ok {
		log.Warn("service: no usable candidate, using fallback", zap.String("finish_reason", resp.FinishReason()))
		suggestion = models.FallbackSuggestion
	}

	return &SuggestResult{
		Suggestion:   suggestion,
		Timestamp:    s.now(),
		MatchedRows:  len(rows),
		UsedFallback: !ok,
	}, nil
}
