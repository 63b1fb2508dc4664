package service

import (
	"context"
	"strconv"

	"quizdesk/internal/ai"
	"quizdesk/internal/dto"
	"quizdesk/internal/logger"
	"quizdesk/internal/settings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ExplanationService serves AI explanations with a per-question cache
// in the preference document. Concurrent non-streaming requests for
// the same question collapse into one upstream call.
type ExplanationService interface {
	// Explain returns the explanation for a question, generating and
	// caching it on first request.
	Explain(ctx context.Context, questionID int64, stem, answer string) (*dto.ExplanationResult, error)
	// ExplainStream generates an explanation, forwarding chunks to
	// sink as they arrive. The cache is consulted first (the full
	// cached text is delivered as a single chunk) and updated after a
	// successful stream.
	ExplainStream(ctx context.Context, questionID int64, stem, answer string, sink ai.StreamSink) (*dto.ExplanationResult, error)
}

type explanationService struct {
	settings *settings.Store
	client   *ai.Client
	sfGroup  singleflight.Group
}

func NewExplanationService(settingsStore *settings.Store, client *ai.Client) ExplanationService {
	return &explanationService{settings: settingsStore, client: client}
}

func (s *explanationService) Explain(ctx context.Context, questionID int64, stem, answer string) (*dto.ExplanationResult, error) {
	if cached, ok := s.settings.Explanation(questionID); ok {
		return &dto.ExplanationResult{Content: cached, Cached: true}, nil
	}

	key := explanationKey(questionID)
	content, err, _ := s.sfGroup.Do(key, func() (interface{}, error) {
		cfg, err := s.settings.AIConfig()
		if err != nil {
			return nil, err
		}
		result, err := s.client.Explain(ctx, cfg, stem, answer, nil)
		if err != nil {
			return nil, err
		}
		s.cache(questionID, result)
		return result.Content, nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.ExplanationResult{Content: content.(string)}, nil
}

func (s *explanationService) ExplainStream(ctx context.Context, questionID int64, stem, answer string, sink ai.StreamSink) (*dto.ExplanationResult, error) {
	if cached, ok := s.settings.Explanation(questionID); ok {
		sink(cached)
		return &dto.ExplanationResult{Content: cached, Cached: true}, nil
	}

	cfg, err := s.settings.AIConfig()
	if err != nil {
		return nil, err
	}
	result, err := s.client.Explain(ctx, cfg, stem, answer, sink)
	if err != nil {
		return nil, err
	}
	s.cache(questionID, result)
	return &dto.ExplanationResult{Content: result.Content}, nil
}

func (s *explanationService) cache(questionID int64, result *ai.Result) {
	if result.SkippedFrames > 0 {
		logger.Get().Warn("explanation stream skipped malformed frames",
			zap.Int64("question_id", questionID),
			zap.Int("skipped_frames", result.SkippedFrames),
		)
	}
	if result.Content == "" {
		return
	}
	if err := s.settings.SetExplanation(questionID, result.Content); err != nil {
		logger.Get().Warn("failed to cache explanation", zap.Error(err))
	}
}

func explanationKey(questionID int64) string {
	return "explanation:" + strconv.FormatInt(questionID, 10)
}
