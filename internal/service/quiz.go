package service

import (
	"context"

	"quizdesk/internal/domain"
	"quizdesk/internal/dto"
	"quizdesk/internal/ingest"
	"quizdesk/internal/logger"
	"quizdesk/internal/settings"

	"go.uber.org/zap"
)

// QuizService is the application surface shared by the HTTP facade and
// the desktop bridge.
type QuizService interface {
	ImportFile(ctx context.Context, filePath string) (*dto.ImportResult, error)
	PreviewFile(filePath string, rowCount int) (*dto.PreviewResult, error)

	GetAllQuestions(ctx context.Context) ([]dto.QuestionResponse, error)
	GetQuestionByID(ctx context.Context, id int64) (*dto.QuestionResponse, error)
	GetQuestionsByCategory(ctx context.Context, category string) ([]dto.QuestionResponse, error)
	GetQuestionsByType(ctx context.Context, questionType string) ([]dto.QuestionResponse, error)
	GetRandomQuestions(ctx context.Context, count int) ([]dto.QuestionResponse, error)
	GetMistakeQuestions(ctx context.Context) ([]dto.QuestionResponse, error)
	GetFavoriteQuestions(ctx context.Context) ([]dto.QuestionResponse, error)
	SearchQuestions(ctx context.Context, keyword string) ([]dto.QuestionResponse, error)
	GetCategories(ctx context.Context) ([]dto.CategoryCountResponse, error)
	GetStatistics(ctx context.Context) (*dto.StatisticsResponse, error)

	RecordAnswer(ctx context.Context, req *dto.AnswerRequest) error
	ToggleFavorite(ctx context.Context, questionID int64) (*dto.FavoriteResult, error)
	SaveNote(ctx context.Context, questionID int64, note string) error
	GetNote(ctx context.Context, questionID int64) (*dto.NoteResult, error)
}

type quizService struct {
	repo     domain.QuestionRepository
	settings *settings.Store
}

// NewQuizService creates the QuizService backed by the question store
// and the preference store.
func NewQuizService(repo domain.QuestionRepository, settingsStore *settings.Store) QuizService {
	return &quizService{repo: repo, settings: settingsStore}
}

// ImportFile parses the workbook and replaces the whole question set.
// Parsing happens before any write, so a bad file never clears the
// store. The file path is remembered as the last opened file.
func (s *quizService) ImportFile(ctx context.Context, filePath string) (*dto.ImportResult, error) {
	parsed, err := ingest.Parse(filePath)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.ReplaceAll(ctx, parsed.Questions)
	if err != nil {
		return nil, err
	}

	if err := s.settings.SetLastFilePath(filePath); err != nil {
		// Losing the bookmark is not worth failing the import over.
		logger.Get().Warn("failed to remember last file path", zap.Error(err))
	}

	if parsed.Skipped > 0 {
		logger.Get().Info("import skipped invalid rows",
			zap.Int("skipped", parsed.Skipped),
			zap.String("file", filePath),
		)
	}

	return &dto.ImportResult{
		Count:    count,
		Skipped:  parsed.Skipped,
		FilePath: parsed.FilePath,
	}, nil
}

func (s *quizService) PreviewFile(filePath string, rowCount int) (*dto.PreviewResult, error) {
	parsed, err := ingest.Preview(filePath, rowCount)
	if err != nil {
		return nil, err
	}
	return &dto.PreviewResult{
		Questions: dto.ToQuestionResponses(parsed.Questions),
		Skipped:   parsed.Skipped,
		FilePath:  parsed.FilePath,
	}, nil
}

func (s *quizService) GetAllQuestions(ctx context.Context) ([]dto.QuestionResponse, error) {
	questions, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToQuestionResponses(questions), nil
}

// GetQuestionByID scans the full list. Fine at this data scale; the
// store has no point-lookup because the UI always works on lists.
func (s *quizService) GetQuestionByID(ctx context.Context, id int64) (*dto.QuestionResponse, error) {
	questions, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		if q.ID == id {
			resp := dto.ToQuestionResponse(q)
			return &resp, nil
		}
	}
	return nil, domain.NewQuestionNotFoundError(id)
}

func (s *quizService) GetQuestionsByCategory(ctx context.Context, category string) ([]dto.QuestionResponse, error) {
	questions, err := s.repo.GetByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return dto.ToQuestionResponses(questions), nil
}

func (s *quizService) GetQuestionsByType(ctx context.Context, questionType string) ([]dto.QuestionResponse, error) {
	questions, err := s.repo.GetByType(ctx, questionType)
	if err != nil {
		return nil, err
	}
	return dto.ToQuestionResponses(questions), nil
}

func (s *quizService) GetRandomQuestions(ctx context.Context, count int) ([]dto.QuestionResponse, error) {
	questions, err := s.repo.GetRandom(ctx, count)
	if err != nil {
		return nil, err
	}
	return dto.ToQuestionResponses(questions), nil
}

func (s *quizService) GetMistakeQuestions(ctx context.Context) ([]dto.QuestionResponse, error) {
	questions, err := s.repo.GetMistakes(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToQuestionResponses(questions), nil
}

func (s *quizService) GetFavoriteQuestions(ctx context.Context) ([]dto.QuestionResponse, error) {
	questions, err := s.repo.GetFavorites(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToQuestionResponses(questions), nil
}

func (s *quizService) SearchQuestions(ctx context.Context, keyword string) ([]dto.QuestionResponse, error) {
	questions, err := s.repo.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return dto.ToQuestionResponses(questions), nil
}

func (s *quizService) GetCategories(ctx context.Context) ([]dto.CategoryCountResponse, error) {
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryCountResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryCountResponse{Category: c.Category, Count: c.Count})
	}
	return out, nil
}

func (s *quizService) GetStatistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	stats, err := s.repo.GetStatistics(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StatisticsResponse{
		TotalQuestions:     stats.TotalQuestions,
		AttemptedQuestions: stats.AttemptedQuestions,
		CorrectAnswers:     stats.CorrectAnswers,
		MistakeCount:       stats.MistakeCount,
		FavoriteCount:      stats.FavoriteCount,
	}, nil
}

func (s *quizService) RecordAnswer(ctx context.Context, req *dto.AnswerRequest) error {
	if req.QuestionID <= 0 {
		return domain.NewInvalidInputError("question_id is required")
	}
	return s.repo.RecordAnswer(ctx, req.QuestionID, req.UserAnswer, req.IsCorrect)
}

func (s *quizService) ToggleFavorite(ctx context.Context, questionID int64) (*dto.FavoriteResult, error) {
	isFavorite, err := s.repo.ToggleFavorite(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return &dto.FavoriteResult{IsFavorite: isFavorite}, nil
}

func (s *quizService) SaveNote(ctx context.Context, questionID int64, note string) error {
	return s.repo.SaveNote(ctx, questionID, note)
}

func (s *quizService) GetNote(ctx context.Context, questionID int64) (*dto.NoteResult, error) {
	note, err := s.repo.GetNote(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return &dto.NoteResult{Note: note}, nil
}
