package service_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"quizdesk/internal/domain"
	"quizdesk/internal/dto"
	"quizdesk/internal/service"
	"quizdesk/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type MockQuestionRepository struct {
	ReplaceAllFunc    func(ctx context.Context, questions []*domain.Question) (int, error)
	GetAllFunc        func(ctx context.Context) ([]*domain.Question, error)
	RecordAnswerFunc  func(ctx context.Context, questionID int64, userAnswer string, isCorrect bool) error
	GetStatisticsFunc func(ctx context.Context) (*domain.Statistics, error)
}

func (m *MockQuestionRepository) ReplaceAll(ctx context.Context, questions []*domain.Question) (int, error) {
	if m.ReplaceAllFunc != nil {
		return m.ReplaceAllFunc(ctx, questions)
	}
	panic("MockQuestionRepository.ReplaceAllFunc not implemented")
}
func (m *MockQuestionRepository) GetAll(ctx context.Context) ([]*domain.Question, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	panic("MockQuestionRepository.GetAllFunc not implemented")
}
func (m *MockQuestionRepository) GetByCategory(ctx context.Context, category string) ([]*domain.Question, error) {
	return nil, nil
}
func (m *MockQuestionRepository) GetByType(ctx context.Context, questionType string) ([]*domain.Question, error) {
	return nil, nil
}
func (m *MockQuestionRepository) GetRandom(ctx context.Context, count int) ([]*domain.Question, error) {
	return nil, nil
}
func (m *MockQuestionRepository) GetMistakes(ctx context.Context) ([]*domain.Question, error) {
	return nil, nil
}
func (m *MockQuestionRepository) GetFavorites(ctx context.Context) ([]*domain.Question, error) {
	return nil, nil
}
func (m *MockQuestionRepository) Search(ctx context.Context, keyword string) ([]*domain.Question, error) {
	return nil, nil
}
func (m *MockQuestionRepository) RecordAnswer(ctx context.Context, questionID int64, userAnswer string, isCorrect bool) error {
	if m.RecordAnswerFunc != nil {
		return m.RecordAnswerFunc(ctx, questionID, userAnswer, isCorrect)
	}
	panic("MockQuestionRepository.RecordAnswerFunc not implemented")
}
func (m *MockQuestionRepository) ToggleFavorite(ctx context.Context, questionID int64) (bool, error) {
	return false, nil
}
func (m *MockQuestionRepository) IsFavorite(ctx context.Context, questionID int64) (bool, error) {
	return false, nil
}
func (m *MockQuestionRepository) SaveNote(ctx context.Context, questionID int64, note string) error {
	return nil
}
func (m *MockQuestionRepository) GetNote(ctx context.Context, questionID int64) (string, error) {
	return "", nil
}
func (m *MockQuestionRepository) GetCategories(ctx context.Context) ([]domain.CategoryCount, error) {
	return nil, nil
}
func (m *MockQuestionRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	if m.GetStatisticsFunc != nil {
		return m.GetStatisticsFunc(ctx)
	}
	panic("MockQuestionRepository.GetStatisticsFunc not implemented")
}
func (m *MockQuestionRepository) Close() error { return nil }

func newSettingsStore(t *testing.T) *settings.Store {
	t.Helper()
	return settings.NewStore(filepath.Join(t.TempDir(), "settings.json"))
}

func writeQuestionWorkbook(t *testing.T, count int) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"question", "option_a", "option_b", "answer"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i := 1; i <= count; i++ {
		row := []interface{}{fmt.Sprintf("Question %d", i), "a", "b", "A"}
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row))
	}
	path := filepath.Join(t.TempDir(), "bank.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestImportFileReplacesStoreAndRemembersPath(t *testing.T) {
	path := writeQuestionWorkbook(t, 3)
	store := newSettingsStore(t)

	var replaced []*domain.Question
	repo := &MockQuestionRepository{
		ReplaceAllFunc: func(ctx context.Context, questions []*domain.Question) (int, error) {
			replaced = questions
			return len(questions), nil
		},
	}

	svc := service.NewQuizService(repo, store)
	result, err := svc.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Count)
	assert.Equal(t, path, result.FilePath)
	require.Len(t, replaced, 3)

	doc, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, path, doc.LastFilePath)
}

func TestImportFileParseFailureLeavesStoreUntouched(t *testing.T) {
	store := newSettingsStore(t)
	repo := &MockQuestionRepository{
		ReplaceAllFunc: func(ctx context.Context, questions []*domain.Question) (int, error) {
			t.Fatal("ReplaceAll must not be called when parsing fails")
			return 0, nil
		},
	}

	svc := service.NewQuizService(repo, store)
	_, err := svc.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)

	doc, err := store.Get()
	require.NoError(t, err)
	assert.Empty(t, doc.LastFilePath)
}

func TestGetQuestionByID(t *testing.T) {
	repo := &MockQuestionRepository{
		GetAllFunc: func(ctx context.Context) ([]*domain.Question, error) {
			return []*domain.Question{
				{ID: 1, Stem: "first"},
				{ID: 2, Stem: "second"},
			}, nil
		},
	}
	svc := service.NewQuizService(repo, newSettingsStore(t))

	q, err := svc.GetQuestionByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "second", q.Stem)

	_, err = svc.GetQuestionByID(context.Background(), 99)
	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrNotFound, domainErr.Code)
}

func TestRecordAnswerValidatesQuestionID(t *testing.T) {
	svc := service.NewQuizService(&MockQuestionRepository{}, newSettingsStore(t))

	err := svc.RecordAnswer(context.Background(), &dto.AnswerRequest{QuestionID: 0, UserAnswer: "A"})
	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrInvalidInput, domainErr.Code)
}

func TestRecordAnswerDelegates(t *testing.T) {
	var gotID int64
	var gotAnswer string
	var gotCorrect bool
	repo := &MockQuestionRepository{
		RecordAnswerFunc: func(ctx context.Context, questionID int64, userAnswer string, isCorrect bool) error {
			gotID, gotAnswer, gotCorrect = questionID, userAnswer, isCorrect
			return nil
		},
	}
	svc := service.NewQuizService(repo, newSettingsStore(t))

	err := svc.RecordAnswer(context.Background(), &dto.AnswerRequest{QuestionID: 4, UserAnswer: "C", IsCorrect: true})
	require.NoError(t, err)
	assert.Equal(t, int64(4), gotID)
	assert.Equal(t, "C", gotAnswer)
	assert.True(t, gotCorrect)
}

func TestGetStatisticsPropagatesRepositoryError(t *testing.T) {
	repoErr := errors.New("boom")
	repo := &MockQuestionRepository{
		GetStatisticsFunc: func(ctx context.Context) (*domain.Statistics, error) {
			return nil, repoErr
		},
	}
	svc := service.NewQuizService(repo, newSettingsStore(t))

	_, err := svc.GetStatistics(context.Background())
	assert.ErrorIs(t, err, repoErr)
}
