package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"quizdesk/internal/domain"
	"quizdesk/internal/repository/models"
	"quizdesk/internal/util"

	"github.com/jmoiron/sqlx"
)

const questionColumns = `id, stem, option_a, option_b, option_c, option_d, answer, category, type, note, difficulty, created_at`

// QuestionDatabaseAdapter implements domain.QuestionRepository on top
// of a sqlx-wrapped SQLite file. Mutations are serialized with a
// mutex: the desktop bridge and a phone browser can hit the store
// concurrently, and SQLite is opened single-writer.
type QuestionDatabaseAdapter struct {
	db     *sqlx.DB
	mu     sync.Mutex
	closed bool
}

// NewQuestionDatabaseAdapter creates a new QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) *QuestionDatabaseAdapter {
	return &QuestionDatabaseAdapter{db: db}
}

func (a *QuestionDatabaseAdapter) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// ReplaceAll implements domain.QuestionRepository. The delete and the
// inserts run in one transaction, so a mid-pass failure leaves the
// previous question set intact. SQLite keeps the AUTOINCREMENT
// sequence across the delete, so IDs of a re-import continue from the
// prior maximum.
func (a *QuestionDatabaseAdapter) ReplaceAll(ctx context.Context, questions []*domain.Question) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return 0, domain.NewNotInitializedError()
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return 0, fmt.Errorf("failed to clear questions: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO questions (
		stem, option_a, option_b, option_c, option_d, answer,
		category, type, note, difficulty, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, q := range questions {
		_, err := stmt.ExecContext(ctx,
			q.Stem,
			q.OptionA,
			q.OptionB,
			q.OptionC,
			q.OptionD,
			q.Answer,
			util.StringToNullString(q.Category),
			util.StringToNullString(q.Type),
			util.StringToNullString(q.Note),
			util.StringToNullString(q.Difficulty),
			now,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert question: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return len(questions), nil
}

// GetAll implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetAll(ctx context.Context) ([]*domain.Question, error) {
	if a.isClosed() {
		return []*domain.Question{}, nil
	}
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY id`
	return a.selectQuestions(ctx, query)
}

// GetByCategory implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetByCategory(ctx context.Context, category string) ([]*domain.Question, error) {
	if a.isClosed() {
		return []*domain.Question{}, nil
	}
	query := `SELECT ` + questionColumns + ` FROM questions WHERE category = ? ORDER BY id`
	return a.selectQuestions(ctx, query, category)
}

// GetByType implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetByType(ctx context.Context, questionType string) ([]*domain.Question, error) {
	if a.isClosed() {
		return []*domain.Question{}, nil
	}
	query := `SELECT ` + questionColumns + ` FROM questions WHERE type = ? ORDER BY id`
	return a.selectQuestions(ctx, query, questionType)
}

// GetRandom implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetRandom(ctx context.Context, count int) ([]*domain.Question, error) {
	if a.isClosed() {
		return []*domain.Question{}, nil
	}
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY RANDOM() LIMIT ?`
	return a.selectQuestions(ctx, query, count)
}

// GetMistakes implements domain.QuestionRepository. The attempt row is
// unique per question, so "currently incorrect" and "any incorrect
// ever" coincide here.
func (a *QuestionDatabaseAdapter) GetMistakes(ctx context.Context) ([]*domain.Question, error) {
	if a.isClosed() {
		return []*domain.Question{}, nil
	}
	query := `SELECT q.id, q.stem, q.option_a, q.option_b, q.option_c, q.option_d,
		q.answer, q.category, q.type, q.note, q.difficulty, q.created_at
	FROM questions q
	INNER JOIN attempts a ON q.id = a.question_id
	WHERE a.is_correct = 0
	ORDER BY a.last_attempt DESC`
	return a.selectQuestions(ctx, query)
}

// GetFavorites implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetFavorites(ctx context.Context) ([]*domain.Question, error) {
	if a.isClosed() {
		return []*domain.Question{}, nil
	}
	query := `SELECT q.id, q.stem, q.option_a, q.option_b, q.option_c, q.option_d,
		q.answer, q.category, q.type, q.note, q.difficulty, q.created_at
	FROM questions q
	INNER JOIN favorites f ON q.id = f.question_id
	ORDER BY f.created_at DESC`
	return a.selectQuestions(ctx, query)
}

// Search implements domain.QuestionRepository. SQLite LIKE is
// case-insensitive for ASCII.
func (a *QuestionDatabaseAdapter) Search(ctx context.Context, keyword string) ([]*domain.Question, error) {
	if a.isClosed() {
		return []*domain.Question{}, nil
	}
	pattern := "%" + keyword + "%"
	query := `SELECT ` + questionColumns + ` FROM questions WHERE stem LIKE ? OR note LIKE ? ORDER BY id`
	return a.selectQuestions(ctx, query, pattern, pattern)
}

// RecordAnswer implements domain.QuestionRepository as a single
// conditional upsert, so two overlapping submissions cannot lose a
// count increment.
func (a *QuestionDatabaseAdapter) RecordAnswer(ctx context.Context, questionID int64, userAnswer string, isCorrect bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return domain.NewNotInitializedError()
	}

	query := `INSERT INTO attempts (question_id, user_answer, is_correct, attempt_count, last_attempt)
	VALUES (?, ?, ?, 1, ?)
	ON CONFLICT(question_id) DO UPDATE SET
		user_answer = excluded.user_answer,
		is_correct = excluded.is_correct,
		attempt_count = attempts.attempt_count + 1,
		last_attempt = excluded.last_attempt`

	_, err := a.db.ExecContext(ctx, query, questionID, userAnswer, boolToInt(isCorrect), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record answer for question %d: %w", questionID, err)
	}
	return nil
}

// ToggleFavorite implements domain.QuestionRepository. Check-then-act
// is safe under the store mutex; the unique constraint backs it up.
func (a *QuestionDatabaseAdapter) ToggleFavorite(ctx context.Context, questionID int64) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false, domain.NewNotInitializedError()
	}

	var id int64
	err := a.db.GetContext(ctx, &id, `SELECT id FROM favorites WHERE question_id = ?`, questionID)
	switch {
	case err == nil:
		if _, err := a.db.ExecContext(ctx, `DELETE FROM favorites WHERE question_id = ?`, questionID); err != nil {
			return false, fmt.Errorf("failed to remove favorite for question %d: %w", questionID, err)
		}
		return false, nil
	case err == sql.ErrNoRows:
		if _, err := a.db.ExecContext(ctx, `INSERT INTO favorites (question_id, created_at) VALUES (?, ?)`,
			questionID, time.Now().UTC()); err != nil {
			return false, fmt.Errorf("failed to add favorite for question %d: %w", questionID, err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to check favorite for question %d: %w", questionID, err)
	}
}

// IsFavorite implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) IsFavorite(ctx context.Context, questionID int64) (bool, error) {
	if a.isClosed() {
		return false, nil
	}
	var id int64
	err := a.db.GetContext(ctx, &id, `SELECT id FROM favorites WHERE question_id = ?`, questionID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check favorite for question %d: %w", questionID, err)
	}
	return true, nil
}

// SaveNote implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) SaveNote(ctx context.Context, questionID int64, note string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return domain.NewNotInitializedError()
	}

	now := time.Now().UTC()
	query := `INSERT INTO mistake_notes (question_id, note, created_at, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(question_id) DO UPDATE SET
		note = excluded.note,
		updated_at = excluded.updated_at`

	if _, err := a.db.ExecContext(ctx, query, questionID, note, now, now); err != nil {
		return fmt.Errorf("failed to save note for question %d: %w", questionID, err)
	}
	return nil
}

// GetNote implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetNote(ctx context.Context, questionID int64) (string, error) {
	if a.isClosed() {
		return "", nil
	}
	var note sql.NullString
	err := a.db.GetContext(ctx, &note, `SELECT note FROM mistake_notes WHERE question_id = ?`, questionID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get note for question %d: %w", questionID, err)
	}
	return util.NullStringToString(note), nil
}

// GetCategories implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetCategories(ctx context.Context) ([]domain.CategoryCount, error) {
	if a.isClosed() {
		return []domain.CategoryCount{}, nil
	}
	query := `SELECT category, COUNT(*) AS count
	FROM questions
	WHERE category IS NOT NULL AND category != ''
	GROUP BY category
	ORDER BY category`

	var rows []models.CategoryCount
	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	result := make([]domain.CategoryCount, 0, len(rows))
	for _, r := range rows {
		result = append(result, domain.CategoryCount{Category: r.Category, Count: r.Count})
	}
	return result, nil
}

// GetStatistics implements domain.QuestionRepository. The five counts
// are independent scans; a closed store reports all zeros.
func (a *QuestionDatabaseAdapter) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	stats := &domain.Statistics{}
	if a.isClosed() {
		return stats, nil
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM questions`, &stats.TotalQuestions},
		{`SELECT COUNT(DISTINCT question_id) FROM attempts`, &stats.AttemptedQuestions},
		{`SELECT COUNT(*) FROM attempts WHERE is_correct = 1`, &stats.CorrectAnswers},
		{`SELECT COUNT(DISTINCT question_id) FROM attempts WHERE is_correct = 0`, &stats.MistakeCount},
		{`SELECT COUNT(*) FROM favorites`, &stats.FavoriteCount},
	}
	for _, c := range counts {
		if err := a.db.GetContext(ctx, c.dest, c.query); err != nil {
			return nil, fmt.Errorf("failed to compute statistics: %w", err)
		}
	}
	return stats, nil
}

// Close implements domain.QuestionRepository. Operations after Close
// behave as an uninitialized store: reads come back empty, mutations
// report STORE_NOT_INITIALIZED.
func (a *QuestionDatabaseAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.db.Close()
}

func (a *QuestionDatabaseAdapter) selectQuestions(ctx context.Context, query string, args ...interface{}) ([]*domain.Question, error) {
	var modelQuestions []models.Question
	if err := a.db.SelectContext(ctx, &modelQuestions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}

	questions := make([]*domain.Question, 0, len(modelQuestions))
	for i := range modelQuestions {
		questions = append(questions, toDomainQuestion(&modelQuestions[i]))
	}
	return questions, nil
}

func toDomainQuestion(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:         m.ID,
		Stem:       m.Stem,
		OptionA:    m.OptionA,
		OptionB:    m.OptionB,
		OptionC:    util.NullStringToString(m.OptionC),
		OptionD:    util.NullStringToString(m.OptionD),
		Answer:     m.Answer,
		Category:   util.NullStringToString(m.Category),
		Type:       util.NullStringToString(m.Type),
		Note:       util.NullStringToString(m.Note),
		Difficulty: util.NullStringToString(m.Difficulty),
		CreatedAt:  m.CreatedAt,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
