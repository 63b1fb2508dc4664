package domain

import "context"

// QuestionRepository is the persistence surface for the question bank
// and its per-question attempt, favorite and note state.
//
// Read operations against a closed store return empty results rather
// than failing; mutations return a STORE_NOT_INITIALIZED error.
type QuestionRepository interface {
	// ReplaceAll deletes every existing question and inserts the given
	// set in one transaction. Returns the number of rows inserted.
	ReplaceAll(ctx context.Context, questions []*Question) (int, error)

	GetAll(ctx context.Context) ([]*Question, error)
	GetByCategory(ctx context.Context, category string) ([]*Question, error)
	GetByType(ctx context.Context, questionType string) ([]*Question, error)
	// GetRandom returns up to count questions in random order. Asking
	// for more rows than exist returns the full set.
	GetRandom(ctx context.Context, count int) ([]*Question, error)
	// GetMistakes returns questions whose attempt record is currently
	// incorrect, most recent attempt first.
	GetMistakes(ctx context.Context) ([]*Question, error)
	// GetFavorites returns favorited questions, newest favorite first.
	GetFavorites(ctx context.Context) ([]*Question, error)
	// Search matches keyword as a substring of the stem or the note.
	Search(ctx context.Context, keyword string) ([]*Question, error)

	// RecordAnswer upserts the attempt record for a question: the
	// first submission creates it with count 1, later submissions
	// increment the count and overwrite answer/correctness/timestamp.
	RecordAnswer(ctx context.Context, questionID int64, userAnswer string, isCorrect bool) error
	// ToggleFavorite flips the favorite state and reports the new one.
	ToggleFavorite(ctx context.Context, questionID int64) (bool, error)
	IsFavorite(ctx context.Context, questionID int64) (bool, error)
	// SaveNote upserts the free-text note for a question.
	SaveNote(ctx context.Context, questionID int64, note string) error
	// GetNote returns the note text, or "" when none exists.
	GetNote(ctx context.Context, questionID int64) (string, error)

	GetCategories(ctx context.Context) ([]CategoryCount, error)
	GetStatistics(ctx context.Context) (*Statistics, error)

	// Close releases the store. Later calls behave as uninitialized.
	Close() error
}
