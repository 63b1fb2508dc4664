package domain

import "time"

// Question is a single quiz item. Options C and D may be empty,
// meaning the question only offers two choices.
type Question struct {
	ID         int64
	Stem       string
	OptionA    string
	OptionB    string
	OptionC    string
	OptionD    string
	Answer     string
	Category   string
	Type       string
	Note       string
	Difficulty string
	CreatedAt  time.Time
}

// AttemptRecord tracks answer history for one question. There is at
// most one record per question; repeated submissions bump AttemptCount
// and overwrite the answer, correctness and timestamp.
type AttemptRecord struct {
	ID           int64
	QuestionID   int64
	UserAnswer   string
	IsCorrect    bool
	AttemptCount int
	LastAttempt  time.Time
}

// Favorite marks a question as favorited. Toggling removes the row
// entirely rather than flipping a flag.
type Favorite struct {
	ID         int64
	QuestionID int64
	CreatedAt  time.Time
}

// MistakeNote is a free-text annotation attached to a question.
type MistakeNote struct {
	ID         int64
	QuestionID int64
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CategoryCount is one row of the category aggregation.
type CategoryCount struct {
	Category string
	Count    int
}

// Statistics holds the five aggregate counts shown on the home screen.
// A closed or never-initialized store reports all zeros.
type Statistics struct {
	TotalQuestions     int
	AttemptedQuestions int
	CorrectAnswers     int
	MistakeCount       int
	FavoriteCount      int
}
