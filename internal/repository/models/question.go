package models

import (
	"database/sql"
	"time"
)

// Question mirrors the questions table. Optional text columns are
// nullable in the schema and collapse to "" in the domain type.
type Question struct {
	ID         int64          `db:"id"`
	Stem       string         `db:"stem"`
	OptionA    string         `db:"option_a"`
	OptionB    string         `db:"option_b"`
	OptionC    sql.NullString `db:"option_c"`
	OptionD    sql.NullString `db:"option_d"`
	Answer     string         `db:"answer"`
	Category   sql.NullString `db:"category"`
	Type       sql.NullString `db:"type"`
	Note       sql.NullString `db:"note"`
	Difficulty sql.NullString `db:"difficulty"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

// Attempt mirrors the attempts table; question_id is unique, so the
// row doubles as the per-question attempt aggregate.
type Attempt struct {
	ID           int64          `db:"id"`
	QuestionID   int64          `db:"question_id"`
	UserAnswer   sql.NullString `db:"user_answer"`
	IsCorrect    bool           `db:"is_correct"`
	AttemptCount int            `db:"attempt_count"`
	LastAttempt  time.Time      `db:"last_attempt"`
}

func (Attempt) TableName() string {
	return "attempts"
}

type MistakeNote struct {
	ID         int64          `db:"id"`
	QuestionID int64          `db:"question_id"`
	Note       sql.NullString `db:"note"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (MistakeNote) TableName() string {
	return "mistake_notes"
}

type Favorite struct {
	ID         int64     `db:"id"`
	QuestionID int64     `db:"question_id"`
	CreatedAt  time.Time `db:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type CategoryCount struct {
	Category string `db:"category"`
	Count    int    `db:"count"`
}
