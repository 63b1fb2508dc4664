package dto

import (
	"time"

	"quizdesk/internal/domain"
)

// Envelope is the uniform JSON response shape: {success, data?|error?}.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

func Fail(message string) Envelope {
	return Envelope{Success: false, Error: message}
}

// QuestionResponse represents a question in the API response
type QuestionResponse struct {
	ID         int64     `json:"id"`
	Stem       string    `json:"stem"`
	OptionA    string    `json:"option_a"`
	OptionB    string    `json:"option_b"`
	OptionC    string    `json:"option_c"`
	OptionD    string    `json:"option_d"`
	Answer     string    `json:"answer"`
	Category   string    `json:"category,omitempty"`
	Type       string    `json:"type,omitempty"`
	Note       string    `json:"note,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToQuestionResponse(q *domain.Question) QuestionResponse {
	return QuestionResponse{
		ID:         q.ID,
		Stem:       q.Stem,
		OptionA:    q.OptionA,
		OptionB:    q.OptionB,
		OptionC:    q.OptionC,
		OptionD:    q.OptionD,
		Answer:     q.Answer,
		Category:   q.Category,
		Type:       q.Type,
		Note:       q.Note,
		Difficulty: q.Difficulty,
		CreatedAt:  q.CreatedAt,
	}
}

func ToQuestionResponses(questions []*domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, ToQuestionResponse(q))
	}
	return out
}

// CategoryCountResponse is one row of the category aggregation.
type CategoryCountResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// StatisticsResponse carries the five aggregate counts.
type StatisticsResponse struct {
	TotalQuestions     int `json:"totalQuestions"`
	AttemptedQuestions int `json:"attemptedQuestions"`
	CorrectAnswers     int `json:"correctAnswers"`
	MistakeCount       int `json:"mistakeCount"`
	FavoriteCount      int `json:"favoriteCount"`
}

// ImportRequest asks the server to ingest a workbook by path.
type ImportRequest struct {
	FilePath string `json:"file_path"`
}

// PreviewRequest asks for the first rows of a workbook without
// committing an import.
type PreviewRequest struct {
	FilePath string `json:"file_path"`
	RowCount int    `json:"row_count"`
}

// ImportResult reports a committed import.
type ImportResult struct {
	Count    int    `json:"count"`
	Skipped  int    `json:"skipped,omitempty"`
	FilePath string `json:"file_path"`
}

// PreviewResult reports a non-committing preview parse.
type PreviewResult struct {
	Questions []QuestionResponse `json:"questions"`
	Skipped   int                `json:"skipped,omitempty"`
	FilePath  string             `json:"file_path"`
}

// AnswerRequest records one answer submission. Correctness is judged
// by the quiz UI, which knows which mode the user is in.
type AnswerRequest struct {
	QuestionID int64  `json:"question_id"`
	UserAnswer string `json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`
}

// FavoriteResult reports the state after a toggle.
type FavoriteResult struct {
	IsFavorite bool `json:"is_favorite"`
}

// NoteRequest saves a free-text note for a question.
type NoteRequest struct {
	Note string `json:"note"`
}

// NoteResult returns the stored note text ("" when none).
type NoteResult struct {
	Note string `json:"note"`
}

// ExplanationRequest asks for an AI explanation of a question.
type ExplanationRequest struct {
	QuestionID int64 `json:"question_id"`
}

// ExplanationResult returns the explanation text and whether it came
// from the per-question cache.
type ExplanationResult struct {
	Content string `json:"content"`
	Cached  bool   `json:"cached"`
}
