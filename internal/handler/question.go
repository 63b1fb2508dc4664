package handler

import (
	"net/url"
	"strconv"

	"quizdesk/internal/domain"
	"quizdesk/internal/dto"
	"quizdesk/internal/logger"
	"quizdesk/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultRandomCount = 10

// QuestionHandler handles question, attempt, favorite and note routes.
type QuestionHandler struct {
	service service.QuizService
}

// NewQuestionHandler creates a new QuestionHandler instance
func NewQuestionHandler(service service.QuizService) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// GetAllQuestions handles GET /api/questions
func (h *QuestionHandler) GetAllQuestions(c *fiber.Ctx) error {
	questions, err := h.service.GetAllQuestions(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(questions))
}

// SearchQuestions handles GET /api/questions/search?q=
func (h *QuestionHandler) SearchQuestions(c *fiber.Ctx) error {
	keyword := c.Query("q")
	if keyword == "" {
		return domain.NewInvalidInputError("search query required")
	}
	questions, err := h.service.SearchQuestions(c.Context(), keyword)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(questions))
}

// GetQuestionByID handles GET /api/questions/:id
func (h *QuestionHandler) GetQuestionByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return domain.NewInvalidInputError("question id must be a number")
	}
	question, err := h.service.GetQuestionByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(question))
}

// GetRandomQuestions handles GET /api/questions/random/:count.
// An unparseable or non-positive count falls back to the default.
func (h *QuestionHandler) GetRandomQuestions(c *fiber.Ctx) error {
	count, err := strconv.Atoi(c.Params("count"))
	if err != nil || count <= 0 {
		count = defaultRandomCount
	}
	questions, err := h.service.GetRandomQuestions(c.Context(), count)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(questions))
}

// GetQuestionsByCategory handles GET /api/questions/category/:category
func (h *QuestionHandler) GetQuestionsByCategory(c *fiber.Ctx) error {
	category, err := url.PathUnescape(c.Params("category"))
	if err != nil || category == "" {
		return domain.NewInvalidInputError("category is required")
	}
	questions, err := h.service.GetQuestionsByCategory(c.Context(), category)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(questions))
}

// GetMistakeQuestions handles GET /api/questions/mistakes
func (h *QuestionHandler) GetMistakeQuestions(c *fiber.Ctx) error {
	questions, err := h.service.GetMistakeQuestions(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(questions))
}

// GetFavoriteQuestions handles GET /api/questions/favorites
func (h *QuestionHandler) GetFavoriteQuestions(c *fiber.Ctx) error {
	questions, err := h.service.GetFavoriteQuestions(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(questions))
}

// GetCategories handles GET /api/categories
func (h *QuestionHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(categories))
}

// GetStatistics handles GET /api/statistics
func (h *QuestionHandler) GetStatistics(c *fiber.Ctx) error {
	stats, err := h.service.GetStatistics(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(stats))
}

// RecordAnswer handles POST /api/answers
func (h *QuestionHandler) RecordAnswer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if err := h.service.RecordAnswer(c.Context(), &req); err != nil {
		logger.Get().Error("Failed to record answer",
			zap.Error(err),
			zap.Int64("question_id", req.QuestionID),
		)
		return err
	}
	return c.JSON(dto.OK(nil))
}

// ToggleFavorite handles POST /api/favorites/:id/toggle
func (h *QuestionHandler) ToggleFavorite(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return domain.NewInvalidInputError("question id must be a number")
	}
	result, err := h.service.ToggleFavorite(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(result))
}

// GetNote handles GET /api/notes/:id
func (h *QuestionHandler) GetNote(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return domain.NewInvalidInputError("question id must be a number")
	}
	note, err := h.service.GetNote(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(note))
}

// SaveNote handles POST /api/notes/:id
func (h *QuestionHandler) SaveNote(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return domain.NewInvalidInputError("question id must be a number")
	}
	var req dto.NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if err := h.service.SaveNote(c.Context(), id, req.Note); err != nil {
		return err
	}
	return c.JSON(dto.OK(nil))
}
