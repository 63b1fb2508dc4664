package handler

import (
	"quizdesk/internal/domain"
	"quizdesk/internal/dto"
	"quizdesk/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ExplanationHandler serves AI-generated explanations. The HTTP route
// is non-streaming; the desktop bridge uses the streaming path of the
// same service directly.
type ExplanationHandler struct {
	quizService service.QuizService
	explService service.ExplanationService
}

func NewExplanationHandler(quizService service.QuizService, explService service.ExplanationService) *ExplanationHandler {
	return &ExplanationHandler{quizService: quizService, explService: explService}
}

// Explain handles POST /api/explanations
func (h *ExplanationHandler) Explain(c *fiber.Ctx) error {
	var req dto.ExplanationRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.QuestionID <= 0 {
		return domain.NewInvalidInputError("question_id is required")
	}

	question, err := h.quizService.GetQuestionByID(c.Context(), req.QuestionID)
	if err != nil {
		return err
	}

	result, err := h.explService.Explain(c.Context(), question.ID, question.Stem, question.Answer)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(result))
}
