package handler

import (
	"quizdesk/internal/domain"
	"quizdesk/internal/dto"
	"quizdesk/internal/logger"
	"quizdesk/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ImportHandler handles workbook import and preview routes.
type ImportHandler struct {
	service service.QuizService
}

func NewImportHandler(service service.QuizService) *ImportHandler {
	return &ImportHandler{service: service}
}

// ImportFile handles POST /api/import. The whole question set is
// replaced by the accepted rows of the workbook.
func (h *ImportHandler) ImportFile(c *fiber.Ctx) error {
	var req dto.ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.FilePath == "" {
		return domain.NewInvalidInputError("file_path is required")
	}

	result, err := h.service.ImportFile(c.Context(), req.FilePath)
	if err != nil {
		logger.Get().Error("Import failed",
			zap.Error(err),
			zap.String("file", req.FilePath),
		)
		return err
	}

	logger.Get().Info("Imported question bank",
		zap.Int("count", result.Count),
		zap.Int("skipped", result.Skipped),
		zap.String("file", result.FilePath),
	)
	return c.JSON(dto.OK(result))
}

// PreviewFile handles POST /api/import/preview.
func (h *ImportHandler) PreviewFile(c *fiber.Ctx) error {
	var req dto.PreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.FilePath == "" {
		return domain.NewInvalidInputError("file_path is required")
	}

	result, err := h.service.PreviewFile(req.FilePath, req.RowCount)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(result))
}
