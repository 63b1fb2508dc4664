package handler

import (
	"quizdesk/internal/domain"
	"quizdesk/internal/dto"
	"quizdesk/internal/settings"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler exposes the preference document over HTTP.
type SettingsHandler struct {
	store *settings.Store
}

func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	doc, err := h.store.Get()
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(doc))
}

// UpdateSettings handles POST /api/settings, replacing the whole
// document.
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var doc settings.Settings
	if err := c.BodyParser(&doc); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	updated, err := h.store.Update(&doc)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(updated))
}
