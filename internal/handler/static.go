package handler

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/gofiber/fiber/v2"
)

// mobileUA matches the common phone/tablet user-agent tokens.
var mobileUA = regexp.MustCompile(`(?i)Mobile|Android|iPhone|iPad|iPod`)

// StaticHandler serves the built UI bundle. The root route picks the
// mobile or default HTML entry point by user-agent; every unmatched
// route falls through to index.html so the SPA router can take over.
type StaticHandler struct {
	dir string
}

func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

// Register attaches the static routes. Must be called after the API
// routes so /api keeps precedence.
func (h *StaticHandler) Register(app *fiber.App) {
	app.Get("/", h.ServeIndex)
	app.Static("/", h.dir)
	app.Get("/*", h.ServeFallback)
}

// ServeIndex serves mobile.html to mobile user agents when the bundle
// ships one, index.html otherwise.
func (h *StaticHandler) ServeIndex(c *fiber.Ctx) error {
	if mobileUA.MatchString(c.Get("User-Agent")) {
		mobile := filepath.Join(h.dir, "mobile.html")
		if _, err := os.Stat(mobile); err == nil {
			return c.SendFile(mobile)
		}
	}
	return c.SendFile(filepath.Join(h.dir, "index.html"))
}

// ServeFallback is the SPA catch-all.
func (h *StaticHandler) ServeFallback(c *fiber.Ctx) error {
	return c.SendFile(filepath.Join(h.dir, "index.html"))
}
