// Package settings persists user preferences as a single JSON
// document, created with defaults on first access.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"quizdesk/internal/domain"
)

// Theme is the UI theme, a closed enumeration.
type Theme string

const (
	ThemeLight   Theme = "light"
	ThemeDark    Theme = "dark"
	ThemeEyeCare Theme = "eye-care"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeEyeCare:
		return true
	}
	return false
}

// AIConfig points the explanation client at an OpenAI-compatible
// endpoint. The defaults target a local proxy; the key must be set by
// the user before explanations work.
type AIConfig struct {
	BaseURL string `json:"baseUrl"`
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
}

type SequentialProgress struct {
	LastQuestionIndex int `json:"lastQuestionIndex"`
}

// Settings is the whole preference document.
type Settings struct {
	LastFilePath       string             `json:"lastFilePath"`
	Theme              Theme              `json:"theme"`
	ShowAnswerDirectly bool               `json:"showAnswerDirectly"`
	AIConfig           AIConfig           `json:"aiConfig"`
	SequentialProgress SequentialProgress `json:"sequentialProgress"`
	CategoryProgress   map[string]int     `json:"categoryProgress"`
	AIExplanations     map[string]string  `json:"aiExplanations"`
}

// Defaults returns a fresh document with every field populated.
func Defaults() *Settings {
	return &Settings{
		LastFilePath:       "",
		Theme:              ThemeLight,
		ShowAnswerDirectly: false,
		AIConfig: AIConfig{
			BaseURL: "http://127.0.0.1:8045/v1",
			APIKey:  "",
			Model:   "gemini-3-flash",
		},
		SequentialProgress: SequentialProgress{LastQuestionIndex: 0},
		CategoryProgress:   map[string]int{},
		AIExplanations:     map[string]string{},
	}
}

// Store reads and writes the document at a fixed path. It is lazily
// initialized: the file is created with defaults on first access.
// Every mutation rewrites the whole file, which is fine at this size.
type Store struct {
	path   string
	mu     sync.Mutex
	cached *Settings
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get returns a copy of the current document.
func (s *Store) Get() (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	copied := *s.cached
	copied.CategoryProgress = copyMap(s.cached.CategoryProgress)
	copied.AIExplanations = copyMap(s.cached.AIExplanations)
	return &copied, nil
}

// Update replaces the whole document. The theme must be one of the
// closed enumeration; nested maps are accepted as-is.
func (s *Store) Update(next *Settings) (*Settings, error) {
	if next == nil {
		return nil, domain.NewInvalidInputError("settings payload is required")
	}
	if !next.Theme.Valid() {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid theme: %q", next.Theme))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	normalized := *next
	if normalized.CategoryProgress == nil {
		normalized.CategoryProgress = map[string]int{}
	}
	if normalized.AIExplanations == nil {
		normalized.AIExplanations = map[string]string{}
	}
	s.cached = &normalized
	if err := s.saveLocked(); err != nil {
		return nil, err
	}
	result := normalized
	return &result, nil
}

// AIConfig returns just the endpoint configuration.
func (s *Store) AIConfig() (AIConfig, error) {
	doc, err := s.Get()
	if err != nil {
		return AIConfig{}, err
	}
	return doc.AIConfig, nil
}

// SetLastFilePath remembers the most recently imported workbook.
func (s *Store) SetLastFilePath(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return err
	}
	s.cached.LastFilePath = path
	return s.saveLocked()
}

// Explanation returns the cached AI explanation for a question.
func (s *Store) Explanation(questionID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return "", false
	}
	text, ok := s.cached.AIExplanations[strconv.FormatInt(questionID, 10)]
	return text, ok && text != ""
}

// SetExplanation caches a generated explanation for a question.
func (s *Store) SetExplanation(questionID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return err
	}
	s.cached.AIExplanations[strconv.FormatInt(questionID, 10)] = text
	return s.saveLocked()
}

func (s *Store) loadLocked() error {
	if s.cached != nil {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.cached = Defaults()
		return s.saveLocked()
	}
	if err != nil {
		return domain.NewInternalError("failed to read settings file", err)
	}

	doc := Defaults()
	if err := json.Unmarshal(data, doc); err != nil {
		return domain.NewInternalError("failed to parse settings file", err)
	}
	// A hand-edited file may carry an unknown theme; fall back rather
	// than refusing to start.
	if !doc.Theme.Valid() {
		doc.Theme = ThemeLight
	}
	if doc.CategoryProgress == nil {
		doc.CategoryProgress = map[string]int{}
	}
	if doc.AIExplanations == nil {
		doc.AIExplanations = map[string]string{}
	}
	s.cached = doc
	return nil
}

func (s *Store) saveLocked() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.NewInternalError("failed to create settings directory", err)
		}
	}
	data, err := json.MarshalIndent(s.cached, "", "  ")
	if err != nil {
		return domain.NewInternalError("failed to encode settings", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return domain.NewInternalError("failed to write settings file", err)
	}
	return nil
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
