// Package ingest reads question banks from workbook files. Only the
// first worksheet is considered; the header row names the columns and
// each following row becomes one question candidate.
package ingest

import (
	"fmt"
	"os"
	"strings"

	"quizdesk/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Recognized header names, matched case-insensitively after trimming.
const (
	colStem       = "question"
	colOptionA    = "option_a"
	colOptionB    = "option_b"
	colOptionC    = "option_c"
	colOptionD    = "option_d"
	colAnswer     = "answer"
	colCategory   = "category"
	colType       = "type"
	colNote       = "note"
	colDifficulty = "difficulty"
)

// DefaultPreviewRows is how many accepted rows Preview keeps when the
// caller does not say otherwise.
const DefaultPreviewRows = 5

// Result is the outcome of a successful parse. Skipped rows are
// non-fatal; their reasons are kept for reporting.
type Result struct {
	Questions []*domain.Question
	FilePath  string
	Skipped   int
	RowErrors []string
}

// Parse reads the workbook at path and returns every row that has the
// four required fields (stem, answer, options A and B). Rows missing
// any of them are recorded and skipped. Parse fails only when the file
// is unreadable, the sheet is empty, or no row validates at all.
func Parse(path string) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, domain.NewParseError(fmt.Sprintf("file not found: %s", path), err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, domain.NewParseError("failed to parse workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.NewParseError("no sheets found in workbook", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, domain.NewParseError("failed to read worksheet", err)
	}
	if len(rows) < 2 {
		return nil, domain.NewParseError("no data found in workbook", nil)
	}

	header := headerIndex(rows[0])

	result := &Result{FilePath: path}
	for i, row := range rows[1:] {
		q := validateRow(header, row)
		if q == nil {
			// +2 accounts for the header row and 1-based numbering.
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("Row %d: missing required fields", i+2))
			continue
		}
		result.Questions = append(result.Questions, q)
	}
	result.Skipped = len(result.RowErrors)

	if len(result.Questions) == 0 {
		return nil, domain.NewParseError(
			fmt.Sprintf("no valid questions found: %s", strings.Join(result.RowErrors, "; ")), nil)
	}
	return result, nil
}

// Preview parses like Parse but keeps only the first rowCount accepted
// rows, for UI preview before committing an import.
func Preview(path string, rowCount int) (*Result, error) {
	if rowCount <= 0 {
		rowCount = DefaultPreviewRows
	}
	result, err := Parse(path)
	if err != nil {
		return nil, err
	}
	if len(result.Questions) > rowCount {
		result.Questions = result.Questions[:rowCount]
	}
	return result, nil
}

// headerIndex maps recognized column names to their positions.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key != "" {
			index[key] = i
		}
	}
	return index
}

// validateRow accepts a row only when stem, answer, option A and
// option B are all non-empty. Everything else is copied verbatim,
// trimmed, with "" for absent optional fields.
func validateRow(header map[string]int, row []string) *domain.Question {
	cell := func(col string) string {
		i, ok := header[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	stem := cell(colStem)
	answer := cell(colAnswer)
	optionA := cell(colOptionA)
	optionB := cell(colOptionB)
	if stem == "" || answer == "" || optionA == "" || optionB == "" {
		return nil
	}

	return &domain.Question{
		Stem:       stem,
		OptionA:    optionA,
		OptionB:    optionB,
		OptionC:    cell(colOptionC),
		OptionD:    cell(colOptionD),
		Answer:     answer,
		Category:   cell(colCategory),
		Type:       cell(colType),
		Note:       cell(colNote),
		Difficulty: cell(colDifficulty),
	}
}
