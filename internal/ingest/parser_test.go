package ingest

import (
	"fmt"
	"path/filepath"
	"testing"

	"quizdesk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testHeader = []interface{}{
	"question", "option_a", "option_b", "option_c", "option_d",
	"answer", "category", "type", "note", "difficulty",
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &testHeader))
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(t.TempDir(), "bank.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestParseValidWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"  What is Go?  ", "A language", "A game", "", "", "A", "Programming", "single", "see golang.org", "easy"},
		{"Pick the even number", "1", "2", "3", "4", "B", "Math", "", "", ""},
	})

	result, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, result.Questions, 2)
	assert.Equal(t, path, result.FilePath)
	assert.Zero(t, result.Skipped)

	first := result.Questions[0]
	assert.Equal(t, "What is Go?", first.Stem) // trimmed
	assert.Equal(t, "A language", first.OptionA)
	assert.Equal(t, "A game", first.OptionB)
	assert.Equal(t, "", first.OptionC)
	assert.Equal(t, "", first.OptionD)
	assert.Equal(t, "A", first.Answer)
	assert.Equal(t, "Programming", first.Category)
	assert.Equal(t, "single", first.Type)
	assert.Equal(t, "see golang.org", first.Note)
	assert.Equal(t, "easy", first.Difficulty)

	second := result.Questions[1]
	assert.Equal(t, "3", second.OptionC)
	assert.Equal(t, "4", second.OptionD)
	assert.Equal(t, "", second.Category+second.Type+second.Note+second.Difficulty)
}

func TestParseSkipsRowsMissingRequiredFields(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Valid question", "a", "b", "", "", "A", "", "", "", ""},
		{"", "a", "b", "", "", "A", "", "", "", ""},          // no stem
		{"No answer", "a", "b", "", "", "", "", "", "", ""},  // no answer
		{"No option B", "a", "", "", "", "A", "", "", "", ""},
		{"Another valid", "a", "b", "", "", "B", "", "", "", ""},
	})

	result, err := Parse(path)
	require.NoError(t, err)
	assert.Len(t, result.Questions, 2)
	assert.Equal(t, 3, result.Skipped)

	// Row numbers are 1-based and offset by the header row.
	assert.Equal(t, []string{
		"Row 3: missing required fields",
		"Row 4: missing required fields",
		"Row 5: missing required fields",
	}, result.RowErrors)

	// Every accepted row satisfies the required-field invariant.
	for _, q := range result.Questions {
		assert.NotEmpty(t, q.Stem)
		assert.NotEmpty(t, q.OptionA)
		assert.NotEmpty(t, q.OptionB)
		assert.NotEmpty(t, q.Answer)
	}
}

func TestParseFailsWhenNoRowValidates(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"", "a", "b", "", "", "A", "", "", "", ""},
		{"No answer", "a", "b", "", "", "", "", "", "", ""},
	})

	_, err := Parse(path)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrParseFailed, domainErr.Code)
	assert.Contains(t, domainErr.Message, "no valid questions found")
	assert.Contains(t, domainErr.Message, "Row 2: missing required fields")
	assert.Contains(t, domainErr.Message, "Row 3: missing required fields")
}

func TestParseFailsOnEmptyWorkbook(t *testing.T) {
	path := writeWorkbook(t, nil) // header only

	_, err := Parse(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data found")
}

func TestParseFailsOnMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestPreviewTruncatesToFirstRows(t *testing.T) {
	rows := make([][]interface{}, 0, 20)
	for i := 1; i <= 20; i++ {
		rows = append(rows, []interface{}{
			fmt.Sprintf("Question %d", i), "a", "b", "", "", "A", "", "", "", "",
		})
	}
	path := writeWorkbook(t, rows)

	full, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, full.Questions, 20)

	preview, err := Preview(path, 3)
	require.NoError(t, err)
	require.Len(t, preview.Questions, 3)
	for i := range preview.Questions {
		assert.Equal(t, *full.Questions[i], *preview.Questions[i])
	}

	// Zero means the default.
	preview, err = Preview(path, 0)
	require.NoError(t, err)
	assert.Len(t, preview.Questions, DefaultPreviewRows)
}

func TestParseIgnoresUnknownColumns(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"question", "bogus", "option_a", "option_b", "answer"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	row := []interface{}{"Stem", "ignored", "a", "b", "A"}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &row))
	path := filepath.Join(t.TempDir(), "odd.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	result, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, "Stem", result.Questions[0].Stem)
	assert.Equal(t, "a", result.Questions[0].OptionA)
	assert.Equal(t, "", result.Questions[0].Category)
}
