package feedback

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

const (
	FormatJSONL = "jsonl"
	FormatXLSX  = "xlsx"

	exportSheet = "Feedback"
)

// ContentType returns the MIME type for an export format
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/x-ndjson"
}

// Export writes history to w in the requested format
func Export(w io.Writer, format string, history []models.Feedback) error {
	switch format {
	case FormatJSONL:
		return writeJSONL(w, history)
	case FormatXLSX:
		return writeXLSX(w, history)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// one feedback record per line
func writeJSONL(w io.Writer, history []models.Feedback) error {
	enc := json.NewEncoder(w)
	for i := range history {
		if err := enc.Encode(&history[i]); err != nil {
			return fmt.Errorf("failed to encode feedback %s: %w", history[i].ID, err)
		}
	}
	return nil
}

func exportHeader() []any {
	header := []any{"Feedback ID", "Interview ID", "Created At", "Total Score"}
	for _, c := range models.FeedbackCategories() {
		header = append(header, c)
	}
	return append(header, "Strengths", "Areas For Improvement", "Final Assessment")
}

func writeXLSX(w io.Writer, history []models.Feedback) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	header := exportHeader()
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}

	for i, fb := range history {
		scores := make(map[string]float64, len(fb.CategoryScores))
		for _, c := range fb.CategoryScores {
			scores[c.Name] = c.Score
		}
		row := []any{fb.ID, fb.InterviewID, fb.CreatedAt.UTC().Format("2006-01-02 15:04:05"), fb.TotalScore}
		for _, c := range models.FeedbackCategories() {
			row = append(row, scores[c])
		}
		row = append(row,
			strings.Join(fb.Strengths, "; "),
			strings.Join(fb.AreasForImprovement, "; "),
			fb.FinalAssessment,
		)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to render workbook: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}
