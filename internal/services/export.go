package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

type LongRow struct {
	ScanID      string
	Email       string
	QuestionID  int
	Category    string
	Value       string
	Score       int
	SubmittedAt string
}

// ExportLongCSV renders one row per scored answer.
func ExportLongCSV(rows []LongRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"scan_id", "email", "question_id", "category", "value", "score", "submitted_at"})
	for _, r := range rows {
		rec := []string{
			r.ScanID,
			r.Email,
			strconv.Itoa(r.QuestionID),
			r.Category,
			r.Value,
			strconv.Itoa(r.Score),
			r.SubmittedAt,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportWideCSV renders one row per scan with a score column per catalog question.
// Unanswered questions are left blank so they can be told apart from a zero score.
func ExportWideCSV(c *Catalog, scans []*StoredScan) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"scan_id", "name", "email", "company", "submitted_at"}
	for _, q := range c.Questions() {
		header = append(header, fmt.Sprintf("q%d", q.ID))
	}
	header = append(header, "total_score", "total_percentage", "maturity_level")
	_ = w.Write(header)
	for _, sc := range scans {
		scores := make(map[int]int, len(sc.Result.Answers))
		for _, a := range sc.Result.Answers {
			scores[a.QuestionID] = a.Score
		}
		row := make([]string, 0, len(header))
		row = append(row, sc.ID, sc.Name, sc.Email, sc.Company, formatTime(sc.CreatedAt))
		for _, q := range c.Questions() {
			if v, ok := scores[q.ID]; ok {
				row = append(row, strconv.Itoa(v))
			} else {
				row = append(row, "")
			}
		}
		row = append(row,
			strconv.Itoa(sc.Result.TotalScore),
			strconv.Itoa(sc.Result.TotalPercentage),
			strconv.Itoa(sc.Result.MaturityLevel.Level),
		)
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportSummaryCSV renders totals, maturity and per-category percentages per scan.
func ExportSummaryCSV(c *Catalog, scans []*StoredScan) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"scan_id", "name", "email", "company", "submitted_at", "total_score", "max_total_score", "total_percentage", "maturity_level", "maturity_label"}
	cats := c.Categories()
	for _, cat := range cats {
		header = append(header, cat+" (%)")
	}
	_ = w.Write(header)
	for _, sc := range scans {
		res := sc.Result
		row := []string{
			sc.ID, sc.Name, sc.Email, sc.Company, formatTime(sc.CreatedAt),
			strconv.Itoa(res.TotalScore),
			strconv.Itoa(res.MaxTotalScore),
			strconv.Itoa(res.TotalPercentage),
			strconv.Itoa(res.MaturityLevel.Level),
			res.MaturityLevel.Label,
		}
		for _, cat := range cats {
			row = append(row, strconv.Itoa(res.CategoryScores[cat].Percentage))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatAnswerValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	}
	return fmt.Sprint(v)
}
